package election

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testElection() *Election {
	return NewElection(
		"Student Council 2026",
		"student-council-2026",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		7, 19,
	)
}

func TestElectionStatus(t *testing.T) {
	e := testElection()

	cases := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"day before start", time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), StatusUpcoming},
		{"midnight of first day", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), StatusVotingClosedToday},
		{"first day before opening", time.Date(2026, 9, 1, 6, 59, 59, 0, time.UTC), StatusVotingClosedToday},
		{"first day at opening hour", time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC), StatusVotingOpen},
		{"mid window", time.Date(2026, 9, 2, 12, 30, 0, 0, time.UTC), StatusVotingOpen},
		{"last second of window", time.Date(2026, 9, 2, 18, 59, 59, 0, time.UTC), StatusVotingOpen},
		{"at closing hour", time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC), StatusVotingClosedToday},
		{"late evening mid election", time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC), StatusVotingClosedToday},
		{"last day inside window", time.Date(2026, 9, 3, 18, 59, 0, 0, time.UTC), StatusVotingOpen},
		{"last day at closing hour", time.Date(2026, 9, 3, 19, 0, 0, 0, time.UTC), StatusEnded},
		{"day after end", time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC), StatusEnded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Status(tc.now))
		})
	}
}

func TestIsVotingOpenMatchesStatus(t *testing.T) {
	e := testElection()

	assert.True(t, e.IsVotingOpen(time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)))
	assert.False(t, e.IsVotingOpen(time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)))
	assert.False(t, e.IsVotingOpen(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)))
}

func TestElectionValidate(t *testing.T) {
	valid := testElection()
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Election)
	}{
		{"missing name", func(e *Election) { e.Name = "" }},
		{"missing slug", func(e *Election) { e.Slug = "" }},
		{"end before start", func(e *Election) { e.EndDate = e.StartDate.AddDate(0, 0, -1) }},
		{"negative start hour", func(e *Election) { e.VotingStartHour = -1 }},
		{"start hour past 23", func(e *Election) { e.VotingStartHour = 24 }},
		{"zero end hour", func(e *Election) { e.VotingEndHour = 0 }},
		{"end hour past 24", func(e *Election) { e.VotingEndHour = 25 }},
		{"end hour not after start hour", func(e *Election) { e.VotingStartHour = 12; e.VotingEndHour = 12 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := testElection()
			tc.mutate(e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestAccessPolicy(t *testing.T) {
	commissioner := Viewer{IsCommissioner: true}
	voterViewer := Viewer{IsVoter: true}
	stranger := Viewer{}
	anonymous := AnonymousViewer()

	cases := []struct {
		name      string
		publicity Publicity
		viewer    Viewer
		want      Decision
	}{
		{"private commissioner", PublicityPrivate, commissioner, DecisionAllowed},
		{"private voter", PublicityPrivate, voterViewer, DecisionDenied},
		{"private stranger", PublicityPrivate, stranger, DecisionDenied},
		{"private anonymous", PublicityPrivate, anonymous, DecisionDenied},

		{"voter tier commissioner", PublicityVoter, commissioner, DecisionAllowed},
		{"voter tier voter", PublicityVoter, voterViewer, DecisionAllowed},
		{"voter tier stranger", PublicityVoter, stranger, DecisionDenied},
		{"voter tier anonymous", PublicityVoter, anonymous, DecisionMustSignIn},

		{"public commissioner", PublicityPublic, commissioner, DecisionAllowed},
		{"public stranger", PublicityPublic, stranger, DecisionAllowed},
		{"public anonymous", PublicityPublic, anonymous, DecisionAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := testElection()
			e.Publicity = tc.publicity
			assert.Equal(t, tc.want, e.Access(tc.viewer))
		})
	}
}

func TestCanVote(t *testing.T) {
	e := testElection()
	e.Publicity = PublicityPublic

	assert.True(t, e.CanVote(Viewer{IsVoter: true}))
	assert.False(t, e.CanVote(Viewer{IsCommissioner: true}), "managing an election does not grant a ballot")
	assert.False(t, e.CanVote(AnonymousViewer()))
	assert.False(t, e.CanVote(Viewer{}))
}

func TestPublicityRoundTrip(t *testing.T) {
	for _, p := range []Publicity{PublicityPrivate, PublicityVoter, PublicityPublic} {
		parsed, ok := PublicityFromString(p.String())
		require.True(t, ok)
		assert.Equal(t, p, parsed)
	}

	_, ok := PublicityFromString("everyone")
	assert.False(t, ok)
}
