package ballot_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/storage/migrations"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
)

// newTestDB opens an isolated in-memory database with the full schema. The
// shared cache keeps the database alive across the pooled connections and the
// busy timeout serializes the concurrent writers in the race tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(migrations.AllModels()...))
	return db
}

// fixture is one election with two positions, candidates and a roster,
// plus a ballot service whose clock sits inside the voting window.
type fixture struct {
	svc       *ballot.Service
	repos     *postgres.Container
	elec      *election.Election
	president *election.Position
	secretary *election.Position
	alice     *election.Candidate // runs for president
	bob       *election.Candidate // runs for president
	carol     *election.Candidate // runs for secretary
	voterID   uuid.UUID
}

func (f *fixture) addVoter(t *testing.T) uuid.UUID {
	t.Helper()
	account := voter.NewAccount(fmt.Sprintf("%s@example.com", uuid.New()), "Test Voter", "hash")
	require.NoError(t, f.repos.Accounts().Create(account))
	require.NoError(t, f.repos.Voters().Create(voter.NewVoter(f.elec.ID, account.ID)))
	return account.ID
}

// openClock is 10:00 on the second election day, inside the 07:00-19:00 window
var openClock = func() time.Time {
	return time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T, now func() time.Time) *fixture {
	t.Helper()

	db := newTestDB(t)
	repos := postgres.NewContainerWithDB(db)

	elec := election.NewElection(
		"Student Council 2026",
		fmt.Sprintf("student-council-%s", uuid.New()),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		7, 19,
	)
	require.NoError(t, repos.Elections().Create(elec))

	president := election.NewPosition(elec.ID, "President", 1)
	secretary := election.NewPosition(elec.ID, "Secretary", 2)
	require.NoError(t, repos.Positions().Create(president))
	require.NoError(t, repos.Positions().Create(secretary))

	partylist := election.NewPartylist(elec.ID, "Independent", "IND")
	require.NoError(t, repos.Partylists().Create(partylist))

	alice := election.NewCandidate(elec.ID, president.ID, partylist.ID, "alice-cruz", "Alice", "Cruz")
	bob := election.NewCandidate(elec.ID, president.ID, partylist.ID, "bob-santos", "Bob", "Santos")
	carol := election.NewCandidate(elec.ID, secretary.ID, partylist.ID, "carol-reyes", "Carol", "Reyes")
	require.NoError(t, repos.Candidates().Create(alice))
	require.NoError(t, repos.Candidates().Create(bob))
	require.NoError(t, repos.Candidates().Create(carol))

	f := &fixture{
		repos:     repos,
		elec:      elec,
		president: president,
		secretary: secretary,
		alice:     alice,
		bob:       bob,
		carol:     carol,
	}
	f.voterID = f.addVoter(t)

	f.svc = ballot.NewServiceWithClock(
		repos.Elections(), repos.Positions(), repos.Candidates(), repos.Voters(), repos.Votes(), now)
	return f
}

func (f *fixture) fullBallot() []ballot.Selection {
	return []ballot.Selection{
		ballot.ChooseCandidate(f.president.ID, f.alice.ID),
		ballot.ChooseCandidate(f.secretary.ID, f.carol.ID),
	}
}

func TestCastVote_CommitsFullBallot(t *testing.T) {
	f := newFixture(t, openClock)

	err := f.svc.CastVote(f.elec.ID, f.voterID, f.fullBallot())
	require.NoError(t, err)

	hasVoted, err := f.svc.HasVoted(f.elec.ID, f.voterID)
	require.NoError(t, err)
	assert.True(t, hasVoted)

	votes, err := f.repos.Votes().GetByElectionID(f.elec.ID.String())
	require.NoError(t, err)
	assert.Len(t, votes, 2)
}

func TestCastVote_AbstentionIsCounted(t *testing.T) {
	f := newFixture(t, openClock)

	err := f.svc.CastVote(f.elec.ID, f.voterID, []ballot.Selection{
		ballot.ChooseCandidate(f.president.ID, f.bob.ID),
		ballot.Abstain(f.secretary.ID),
	})
	require.NoError(t, err)

	tally, err := f.svc.GetTally(f.elec.ID)
	require.NoError(t, err)
	require.Len(t, tally.Positions, 2)

	assert.Equal(t, int64(0), tally.Positions[0].Abstentions)
	assert.Equal(t, int64(1), tally.Positions[1].Abstentions)
	assert.Equal(t, int64(1), tally.TotalBallots)
}

func TestCastVote_ElectionNotFound(t *testing.T) {
	f := newFixture(t, openClock)

	err := f.svc.CastVote(uuid.New(), f.voterID, f.fullBallot())
	assert.ErrorIs(t, err, ballot.ErrNotFound)
}

func TestCastVote_WindowBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"before first day", time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), ballot.ErrNotOpen},
		{"one minute before opening", time.Date(2026, 9, 2, 6, 59, 0, 0, time.UTC), ballot.ErrNotOpen},
		{"exactly at opening hour", time.Date(2026, 9, 2, 7, 0, 0, 0, time.UTC), nil},
		{"last minute of window", time.Date(2026, 9, 2, 18, 59, 59, 0, time.UTC), nil},
		{"exactly at closing hour", time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC), ballot.ErrNotOpen},
		{"after final close", time.Date(2026, 9, 3, 19, 0, 0, 0, time.UTC), ballot.ErrNotOpen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := tc.now
			f := newFixture(t, func() time.Time { return now })

			err := f.svc.CastVote(f.elec.ID, f.voterID, f.fullBallot())
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestCastVote_NotOnRoster(t *testing.T) {
	f := newFixture(t, openClock)

	outsider := voter.NewAccount("outsider@example.com", "Outsider", "hash")
	require.NoError(t, f.repos.Accounts().Create(outsider))

	err := f.svc.CastVote(f.elec.ID, outsider.ID, f.fullBallot())
	assert.ErrorIs(t, err, ballot.ErrForbidden)

	votes, err := f.repos.Votes().GetByElectionID(f.elec.ID.String())
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestCastVote_SecondBallotRejected(t *testing.T) {
	f := newFixture(t, openClock)

	require.NoError(t, f.svc.CastVote(f.elec.ID, f.voterID, f.fullBallot()))

	err := f.svc.CastVote(f.elec.ID, f.voterID, []ballot.Selection{
		ballot.ChooseCandidate(f.president.ID, f.bob.ID),
	})
	assert.ErrorIs(t, err, ballot.ErrAlreadyVoted)

	// The first ballot stays intact
	votes, err := f.repos.Votes().GetByElectionID(f.elec.ID.String())
	require.NoError(t, err)
	assert.Len(t, votes, 2)
}

func TestCastVote_InvalidSelections(t *testing.T) {
	f := newFixture(t, openClock)

	foreignPosition := uuid.New()
	unknownCandidate := uuid.New()

	cases := []struct {
		name       string
		selections []ballot.Selection
	}{
		{"empty ballot", nil},
		{"duplicate position", []ballot.Selection{
			ballot.ChooseCandidate(f.president.ID, f.alice.ID),
			ballot.ChooseCandidate(f.president.ID, f.bob.ID),
		}},
		{"position of another election", []ballot.Selection{
			ballot.ChooseCandidate(foreignPosition, f.alice.ID),
		}},
		{"unknown candidate", []ballot.Selection{
			ballot.ChooseCandidate(f.president.ID, unknownCandidate),
		}},
		{"candidate running for a different position", []ballot.Selection{
			ballot.ChooseCandidate(f.secretary.ID, f.alice.ID),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.svc.CastVote(f.elec.ID, f.voterID, tc.selections)
			assert.ErrorIs(t, err, ballot.ErrInvalidSelection)
		})
	}

	// Nothing was committed by any of the rejected ballots
	votes, err := f.repos.Votes().GetByElectionID(f.elec.ID.String())
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestCastVote_ConcurrentDoubleSubmission(t *testing.T) {
	f := newFixture(t, openClock)

	const attempts = 8
	var successes atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			// Alternate between two different ballots so a torn commit
			// would be visible as mixed rows
			selections := f.fullBallot()
			if n%2 == 1 {
				selections = []ballot.Selection{
					ballot.ChooseCandidate(f.president.ID, f.bob.ID),
					ballot.Abstain(f.secretary.ID),
				}
			}

			err := f.svc.CastVote(f.elec.ID, f.voterID, selections)
			if err == nil {
				successes.Add(1)
				return
			}
			if !assert.True(t,
				isOneOf(err, ballot.ErrAlreadyVoted, ballot.ErrTransient),
				"unexpected error: %v", err) {
				return
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load(), "exactly one ballot must win")

	// Exactly one complete ballot committed, never a mix of two
	votes, err := f.repos.Votes().GetByElectionID(f.elec.ID.String())
	require.NoError(t, err)
	require.Len(t, votes, 2)

	count, err := f.repos.Votes().CountBallots(f.elec.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetTally_LiveCountsAndZeroFill(t *testing.T) {
	f := newFixture(t, openClock)

	// Three voters: two for Alice, one for Bob; secretary gets one vote for
	// Carol and two abstentions
	ballots := [][]ballot.Selection{
		{ballot.ChooseCandidate(f.president.ID, f.alice.ID), ballot.ChooseCandidate(f.secretary.ID, f.carol.ID)},
		{ballot.ChooseCandidate(f.president.ID, f.alice.ID), ballot.Abstain(f.secretary.ID)},
		{ballot.ChooseCandidate(f.president.ID, f.bob.ID), ballot.Abstain(f.secretary.ID)},
	}

	require.NoError(t, f.svc.CastVote(f.elec.ID, f.voterID, ballots[0]))
	for _, b := range ballots[1:] {
		voterID := f.addVoter(t)
		require.NoError(t, f.svc.CastVote(f.elec.ID, voterID, b))
	}

	tally, err := f.svc.GetTally(f.elec.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), tally.TotalBallots)
	require.Len(t, tally.Positions, 2)

	// Positions come back in ballot order
	assert.Equal(t, f.president.ID, tally.Positions[0].PositionID)
	assert.Equal(t, f.secretary.ID, tally.Positions[1].PositionID)

	president := tally.Positions[0]
	require.Len(t, president.Candidates, 2)
	assert.Equal(t, f.alice.ID, president.Candidates[0].CandidateID)
	assert.Equal(t, int64(2), president.Candidates[0].Votes)
	assert.Equal(t, f.bob.ID, president.Candidates[1].CandidateID)
	assert.Equal(t, int64(1), president.Candidates[1].Votes)
	assert.Equal(t, int64(0), president.Abstentions)

	secretary := tally.Positions[1]
	require.Len(t, secretary.Candidates, 1)
	assert.Equal(t, int64(1), secretary.Candidates[0].Votes)
	assert.Equal(t, int64(2), secretary.Abstentions)
}

func TestGetTally_EmptyElectionIsZeroFilled(t *testing.T) {
	f := newFixture(t, openClock)

	tally, err := f.svc.GetTally(f.elec.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), tally.TotalBallots)
	require.Len(t, tally.Positions, 2)
	for _, pt := range tally.Positions {
		assert.Equal(t, int64(0), pt.Abstentions)
		for _, ct := range pt.Candidates {
			assert.Equal(t, int64(0), ct.Votes)
		}
	}
}

func TestHasVoted_UnknownElection(t *testing.T) {
	f := newFixture(t, openClock)

	_, err := f.svc.HasVoted(uuid.New(), f.voterID)
	assert.ErrorIs(t, err, ballot.ErrNotFound)
}

func isOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
