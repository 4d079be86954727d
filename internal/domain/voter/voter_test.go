package voter

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteLifecycle(t *testing.T) {
	invite := NewInvitedVoter(uuid.New(), "juan@example.com")
	require.Equal(t, InviteAdded, invite.Status)

	require.NoError(t, invite.UpdateStatus(InviteInvited))
	assert.Equal(t, InviteInvited, invite.Status)

	require.NoError(t, invite.UpdateStatus(InviteAccepted))
	assert.Equal(t, InviteAccepted, invite.Status)
}

func TestInviteDecline(t *testing.T) {
	invite := NewInvitedVoter(uuid.New(), "juan@example.com")

	require.NoError(t, invite.UpdateStatus(InviteInvited))
	require.NoError(t, invite.UpdateStatus(InviteDeclined))
	assert.Equal(t, InviteDeclined, invite.Status)
}

func TestInvalidInviteTransitions(t *testing.T) {
	cases := []struct {
		name string
		from InviteStatus
		to   InviteStatus
	}{
		{"added straight to accepted", InviteAdded, InviteAccepted},
		{"added straight to declined", InviteAdded, InviteDeclined},
		{"accepted back to invited", InviteAccepted, InviteInvited},
		{"declined to accepted", InviteDeclined, InviteAccepted},
		{"accepted to declined", InviteAccepted, InviteDeclined},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invite := NewInvitedVoter(uuid.New(), "juan@example.com")
			invite.Status = tc.from

			err := invite.UpdateStatus(tc.to)
			assert.Error(t, err)
			assert.Equal(t, tc.from, invite.Status, "status must not change on a rejected transition")
		})
	}
}

func TestInviteStatusRoundTrip(t *testing.T) {
	for _, s := range []InviteStatus{InviteAdded, InviteInvited, InviteAccepted, InviteDeclined} {
		parsed, ok := InviteStatusFromString(s.String())
		require.True(t, ok)
		assert.Equal(t, s, parsed)
	}
}
