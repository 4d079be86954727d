package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/bricesuazo/eboto-api/internal/auth"
	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/services"
	"github.com/bricesuazo/eboto-api/internal/storage/migrations"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
)

func newTestRepos(t *testing.T) *postgres.Container {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrations.AllModels()...))

	return postgres.NewContainerWithDB(db)
}

func registerAccount(t *testing.T, repos *postgres.Container, email string) *voter.Account {
	t.Helper()
	account := voter.NewAccount(email, "Test Account", "hash")
	require.NoError(t, repos.Accounts().Create(account))
	return account
}

func createElectionRequest() services.CreateElectionRequest {
	return services.CreateElectionRequest{
		Name:      "Student Council 2026",
		Slug:      fmt.Sprintf("student-council-%d", time.Now().UnixNano()),
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateElection_SetsUpDefaults(t *testing.T) {
	repos := newTestRepos(t)
	svc := services.NewElectionService(repos)
	creator := registerAccount(t, repos, "creator@example.com")

	elec, err := svc.CreateElection(creator.ID.String(), createElectionRequest())
	require.NoError(t, err)

	// Hours default to the 07:00-19:00 window
	assert.Equal(t, 7, elec.VotingStartHour)
	assert.Equal(t, 19, elec.VotingEndHour)
	assert.Equal(t, election.PublicityPrivate, elec.Publicity)

	// The built-in Independent partylist exists
	partylists, err := repos.Partylists().GetByElectionID(elec.ID.String())
	require.NoError(t, err)
	require.Len(t, partylists, 1)
	assert.Equal(t, "IND", partylists[0].Acronym)

	// The creator manages the election
	isCommissioner, err := repos.Voters().IsCommissioner(elec.ID.String(), creator.ID.String())
	require.NoError(t, err)
	assert.True(t, isCommissioner)
}

func TestCreateElection_RejectsBadInput(t *testing.T) {
	repos := newTestRepos(t)
	svc := services.NewElectionService(repos)
	creator := registerAccount(t, repos, "creator@example.com")

	cases := []struct {
		name   string
		mutate func(*services.CreateElectionRequest)
	}{
		{"uppercase slug", func(r *services.CreateElectionRequest) { r.Slug = "Student-Council" }},
		{"short name", func(r *services.CreateElectionRequest) { r.Name = "ab" }},
		{"end before start", func(r *services.CreateElectionRequest) { r.EndDate = r.StartDate.AddDate(0, 0, -1) }},
		{"inverted hours", func(r *services.CreateElectionRequest) {
			start, end := 19, 7
			r.VotingStartHour, r.VotingEndHour = &start, &end
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createElectionRequest()
			tc.mutate(&req)
			_, err := svc.CreateElection(creator.ID.String(), req)
			assert.Error(t, err)
		})
	}
}

func TestElectionAccessFlows(t *testing.T) {
	repos := newTestRepos(t)
	svc := services.NewElectionService(repos)
	creator := registerAccount(t, repos, "creator@example.com")
	rosterAccount := registerAccount(t, repos, "voter@example.com")
	stranger := registerAccount(t, repos, "stranger@example.com")

	elec, err := svc.CreateElection(creator.ID.String(), createElectionRequest())
	require.NoError(t, err)
	require.NoError(t, repos.Voters().Create(voter.NewVoter(elec.ID, rosterAccount.ID)))

	// Private: only the commissioner sees it, everyone else gets not found
	_, err = svc.GetElectionForViewer(elec.Slug, creator.ID.String())
	assert.NoError(t, err)
	_, err = svc.GetElectionForViewer(elec.Slug, rosterAccount.ID.String())
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = svc.GetElectionForViewer(elec.Slug, "")
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Voter tier: roster members see it, anonymous is told to sign in
	publicity := "voter"
	_, err = svc.UpdateElection(elec.ID.String(), creator.ID.String(), services.UpdateElectionRequest{Publicity: &publicity})
	require.NoError(t, err)

	_, err = svc.GetElectionForViewer(elec.Slug, rosterAccount.ID.String())
	assert.NoError(t, err)
	_, err = svc.GetElectionForViewer(elec.Slug, stranger.ID.String())
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = svc.GetElectionForViewer(elec.Slug, "")
	assert.ErrorIs(t, err, services.ErrMustSignIn)

	// Public: anyone, signed in or not
	publicity = "public"
	_, err = svc.UpdateElection(elec.ID.String(), creator.ID.String(), services.UpdateElectionRequest{Publicity: &publicity})
	require.NoError(t, err)

	_, err = svc.GetElectionForViewer(elec.Slug, "")
	assert.NoError(t, err)
	_, err = svc.GetElectionForViewer(elec.Slug, stranger.ID.String())
	assert.NoError(t, err)
}

func TestOnlyCommissionersManageElections(t *testing.T) {
	repos := newTestRepos(t)
	svc := services.NewElectionService(repos)
	creator := registerAccount(t, repos, "creator@example.com")
	outsider := registerAccount(t, repos, "outsider@example.com")

	elec, err := svc.CreateElection(creator.ID.String(), createElectionRequest())
	require.NoError(t, err)

	_, err = svc.CreatePosition(elec.ID.String(), outsider.ID.String(), services.CreatePositionRequest{Name: "President"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = svc.DeleteElection(elec.ID.String(), outsider.ID.String())
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestBallotStructure(t *testing.T) {
	repos := newTestRepos(t)
	svc := services.NewElectionService(repos)
	creator := registerAccount(t, repos, "creator@example.com")

	elec, err := svc.CreateElection(creator.ID.String(), createElectionRequest())
	require.NoError(t, err)

	president, err := svc.CreatePosition(elec.ID.String(), creator.ID.String(), services.CreatePositionRequest{Name: "President", Order: 1})
	require.NoError(t, err)
	secretary, err := svc.CreatePosition(elec.ID.String(), creator.ID.String(), services.CreatePositionRequest{Name: "Secretary", Order: 2})
	require.NoError(t, err)

	partylists, err := repos.Partylists().GetByElectionID(elec.ID.String())
	require.NoError(t, err)

	_, err = svc.CreateCandidate(elec.ID.String(), creator.ID.String(), services.CreateCandidateRequest{
		Slug:        "alice-cruz",
		FirstName:   "Alice",
		LastName:    "Cruz",
		PositionID:  president.ID.String(),
		PartylistID: partylists[0].ID.String(),
	})
	require.NoError(t, err)

	publicity := "public"
	_, err = svc.UpdateElection(elec.ID.String(), creator.ID.String(), services.UpdateElectionRequest{Publicity: &publicity})
	require.NoError(t, err)

	positions, byPosition, err := svc.GetBallotStructure(elec.Slug, "")
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, president.ID, positions[0].ID, "positions come back in ballot order")
	assert.Len(t, byPosition[president.ID.String()], 1)
	assert.Empty(t, byPosition[secretary.ID.String()])
}

func TestRosterInviteLifecycle(t *testing.T) {
	repos := newTestRepos(t)
	electionSvc := services.NewElectionService(repos)
	rosterSvc := services.NewRosterService(repos)
	creator := registerAccount(t, repos, "creator@example.com")
	invitee := registerAccount(t, repos, "invitee@example.com")

	elec, err := electionSvc.CreateElection(creator.ID.String(), createElectionRequest())
	require.NoError(t, err)

	invite, err := rosterSvc.InviteVoter(elec.ID.String(), creator.ID.String(), services.InviteVoterRequest{Email: "invitee@example.com"})
	require.NoError(t, err)
	assert.Equal(t, voter.InviteAdded, invite.Status)

	invite, err = rosterSvc.MarkInviteSent(elec.ID.String(), creator.ID.String(), invite.ID.String())
	require.NoError(t, err)
	assert.Equal(t, voter.InviteInvited, invite.Status)

	// Only the account holding the invited email may respond
	wrongAccount := registerAccount(t, repos, "someone-else@example.com")
	_, err = rosterSvc.RespondToInvite(elec.ID.String(), invite.ID.String(), wrongAccount.ID.String(), true)
	assert.ErrorIs(t, err, services.ErrForbidden)

	invite, err = rosterSvc.RespondToInvite(elec.ID.String(), invite.ID.String(), invitee.ID.String(), true)
	require.NoError(t, err)
	assert.Equal(t, voter.InviteAccepted, invite.Status)

	isVoter, err := repos.Voters().IsVoter(elec.ID.String(), invitee.ID.String())
	require.NoError(t, err)
	assert.True(t, isVoter, "accepting the invite puts the account on the roster")

	// A settled invite cannot be responded to again
	_, err = rosterSvc.RespondToInvite(elec.ID.String(), invite.ID.String(), invitee.ID.String(), false)
	assert.Error(t, err)
}

func TestRosterRequiresCommissioner(t *testing.T) {
	repos := newTestRepos(t)
	electionSvc := services.NewElectionService(repos)
	rosterSvc := services.NewRosterService(repos)
	creator := registerAccount(t, repos, "creator@example.com")
	outsider := registerAccount(t, repos, "outsider@example.com")

	elec, err := electionSvc.CreateElection(creator.ID.String(), createElectionRequest())
	require.NoError(t, err)

	_, err = rosterSvc.InviteVoter(elec.ID.String(), outsider.ID.String(), services.InviteVoterRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, _, err = rosterSvc.GetRoster(elec.ID.String(), outsider.ID.String())
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestAccountRegisterAndLogin(t *testing.T) {
	repos := newTestRepos(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := services.NewAccountService(repos.Accounts(), tokens)

	account, err := svc.Register(services.RegisterRequest{
		Name:     "Juan dela Cruz",
		Email:    "juan@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", account.PasswordHash)

	// Duplicate email is a conflict
	_, err = svc.Register(services.RegisterRequest{
		Name:     "Impostor",
		Email:    "juan@example.com",
		Password: "another pass",
	})
	assert.ErrorIs(t, err, postgres.ErrConflict)

	loggedIn, token, err := svc.Login(services.LoginRequest{Email: "juan@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, account.ID, loggedIn.ID)

	claims, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.AccountID)

	_, _, err = svc.Login(services.LoginRequest{Email: "juan@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.Login(services.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
