package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/bricesuazo/eboto-api/internal/auth"
	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/domain/voter"
	"github.com/bricesuazo/eboto-api/internal/handlers"
	"github.com/bricesuazo/eboto-api/internal/middleware"
	"github.com/bricesuazo/eboto-api/internal/storage/migrations"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
)

type ballotTestEnv struct {
	router    *gin.Engine
	repos     *postgres.Container
	tokens    *auth.TokenManager
	election  *election.Election
	president *election.Position
	alice     *election.Candidate
	voterAcct *voter.Account
}

// newBallotTestEnv wires the real router pieces against an in-memory
// database with the clock pinned inside the voting window.
func newBallotTestEnv(t *testing.T) *ballotTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrations.AllModels()...))
	repos := postgres.NewContainerWithDB(db)

	elec := election.NewElection("Handler Test Election", "handler-test",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), 7, 19)
	require.NoError(t, repos.Elections().Create(elec))

	president := election.NewPosition(elec.ID, "President", 1)
	require.NoError(t, repos.Positions().Create(president))

	partylist := election.NewPartylist(elec.ID, "Independent", "IND")
	require.NoError(t, repos.Partylists().Create(partylist))

	alice := election.NewCandidate(elec.ID, president.ID, partylist.ID, "alice-cruz", "Alice", "Cruz")
	require.NoError(t, repos.Candidates().Create(alice))

	acct := voter.NewAccount("voter@example.com", "Voter", "hash")
	require.NoError(t, repos.Accounts().Create(acct))
	require.NoError(t, repos.Voters().Create(voter.NewVoter(elec.ID, acct.ID)))

	openClock := func() time.Time { return time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC) }
	svc := ballot.NewServiceWithClock(
		repos.Elections(), repos.Positions(), repos.Candidates(), repos.Voters(), repos.Votes(), openClock)

	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)
	h := handlers.NewBallotHandler(svc)

	router := gin.New()
	authed := router.Group("/api/elections", middleware.RequireAuth(tokens))
	authed.POST("/:election_id/votes", h.CastVote)
	authed.GET("/:election_id/votes/status", h.VotingStatus)
	authed.GET("/:election_id/tally", h.GetTally)

	return &ballotTestEnv{
		router:    router,
		repos:     repos,
		tokens:    tokens,
		election:  elec,
		president: president,
		alice:     alice,
		voterAcct: acct,
	}
}

func (env *ballotTestEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *ballotTestEnv) voterToken(t *testing.T) string {
	t.Helper()
	token, err := env.tokens.IssueToken(env.voterAcct.ID.String(), env.voterAcct.Email)
	require.NoError(t, err)
	return token
}

func ballotPayload(positionID uuid.UUID, candidateID *uuid.UUID) gin.H {
	vote := gin.H{"position_id": positionID.String()}
	if candidateID != nil {
		vote["candidate_id"] = candidateID.String()
	}
	return gin.H{"votes": []gin.H{vote}}
}

func TestCastVoteEndpoint(t *testing.T) {
	env := newBallotTestEnv(t)
	votesPath := fmt.Sprintf("/api/elections/%s/votes", env.election.ID)
	payload := ballotPayload(env.president.ID, &env.alice.ID)

	t.Run("requires authentication", func(t *testing.T) {
		w := env.request(t, http.MethodPost, votesPath, payload, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed election id", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/elections/not-a-uuid/votes", payload, env.voterToken(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown election reads as not found", func(t *testing.T) {
		path := fmt.Sprintf("/api/elections/%s/votes", uuid.New())
		w := env.request(t, http.MethodPost, path, payload, env.voterToken(t))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("accepts a valid ballot", func(t *testing.T) {
		w := env.request(t, http.MethodPost, votesPath, payload, env.voterToken(t))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("second ballot is a conflict", func(t *testing.T) {
		w := env.request(t, http.MethodPost, votesPath, payload, env.voterToken(t))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("status reflects the cast ballot", func(t *testing.T) {
		w := env.request(t, http.MethodGet, votesPath+"/status", nil, env.voterToken(t))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data struct {
				HasVoted bool `json:"has_voted"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.HasVoted)
	})
}

func TestCastVoteEndpoint_OutsiderForbidden(t *testing.T) {
	env := newBallotTestEnv(t)

	outsider := voter.NewAccount("outsider@example.com", "Outsider", "hash")
	require.NoError(t, env.repos.Accounts().Create(outsider))
	token, err := env.tokens.IssueToken(outsider.ID.String(), outsider.Email)
	require.NoError(t, err)

	path := fmt.Sprintf("/api/elections/%s/votes", env.election.ID)
	w := env.request(t, http.MethodPost, path, ballotPayload(env.president.ID, &env.alice.ID), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCastVoteEndpoint_InvalidSelection(t *testing.T) {
	env := newBallotTestEnv(t)

	// A candidate id that belongs to no candidate of the election
	bogus := uuid.New()
	path := fmt.Sprintf("/api/elections/%s/votes", env.election.ID)
	w := env.request(t, http.MethodPost, path, ballotPayload(env.president.ID, &bogus), env.voterToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTallyEndpoint(t *testing.T) {
	env := newBallotTestEnv(t)
	votesPath := fmt.Sprintf("/api/elections/%s/votes", env.election.ID)

	w := env.request(t, http.MethodPost, votesPath, ballotPayload(env.president.ID, &env.alice.ID), env.voterToken(t))
	require.Equal(t, http.StatusCreated, w.Code)

	tallyPath := fmt.Sprintf("/api/elections/%s/tally", env.election.ID)
	w = env.request(t, http.MethodGet, tallyPath, nil, env.voterToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data ballot.Tally `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Positions, 1)
	require.Len(t, body.Data.Positions[0].Candidates, 1)
	assert.Equal(t, int64(1), body.Data.Positions[0].Candidates[0].Votes)
}
