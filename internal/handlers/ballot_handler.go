package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bricesuazo/eboto-api/internal/domain/ballot"
	"github.com/bricesuazo/eboto-api/internal/middleware"
	"github.com/bricesuazo/eboto-api/internal/response"
)

// BallotHandler serves ballot submission and tally endpoints
type BallotHandler struct {
	ballots *ballot.Service
}

// NewBallotHandler creates a new ballot handler
func NewBallotHandler(ballots *ballot.Service) *BallotHandler {
	return &BallotHandler{ballots: ballots}
}

type voteSelection struct {
	PositionID  string  `json:"position_id" binding:"required"`
	CandidateID *string `json:"candidate_id"`
}

type castVoteRequest struct {
	Votes []voteSelection `json:"votes" binding:"required"`
}

// CastVote handles POST /api/elections/:election_id/votes. The whole ballot
// commits or none of it does.
func (h *BallotHandler) CastVote(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	voterID, err := uuid.Parse(accountID)
	if err != nil {
		response.UnauthorizedError(c, "Invalid account identity")
		return
	}

	electionID, err := uuid.Parse(c.Param("election_id"))
	if err != nil {
		response.BadRequestError(c, "election_id must be a valid UUID")
		return
	}

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	selections := make([]ballot.Selection, 0, len(req.Votes))
	for _, v := range req.Votes {
		positionID, err := uuid.Parse(v.PositionID)
		if err != nil {
			response.BadRequestError(c, "position_id must be a valid UUID")
			return
		}

		if v.CandidateID == nil {
			selections = append(selections, ballot.Abstain(positionID))
			continue
		}

		candidateID, err := uuid.Parse(*v.CandidateID)
		if err != nil {
			response.BadRequestError(c, "candidate_id must be a valid UUID")
			return
		}
		selections = append(selections, ballot.ChooseCandidate(positionID, candidateID))
	}

	if err := h.ballots.CastVote(electionID, voterID, selections); err != nil {
		h.respondBallotError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Ballot cast", gin.H{
		"election_id": electionID,
		"positions":   len(selections),
	})
}

// VotingStatus handles GET /api/elections/:election_id/votes/status
func (h *BallotHandler) VotingStatus(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	voterID, err := uuid.Parse(accountID)
	if err != nil {
		response.UnauthorizedError(c, "Invalid account identity")
		return
	}

	electionID, err := uuid.Parse(c.Param("election_id"))
	if err != nil {
		response.BadRequestError(c, "election_id must be a valid UUID")
		return
	}

	hasVoted, err := h.ballots.HasVoted(electionID, voterID)
	if err != nil {
		h.respondBallotError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"election_id": electionID,
		"has_voted":   hasVoted,
	})
}

// GetTally handles GET /api/elections/:election_id/tally. The tally is
// always computed live from vote rows.
func (h *BallotHandler) GetTally(c *gin.Context) {
	electionID, err := uuid.Parse(c.Param("election_id"))
	if err != nil {
		response.BadRequestError(c, "election_id must be a valid UUID")
		return
	}

	tally, err := h.ballots.GetTally(electionID)
	if err != nil {
		h.respondBallotError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", tally)
}

// respondBallotError maps the ballot error taxonomy to HTTP statuses
func (h *BallotHandler) respondBallotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ballot.ErrNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, ballot.ErrMustSignIn):
		response.UnauthorizedError(c, err.Error())
	case errors.Is(err, ballot.ErrForbidden):
		response.ForbiddenError(c, err.Error())
	case errors.Is(err, ballot.ErrNotOpen):
		response.ForbiddenError(c, err.Error())
	case errors.Is(err, ballot.ErrAlreadyVoted):
		response.ConflictError(c, err.Error())
	case errors.Is(err, ballot.ErrInvalidSelection):
		response.BadRequestError(c, err.Error())
	case errors.Is(err, ballot.ErrTransient):
		response.ServiceUnavailableError(c, "Temporary storage failure, retry the request")
	default:
		response.InternalServerError(c, "Unexpected error")
	}
}
