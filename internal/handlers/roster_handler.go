package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bricesuazo/eboto-api/internal/middleware"
	"github.com/bricesuazo/eboto-api/internal/response"
	"github.com/bricesuazo/eboto-api/internal/services"
)

// RosterHandler serves voter roster and invitation endpoints
type RosterHandler struct {
	roster *services.RosterService
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(roster *services.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

type addVoterRequest struct {
	AccountID string `json:"account_id" binding:"required"`
}

// AddVoter handles POST /api/elections/:election_id/voters
func (h *RosterHandler) AddVoter(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req addVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	v, err := h.roster.AddVoter(c.Param("election_id"), accountID, req.AccountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Voter added", v)
}

// Invite handles POST /api/elections/:election_id/invites
func (h *RosterHandler) Invite(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req services.InviteVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	invite, err := h.roster.InviteVoter(c.Param("election_id"), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Voter invited", invite)
}

// MarkInviteSent handles POST /api/elections/:election_id/invites/:invite_id/send
func (h *RosterHandler) MarkInviteSent(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	invite, err := h.roster.MarkInviteSent(c.Param("election_id"), accountID, c.Param("invite_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Invite sent", invite)
}

type inviteResponseRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// RespondToInvite handles POST /api/elections/:election_id/invites/:invite_id/respond
func (h *RosterHandler) RespondToInvite(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req inviteResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	invite, err := h.roster.RespondToInvite(c.Param("election_id"), c.Param("invite_id"), accountID, *req.Accept)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Invite response recorded", invite)
}

// GetRoster handles GET /api/elections/:election_id/voters
func (h *RosterHandler) GetRoster(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	voters, invites, err := h.roster.GetRoster(c.Param("election_id"), accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"voters":  voters,
		"invites": invites,
	})
}

// RemoveVoter handles DELETE /api/elections/:election_id/voters/:voter_id
func (h *RosterHandler) RemoveVoter(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	if err := h.roster.RemoveVoter(c.Param("election_id"), accountID, c.Param("voter_id")); err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voter removed", nil)
}
