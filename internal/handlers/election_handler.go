package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bricesuazo/eboto-api/internal/domain/election"
	"github.com/bricesuazo/eboto-api/internal/middleware"
	"github.com/bricesuazo/eboto-api/internal/response"
	"github.com/bricesuazo/eboto-api/internal/services"
)

// ElectionHandler serves election lifecycle and ballot structure endpoints
type ElectionHandler struct {
	elections *services.ElectionService
}

// NewElectionHandler creates a new election handler
func NewElectionHandler(elections *services.ElectionService) *ElectionHandler {
	return &ElectionHandler{elections: elections}
}

// Create handles POST /api/elections
func (h *ElectionHandler) Create(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req services.CreateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	elec, err := h.elections.CreateElection(accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Election created", elec)
}

// GetBySlug handles GET /api/elections/:slug. Anonymous requests are allowed;
// the publicity policy decides what they see.
func (h *ElectionHandler) GetBySlug(c *gin.Context) {
	accountID, _ := middleware.AccountID(c)

	elec, err := h.elections.GetElectionForViewer(c.Param("slug"), accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"election": elec,
		"status":   elec.Status(timeNow()),
	})
}

// GetMine handles GET /api/elections and lists the elections the signed-in
// account manages
func (h *ElectionHandler) GetMine(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	elections, err := h.elections.GetElectionsByCommissioner(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", elections)
}

// Update handles PATCH /api/elections/:election_id
func (h *ElectionHandler) Update(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req services.UpdateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	elec, err := h.elections.UpdateElection(c.Param("election_id"), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Election updated", elec)
}

// Delete handles DELETE /api/elections/:election_id
func (h *ElectionHandler) Delete(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	if err := h.elections.DeleteElection(c.Param("election_id"), accountID); err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Election deleted", nil)
}

// CreatePosition handles POST /api/elections/:election_id/positions
func (h *ElectionHandler) CreatePosition(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req services.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	position, err := h.elections.CreatePosition(c.Param("election_id"), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Position created", position)
}

// CreatePartylist handles POST /api/elections/:election_id/partylists
func (h *ElectionHandler) CreatePartylist(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req services.CreatePartylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	partylist, err := h.elections.CreatePartylist(c.Param("election_id"), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Partylist created", partylist)
}

// CreateCandidate handles POST /api/elections/:election_id/candidates
func (h *ElectionHandler) CreateCandidate(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	var req services.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	candidate, err := h.elections.CreateCandidate(c.Param("election_id"), accountID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Candidate created", candidate)
}

// GetBallot handles GET /api/elections/:slug/ballot and returns the positions
// in ballot order with their candidates
func (h *ElectionHandler) GetBallot(c *gin.Context) {
	accountID, _ := middleware.AccountID(c)

	positions, candidatesByPosition, err := h.elections.GetBallotStructure(c.Param("slug"), accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type ballotPosition struct {
		Position   *election.Position    `json:"position"`
		Candidates []*election.Candidate `json:"candidates"`
	}

	ballot := make([]ballotPosition, 0, len(positions))
	for _, p := range positions {
		candidates := candidatesByPosition[p.ID.String()]
		if candidates == nil {
			candidates = []*election.Candidate{}
		}
		ballot = append(ballot, ballotPosition{Position: p, Candidates: candidates})
	}

	response.SuccessResponse(c, http.StatusOK, "", ballot)
}

// GetCandidate handles GET /api/elections/:slug/candidates/:candidate_slug
func (h *ElectionHandler) GetCandidate(c *gin.Context) {
	accountID, _ := middleware.AccountID(c)

	candidate, err := h.elections.GetCandidateForViewer(c.Param("slug"), c.Param("candidate_slug"), accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", candidate)
}
