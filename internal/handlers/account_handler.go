package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bricesuazo/eboto-api/internal/auth"
	"github.com/bricesuazo/eboto-api/internal/middleware"
	"github.com/bricesuazo/eboto-api/internal/response"
	"github.com/bricesuazo/eboto-api/internal/services"
)

// AccountHandler serves registration and sign in
type AccountHandler struct {
	accounts *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles POST /api/auth/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	account, err := h.accounts.Register(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Account registered", account)
}

// Login handles POST /api/auth/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	account, token, err := h.accounts.Login(req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.UnauthorizedError(c, "Invalid email or password")
			return
		}
		response.InternalServerError(c, "Failed to sign in")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Signed in", gin.H{
		"token":   token,
		"account": account,
	})
}

// Me handles GET /api/auth/me
func (h *AccountHandler) Me(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.UnauthorizedError(c, "Authentication required")
		return
	}

	account, err := h.accounts.GetAccount(accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", account)
}
