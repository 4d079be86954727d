// Package handlers contains the Gin HTTP handlers of the API.
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bricesuazo/eboto-api/internal/response"
	"github.com/bricesuazo/eboto-api/internal/services"
	"github.com/bricesuazo/eboto-api/internal/storage/postgres"
)

// timeNow is stubbed in tests that pin the voting window
var timeNow = time.Now

// respondServiceError maps the shared service error taxonomy to HTTP
// statuses. Handlers with a richer taxonomy (the ballot handler) do their
// own mapping first and fall back to this.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		response.ForbiddenError(c, err.Error())
	case errors.Is(err, services.ErrMustSignIn):
		response.UnauthorizedError(c, "Sign in to view this election")
	case errors.Is(err, services.ErrAccessDenied):
		response.ForbiddenError(c, err.Error())
	case errors.Is(err, postgres.ErrConflict):
		response.ConflictError(c, err.Error())
	default:
		response.BadRequestError(c, err.Error())
	}
}
