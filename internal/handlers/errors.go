package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

// respondServiceError maps service-layer errors onto the response
// envelope. Unknown errors become a 500.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		duplicateErr  *services.DuplicateError
		parseErr      *services.ParseError
		stateErr      *services.InvalidStateError
	)

	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(c, validationErr.Message)
	case errors.As(err, &duplicateErr):
		response.Conflict(c, duplicateErr.Error())
	case errors.As(err, &parseErr):
		response.BadRequest(c, parseErr.Message)
	case errors.As(err, &stateErr):
		response.Conflict(c, stateErr.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c, "resource not found")
	default:
		response.Error(c, err)
	}
}
