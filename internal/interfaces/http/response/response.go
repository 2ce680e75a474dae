package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "payportal.backend/internal/domain/errors"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a success envelope.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// SuccessWithMessage sends a success envelope with a human-readable message.
func SuccessWithMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error maps any error to the envelope. Sentinel domain errors get their
// canonical status; everything else becomes an opaque 500 with no detail
// leaked.
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)
	c.JSON(appErr.Status, Envelope{Success: false, Error: appErr.Message})
}

// AbortError behaves like Error and stops the handler chain.
func AbortError(c *gin.Context, err error) {
	appErr := toAppError(err)
	c.AbortWithStatusJSON(appErr.Status, Envelope{Success: false, Error: appErr.Message})
}

func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict(err.Error())
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.Unauthorized("invalid credentials")
	case errors.Is(err, domainerrors.ErrUnauthorized), errors.Is(err, domainerrors.ErrTokenExpired):
		return domainerrors.Unauthorized("unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("forbidden")
	case errors.Is(err, domainerrors.ErrRateLimited):
		return domainerrors.RateLimited("too many requests, try again later")
	default:
		return domainerrors.InternalError(err)
	}
}
