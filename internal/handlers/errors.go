package handlers

import (
	"context"
	"errors"
	"net/http"

	"moviewatch/internal/models"
	"moviewatch/internal/service"

	"github.com/gin-gonic/gin"
)

const msgGeneric = "Something went wrong. Please try again."

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error" example:"User not found"`
}

var publicMessages = []struct {
	err error
	msg string
}{
	{service.ErrNameRequired, "Name is required"},
	{service.ErrEmailRequired, "Email is required"},
	{service.ErrPasswordRequired, "Password is required"},
	{service.ErrInvalidEmail, "Please enter a valid email address"},
	{service.ErrEmailTaken, "Email already registered"},
	{service.ErrUserNotFound, "User not found"},
	{service.ErrInvalidPassword, "Incorrect password"},
	{service.ErrInvalidToken, "invalid or expired token"},
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	for _, pm := range publicMessages {
		if errors.Is(err, pm.err) {
			return pm.msg
		}
	}
	switch {
	case errors.Is(err, service.ErrWatchlistUpdate) && errors.Is(err, models.ErrConflict):
		return "Saved movies changed elsewhere. Reload and try again."
	case errors.Is(err, service.ErrWatchlistUpdate):
		return "Could not update saved movies. Try again."
	case errors.Is(err, service.ErrLookupFailed) && errors.Is(err, models.ErrNotFound):
		return "Movie not found"
	case errors.Is(err, service.ErrLookupFailed):
		return "Could not load movies. Try again."
	default:
		return msgGeneric
	}
}

// respondError logs err under logKey and writes the mapped status and message.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	fields := append([]interface{}{"request_id", requestID(c), "status", code, "err", err}, kv...)
	if code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
	} else {
		h.log.Infow(logKey, fields...)
	}
	c.AbortWithStatusJSON(code, errorResponse{Error: messageFor(err)})
}
