package handlers

import (
	"errors"
	"net/http"
	"strings"

	"moviewatch/internal/models"
	"moviewatch/internal/service"

	"github.com/gin-gonic/gin"
)

const userCtx = "user"

// userMiddleware authenticates the bearer token and loads the current user
// record. A token for a user that no longer exists is rejected.
func (h *Handler) userMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing Authorization header"})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid Authorization header format"})
		return
	}

	sess, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
		return
	}

	user, err := h.services.Resolve(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.log.Infow("auth_session_user_gone", "request_id", requestID(c), "user_id", sess.UserID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "session is no longer valid"})
			return
		}
		h.respondError(c, "auth_resolve_failed", err, "user_id", sess.UserID)
		return
	}

	c.Set(userCtx, user)
	c.Next()
}

// currentUser returns the user stored by userMiddleware.
func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userCtx)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
