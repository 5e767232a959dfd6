package handlers

import (
	"net/http"

	"moviewatch/internal/models"

	"github.com/gin-gonic/gin"
)

// SignUpRequest is the sign-up payload.
type SignUpRequest struct {
	Username string `json:"username" example:"Alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
}

// SignInRequest is the sign-in payload.
type SignInRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
}

// SignInResponse carries the bearer token and the signed-in user.
type SignInResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UserResponse wraps a user record.
type UserResponse struct {
	User models.User `json:"user"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
// Field presence is checked by the service so the messages match across clients.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "request_id", requestID(c), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Create an account
// @Description  Does not log the user in; call sign-in next.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignUpRequest  true  "new account"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.SignUp(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		h.respondError(c, "auth_sign_up_failed", err, "email", input.Email)
		return
	}

	h.log.Infow("auth_signed_up", "request_id", requestID(c), "user_id", user.ID)
	c.JSON(http.StatusCreated, UserResponse{User: user})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignInRequest  true  "credentials"
// @Success      200   {object}  SignInResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse  "incorrect password"
// @Failure      404   {object}  errorResponse  "user not found"
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input SignInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, "auth_sign_in_failed", err, "email", input.Email)
		return
	}

	token, err := h.services.GenerateToken(user)
	if err != nil {
		h.respondError(c, "auth_token_failed", err, "user_id", user.ID)
		return
	}

	c.JSON(http.StatusOK, SignInResponse{Token: token, User: user})
}

// @Summary      Current user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/me [get]
func (h *Handler) me(c *gin.Context) {
	user, _ := currentUser(c)
	c.JSON(http.StatusOK, UserResponse{User: user})
}
