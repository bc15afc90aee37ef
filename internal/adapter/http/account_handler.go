package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accountdomain "github.com/rentease/listing-service/internal/account/domain"
	"github.com/rentease/listing-service/internal/adapter/messaging/nats"
)

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
	Confirm  string `json:"confirm" binding:"required"`
}

// ForgotPassword handles POST /password/forgot. The response is the same
// whether or not an account exists for the email, so the endpoint cannot be
// used to probe which addresses are registered.
func (h *Handler) ForgotPassword(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.ForgotPassword")
	defer span.End()

	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	if err := h.recovery.Issue(ctx, req.Email); err != nil && !errors.Is(err, accountdomain.ErrAccountNotFound) {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "if an account exists for that email, recovery instructions have been sent"})
}

// ValidateResetToken handles GET /password/reset/:token so a reset form can
// be refused up front instead of failing on submit.
func (h *Handler) ValidateResetToken(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.ValidateResetToken")
	defer span.End()

	account, err := h.recovery.Validate(ctx, c.Param("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "username": account.Username})
}

// ResetPassword handles POST /password/reset/:token, redeeming the token.
func (h *Handler) ResetPassword(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.ResetPassword")
	defer span.End()

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password and confirm are required"})
		return
	}
	if req.Password != req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	account, err := h.recovery.Consume(ctx, c.Param("token"), req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publish(ctx, nats.SubjectPasswordChanged, nats.AccountEvent{AccountID: account.ID})
	c.JSON(http.StatusOK, gin.H{"message": "password has been changed"})
}
