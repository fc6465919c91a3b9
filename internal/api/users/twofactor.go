package users

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/auth"
	"github.com/yoursocial/yoursocial/internal/models"
)

// ActivateTwoFactor handles POST /api/users/me/2fa/activate. A fresh
// secret is generated on every call until the factor is verified; an
// already-active factor cannot be re-provisioned.
func (a *API) ActivateTwoFactor(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		response.Internal(c)
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}

	tf, err := a.repo.GetTwoFactor(ctx, userID)
	if err != nil {
		response.Internal(c)
		return
	}
	if tf != nil && tf.IsActive {
		response.Conflict(c, "two-factor authentication is already active")
		return
	}

	prov, err := auth.ProvisionTOTP(a.cfg.TOTPIssuer, user.Email)
	if err != nil {
		response.Internal(c)
		return
	}
	if tf == nil {
		tf = &models.TwoFactor{UserID: userID}
	}
	tf.Secret = prov.Secret
	tf.IsActive = false
	if err := a.repo.SaveTwoFactor(ctx, tf); err != nil {
		response.Internal(c)
		return
	}
	a.logger.Info("two-factor provisioned", zap.Int64("user_id", userID))
	response.OK(c, prov)
}

type totpRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyTwoFactor handles POST /api/users/me/2fa/verify, flipping a
// provisioned factor to active exactly once
func (a *API) VerifyTwoFactor(c *gin.Context) {
	var req totpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing verification code")
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	tf, err := a.repo.GetTwoFactor(ctx, userID)
	if err != nil {
		response.Internal(c)
		return
	}
	if tf == nil || tf.Secret == "" {
		response.BadRequest(c, "two-factor authentication has not been set up")
		return
	}
	if tf.IsActive {
		response.OK(c, gin.H{"active": true})
		return
	}
	if !auth.VerifyTOTP(tf.Secret, req.Code) {
		response.Unauthorized(c, "invalid 2FA code")
		return
	}
	tf.IsActive = true
	if err := a.repo.SaveTwoFactor(ctx, tf); err != nil {
		response.Internal(c)
		return
	}
	a.logger.Info("two-factor activated", zap.Int64("user_id", userID))
	response.OK(c, gin.H{"active": true})
}

// DeactivateTwoFactor handles POST /api/users/me/2fa/deactivate. A valid
// current code is required; the secret is cleared so a later activation
// starts from scratch.
func (a *API) DeactivateTwoFactor(c *gin.Context) {
	var req totpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing verification code")
		return
	}
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	tf, err := a.repo.GetTwoFactor(ctx, userID)
	if err != nil {
		response.Internal(c)
		return
	}
	if tf == nil || !tf.IsActive {
		response.BadRequest(c, "two-factor authentication is not active")
		return
	}
	if !auth.VerifyTOTP(tf.Secret, req.Code) {
		response.Unauthorized(c, "invalid 2FA code")
		return
	}
	if err := a.repo.DeleteTwoFactor(ctx, userID); err != nil {
		response.Internal(c)
		return
	}
	a.logger.Info("two-factor deactivated", zap.Int64("user_id", userID))
	response.OK(c, gin.H{"active": false})
}
