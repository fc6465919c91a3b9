// Package users implements account, profile, follow-graph and
// authentication endpoints.
package users

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/auth"
	"github.com/yoursocial/yoursocial/internal/cache"
	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/media"
	"github.com/yoursocial/yoursocial/internal/models"
	"github.com/yoursocial/yoursocial/pkg/config"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// API provides user and authentication endpoints
type API struct {
	repo    *db.Repository
	tokens  *auth.TokenManager
	limiter *cache.LoginLimiter
	store   *media.Store
	cfg     *config.AuthConfig
	logger  *zap.Logger
}

// NewAPI creates the users API
func NewAPI(repo *db.Repository, tokens *auth.TokenManager, limiter *cache.LoginLimiter, store *media.Store, cfg *config.AuthConfig) *API {
	return &API{
		repo:    repo,
		tokens:  tokens,
		limiter: limiter,
		store:   store,
		cfg:     cfg,
		logger:  logging.GetLogger().With(zap.String("component", "users-api")),
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register handles POST /api/users/register
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid registration payload")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := a.repo.GetUserByEmail(ctx, email); err != nil {
		response.Internal(c)
		return
	} else if existing != nil {
		response.Conflict(c, "email already registered")
		return
	}
	if existing, err := a.repo.GetUserByUsername(ctx, req.Username); err != nil {
		response.Internal(c)
		return
	} else if existing != nil {
		response.Conflict(c, "username already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password, a.cfg.BcryptCost)
	if err != nil {
		response.Internal(c)
		return
	}
	user := &models.User{
		Email:        email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
	}
	if err := a.repo.CreateUser(ctx, user); err != nil {
		response.Internal(c)
		return
	}
	if _, err := a.repo.GetOrCreateUserSettings(ctx, user.ID); err != nil {
		a.logger.Warn("failed to create default settings", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	pair, err := a.tokens.IssuePair(user.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	a.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	response.Created(c, gin.H{"user": a.profileOf(c, user, user.ID), "tokens": pair})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code"`
}

// Login handles POST /api/users/login. Attempts are throttled per client
// address; accounts with an active second factor also require a valid
// TOTP code.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid login payload")
		return
	}
	addr := c.ClientIP()
	allowed, err := a.limiter.Allow(addr)
	if err != nil {
		a.logger.Warn("login limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		response.TooManyRequests(c, "too many login attempts, try again later")
		return
	}

	ctx := c.Request.Context()
	user, err := a.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		response.Internal(c)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	tf, err := a.repo.GetTwoFactor(ctx, user.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	if tf != nil && tf.IsActive {
		if req.TOTPCode == "" {
			response.Unauthorized(c, "2FA code required")
			return
		}
		if !auth.VerifyTOTP(tf.Secret, req.TOTPCode) {
			response.Unauthorized(c, "invalid 2FA code")
			return
		}
	}

	if err := a.limiter.Reset(addr); err != nil {
		a.logger.Warn("failed to reset login counter", zap.Error(err))
	}
	if err := a.repo.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		a.logger.Warn("failed to stamp last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	pair, err := a.tokens.IssuePair(user.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	a.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	response.OK(c, gin.H{"user": a.profileOf(c, user, user.ID), "tokens": pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/users/refresh, exchanging a refresh token for
// a fresh pair
func (a *API) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid refresh payload")
		return
	}
	claims, err := a.tokens.Parse(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		response.Unauthorized(c, "invalid or expired refresh token")
		return
	}
	user, err := a.repo.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Internal(c)
		return
	}
	if user == nil {
		response.Unauthorized(c, "account no longer exists")
		return
	}
	pair, err := a.tokens.IssuePair(user.ID)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"tokens": pair})
}
