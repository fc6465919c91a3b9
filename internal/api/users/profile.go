package users

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/models"
)

// profileOf renders a user as seen by the viewer
func (a *API) profileOf(c *gin.Context, user *models.User, viewerID int64) *views.Profile {
	owner := user.ID == viewerID
	following := false
	if !owner && viewerID != 0 {
		var err error
		following, err = a.repo.IsFollowing(c.Request.Context(), viewerID, user.ID)
		if err != nil {
			a.logger.Warn("failed to check follow edge", zap.Error(err))
		}
	}
	return views.NewProfile(user, owner, following)
}

// Me handles GET /api/users/me
func (a *API) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	user, err := a.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c)
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, a.profileOf(c, user, userID))
}

type updateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	IsPrivate   *bool   `json:"is_private"`
	DateOfBirth *string `json:"date_of_birth"` // YYYY-MM-DD
}

// UpdateMe handles PUT /api/users/me
func (a *API) UpdateMe(c *gin.Context) {
	userID := middleware.UserID(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid profile payload")
		return
	}
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

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Website != nil {
		user.Website = *req.Website
	}
	if req.IsPrivate != nil {
		user.IsPrivate = *req.IsPrivate
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = sql.NullTime{}
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				response.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
				return
			}
			user.DateOfBirth = sql.NullTime{Time: dob, Valid: true}
		}
	}

	if err := a.repo.UpdateUser(ctx, user); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, a.profileOf(c, user, userID))
}

// UploadAvatar handles POST /api/users/me/avatar
func (a *API) UploadAvatar(c *gin.Context) {
	a.uploadUserImage(c, "avatars", func(u *models.User, url string) { u.AvatarURL = url })
}

// UploadBanner handles POST /api/users/me/banner
func (a *API) UploadBanner(c *gin.Context) {
	a.uploadUserImage(c, "banners", func(u *models.User, url string) { u.BannerURL = url })
}

func (a *API) uploadUserImage(c *gin.Context, kind string, assign func(*models.User, string)) {
	userID := middleware.UserID(c)
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file upload")
		return
	}
	up, err := a.store.Save(kind, header)
	if err != nil {
		response.Internal(c)
		return
	}
	if up.MediaType != models.MediaTypeImage {
		response.BadRequest(c, "upload must be an image")
		return
	}
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
	assign(user, up.URL)
	if err := a.repo.UpdateUser(ctx, user); err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"url": up.URL})
}

// GetUser handles GET /api/users/:id
func (a *API) GetUser(c *gin.Context) {
	id, ok := response.IDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}
	user, err := a.repo.GetUserByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c)
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, a.profileOf(c, user, middleware.UserID(c)))
}

// Search handles GET /api/users/search?q=
func (a *API) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "missing search query")
		return
	}
	page, limit := response.Page(c)
	found, err := a.repo.SearchUsers(c.Request.Context(), middleware.UserID(c), query, page, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"users": views.NewUserSummaries(found), "page": page})
}

// Suggestions handles GET /api/users/suggestions
func (a *API) Suggestions(c *gin.Context) {
	_, limit := response.Page(c)
	found, err := a.repo.SuggestedUsers(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{"users": views.NewUserSummaries(found)})
}

// Statistics handles GET /api/users/me/statistics
func (a *API) Statistics(c *gin.Context) {
	stats, err := a.repo.GetUserStatistics(c.Request.Context(), middleware.UserID(c), time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	if stats == nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, stats)
}
