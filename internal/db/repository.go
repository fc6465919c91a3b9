package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a database transaction
func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Toggle action constants returned by follow/like/reaction mutations
const (
	ActionFollowed   = "followed"
	ActionUnfollowed = "unfollowed"
	ActionLiked      = "liked"
	ActionUnliked    = "unliked"
	ActionAdded      = "added"
	ActionRemoved    = "removed"
)

// Sentinel errors for domain rule violations
var (
	// ErrSelfFollow is returned when a user attempts to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrParentMismatch is returned when a reply references a parent comment
	// on a different post
	ErrParentMismatch = errors.New("parent comment belongs to a different post")
)

// Pagination defaults; limit is clamped to [1, maxPageLimit]
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageRange converts 1-based page/limit parameters to an offset and a
// clamped limit
func pageRange(page, limit int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page <= 0 {
		page = 1
	}
	return (page - 1) * limit, limit
}

// isDuplicate reports whether err is a unique constraint violation
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
