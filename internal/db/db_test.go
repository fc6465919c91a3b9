package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yoursocial/yoursocial/internal/models"
)

// newTestRepo opens an isolated in-memory database with the full schema
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(gdb)
}

// createTestUser inserts a user with defaults suitable for tests
func createTestUser(t *testing.T, repo *Repository, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestPost(t *testing.T, repo *Repository, authorID int64, content string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Content: content}
	if err := repo.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func TestGetUserByIDMissing(t *testing.T) {
	repo := newTestRepo(t)
	user, err := repo.GetUserByID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for missing user, got %+v", user)
	}
}

func TestPageRange(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantOffset int
		wantLimit  int
	}{
		{"defaults", 0, 0, 0, 20},
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 10, 20, 10},
		{"clamped limit", 1, 500, 0, 100},
		{"negative page", -2, 10, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := pageRange(tt.page, tt.limit)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("pageRange(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.limit, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}
