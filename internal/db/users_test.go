package db

import (
	"context"
	"testing"
	"time"

	"github.com/yoursocial/yoursocial/internal/models"
)

func TestGetOrCreateUserSettingsDefaults(t *testing.T) {
	repo := newTestRepo(t)
	alice := createTestUser(t, repo, "alice")

	settings, err := repo.GetOrCreateUserSettings(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if !settings.EmailNotifications || !settings.PushNotifications {
		t.Error("expected notification defaults enabled")
	}
	if settings.Language != "en" || settings.Theme != "light" {
		t.Errorf("unexpected defaults: %q / %q", settings.Language, settings.Theme)
	}

	again, err := repo.GetOrCreateUserSettings(context.Background(), alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != settings.ID {
		t.Errorf("expected settings row %d reused, got %d", settings.ID, again.ID)
	}
}

func TestTwoFactorLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")

	tf, err := repo.GetTwoFactor(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if tf != nil {
		t.Fatal("expected no two-factor row initially")
	}

	tf = &models.TwoFactor{UserID: alice.ID, Secret: "SECRET", IsActive: false}
	if err := repo.SaveTwoFactor(ctx, tf); err != nil {
		t.Fatalf("save: %v", err)
	}
	tf.IsActive = true
	if err := repo.SaveTwoFactor(ctx, tf); err != nil {
		t.Fatalf("activate: %v", err)
	}

	got, _ := repo.GetTwoFactor(ctx, alice.ID)
	if got == nil || !got.IsActive || got.Secret != "SECRET" {
		t.Fatalf("unexpected two-factor state: %+v", got)
	}

	if err := repo.DeleteTwoFactor(ctx, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = repo.GetTwoFactor(ctx, alice.ID)
	if got != nil {
		t.Error("expected two-factor row removed")
	}
}

func TestSearchUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	createTestUser(t, repo, "alicia")
	createTestUser(t, repo, "bob")

	found, err := repo.SearchUsers(ctx, alice.ID, "ali", 1, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// The searcher is excluded from results
	if len(found) != 1 || found[0].Username != "alicia" {
		t.Fatalf("expected only alicia, got %d entries", len(found))
	}
}

func TestGetUserStatistics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")

	post := createTestPost(t, repo, alice.ID, "hello")
	if _, err := repo.ToggleFollow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.TogglePostLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatal(err)
	}
	comment := &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "nice"}
	if err := repo.CreateComment(ctx, comment); err != nil {
		t.Fatal(err)
	}
	story := &models.Story{AuthorID: alice.ID, ContentURL: "/media/s.jpg", ContentType: "image"}
	if err := repo.CreateStory(ctx, story); err != nil {
		t.Fatal(err)
	}

	stats, err := repo.GetUserStatistics(ctx, alice.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.PostsCount != 1 || stats.FollowersCount != 1 || stats.FollowingCount != 0 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.LikesReceived != 1 {
		t.Errorf("expected 1 like received, got %d", stats.LikesReceived)
	}
	if stats.CommentsReceived != 1 {
		t.Errorf("expected 1 comment received, got %d", stats.CommentsReceived)
	}
	if stats.PostsLast24h != 1 {
		t.Errorf("expected 1 post in 24h window, got %d", stats.PostsLast24h)
	}
	if stats.StoriesPosted != 1 || stats.StoriesLast24h != 1 {
		t.Errorf("expected 1 story posted and in 24h window, got %d/%d",
			stats.StoriesPosted, stats.StoriesLast24h)
	}

	missing, err := repo.GetUserStatistics(ctx, 9999, time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("expected nil statistics for missing user")
	}
}
