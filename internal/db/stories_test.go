package db

import (
	"context"
	"testing"
	"time"

	"github.com/yoursocial/yoursocial/internal/models"
)

func createTestStory(t *testing.T, repo *Repository, authorID int64, expiresAt time.Time) *models.Story {
	t.Helper()
	story := &models.Story{
		AuthorID:    authorID,
		ContentURL:  "/media/stories/x.jpg",
		ContentType: models.MediaTypeImage,
		ExpiresAt:   expiresAt,
	}
	if err := repo.CreateStory(context.Background(), story); err != nil {
		t.Fatalf("create story: %v", err)
	}
	return story
}

func TestCreateStoryStampsTTL(t *testing.T) {
	repo := newTestRepo(t)
	alice := createTestUser(t, repo, "alice")

	before := time.Now().UTC()
	story := createTestStory(t, repo, alice.ID, time.Time{})
	want := before.Add(models.StoryTTL)
	if story.ExpiresAt.Before(want.Add(-time.Minute)) || story.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expected expires_at near %v, got %v", want, story.ExpiresAt)
	}
}

func TestActiveStoriesLiveExpiry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	now := time.Now().UTC()

	active := createTestStory(t, repo, alice.ID, now.Add(time.Hour))
	createTestStory(t, repo, alice.ID, now.Add(-time.Hour))

	// Expiry is evaluated against the query instant, not against sweeps
	stories, err := repo.ActiveStories(ctx, []int64{alice.ID}, now)
	if err != nil {
		t.Fatalf("active stories: %v", err)
	}
	if len(stories) != 1 || stories[0].ID != active.ID {
		t.Fatalf("expected only the unexpired story, got %d", len(stories))
	}
}

func TestRecordStoryViewIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	story := createTestStory(t, repo, alice.ID, time.Now().UTC().Add(time.Hour))

	first := time.Now().UTC()
	status, err := repo.RecordStoryView(ctx, story.ID, bob.ID, first)
	if err != nil {
		t.Fatalf("record view: %v", err)
	}
	if status != ViewRecorded {
		t.Errorf("expected %q, got %q", ViewRecorded, status)
	}

	status, err = repo.RecordStoryView(ctx, story.ID, bob.ID, first.Add(time.Minute))
	if err != nil {
		t.Fatalf("repeat view: %v", err)
	}
	if status != ViewAlreadyViewed {
		t.Errorf("expected %q, got %q", ViewAlreadyViewed, status)
	}

	views, err := repo.StoryViews(ctx, story.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 {
		t.Fatalf("expected a single view row, got %d", len(views))
	}
	// The original timestamp survives the repeat view
	if views[0].ViewedAt.Sub(first) > time.Second {
		t.Errorf("expected original viewed_at to be kept, got %v", views[0].ViewedAt)
	}
}

func TestDeleteExpiredStories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	now := time.Now().UTC()

	expired := createTestStory(t, repo, alice.ID, now.Add(-time.Hour))
	active := createTestStory(t, repo, alice.ID, now.Add(time.Hour))
	if _, err := repo.RecordStoryView(ctx, expired.ID, bob.ID, now); err != nil {
		t.Fatal(err)
	}

	removed, err := repo.DeleteExpiredStories(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 story removed, got %d", removed)
	}

	gone, _ := repo.GetStoryByID(ctx, expired.ID)
	if gone != nil {
		t.Error("expected expired story to be deleted")
	}
	kept, _ := repo.GetStoryByID(ctx, active.ID)
	if kept == nil {
		t.Error("expected active story to survive the sweep")
	}
	views, _ := repo.StoryViews(ctx, expired.ID)
	if len(views) != 0 {
		t.Errorf("expected view rows to be swept, got %d", len(views))
	}

	// Sweeping with nothing expired is a no-op
	removed, err = repo.DeleteExpiredStories(ctx, now)
	if err != nil {
		t.Fatalf("empty sweep: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected no-op sweep, removed %d", removed)
	}
}

func TestGetStoryStatistics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	now := time.Now().UTC()

	active := createTestStory(t, repo, alice.ID, now.Add(time.Hour))
	createTestStory(t, repo, alice.ID, now.Add(-time.Hour))
	if _, err := repo.RecordStoryView(ctx, active.ID, bob.ID, now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	stats, err := repo.GetStoryStatistics(ctx, alice.ID, now)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.ActiveStories != 1 || stats.ExpiredStories != 1 {
		t.Errorf("expected 1 active / 1 expired, got %d / %d", stats.ActiveStories, stats.ExpiredStories)
	}
	if stats.TotalViews != 1 || stats.ViewsLast24h != 1 {
		t.Errorf("expected 1 view in both windows, got %d / %d", stats.TotalViews, stats.ViewsLast24h)
	}
}
