package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/yoursocial/yoursocial/internal/models"
)

func notify(t *testing.T, repo *Repository, recipientID, senderID int64, notifType string) bool {
	t.Helper()
	stored, err := repo.CreateNotification(context.Background(), &models.Notification{
		RecipientID: recipientID,
		SenderID:    sql.NullInt64{Int64: senderID, Valid: true},
		Type:        notifType,
		Content:     "test",
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}
	return stored
}

func TestCreateNotificationSkipsSelf(t *testing.T) {
	repo := newTestRepo(t)
	alice := createTestUser(t, repo, "alice")

	if notify(t, repo, alice.ID, alice.ID, models.NotifyTypeLike) {
		t.Error("expected self-notification to be dropped")
	}
}

func TestCreateNotificationHonorsPreferences(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")

	prefs, err := repo.GetOrCreateNotificationPreferences(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	prefs.LikeNotifications = false
	if err := repo.UpdateNotificationPreferences(ctx, prefs); err != nil {
		t.Fatal(err)
	}

	if notify(t, repo, alice.ID, bob.ID, models.NotifyTypeLike) {
		t.Error("expected like notification to be suppressed")
	}
	if !notify(t, repo, alice.ID, bob.ID, models.NotifyTypeFollow) {
		t.Error("expected follow notification to be stored")
	}
}

func TestPreferencesLazyDefaults(t *testing.T) {
	repo := newTestRepo(t)
	alice := createTestUser(t, repo, "alice")

	prefs, err := repo.GetOrCreateNotificationPreferences(context.Background(), alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !prefs.EmailNotifications || !prefs.InAppNotifications || !prefs.LikeNotifications {
		t.Error("expected all preferences enabled by default")
	}

	// A second access returns the same row
	again, err := repo.GetOrCreateNotificationPreferences(context.Background(), alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != prefs.ID {
		t.Errorf("expected preference row %d to be reused, got %d", prefs.ID, again.ID)
	}
}

func TestMarkNotificationReadIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	notify(t, repo, alice.ID, bob.ID, models.NotifyTypeFollow)

	notifs, err := repo.Notifications(ctx, alice.ID, true, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(notifs) != 1 {
		t.Fatalf("expected 1 unread notification, got %d", len(notifs))
	}

	first := time.Now().UTC()
	status, err := repo.MarkNotificationRead(ctx, notifs[0].ID, alice.ID, first)
	if err != nil {
		t.Fatal(err)
	}
	if status != MarkedRead {
		t.Errorf("expected %q, got %q", MarkedRead, status)
	}

	status, err = repo.MarkNotificationRead(ctx, notifs[0].ID, alice.ID, first.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if status != AlreadyRead {
		t.Errorf("expected %q, got %q", AlreadyRead, status)
	}

	// Original read_at survives
	read, _ := repo.Notifications(ctx, alice.ID, false, 1, 10)
	if len(read) != 1 || !read[0].ReadAt.Valid {
		t.Fatal("expected read notification with read_at")
	}
	if read[0].ReadAt.Time.Sub(first) > time.Second {
		t.Errorf("expected original read_at, got %v", read[0].ReadAt.Time)
	}

	// Another user's notification reads as missing
	status, err = repo.MarkNotificationRead(ctx, notifs[0].ID, bob.ID, first)
	if err != nil {
		t.Fatal(err)
	}
	if status != "" {
		t.Errorf("expected empty status for foreign notification, got %q", status)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	notify(t, repo, alice.ID, bob.ID, models.NotifyTypeFollow)
	notify(t, repo, alice.ID, bob.ID, models.NotifyTypeMention)

	marked, err := repo.MarkAllNotificationsRead(ctx, alice.ID, time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if marked != 2 {
		t.Errorf("expected 2 marked, got %d", marked)
	}
	count, _ := repo.UnreadNotificationCount(ctx, alice.ID)
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}

	marked, _ = repo.MarkAllNotificationsRead(ctx, alice.ID, time.Now().UTC())
	if marked != 0 {
		t.Errorf("expected repeat mark-all to be a no-op, marked %d", marked)
	}
}

func TestUnreadNotificationsSince(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	notify(t, repo, alice.ID, bob.ID, models.NotifyTypeFollow)
	notify(t, repo, bob.ID, alice.ID, models.NotifyTypeFollow)

	notifs, err := repo.UnreadNotificationsSince(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(notifs) != 2 {
		t.Fatalf("expected 2 unread across recipients, got %d", len(notifs))
	}
	for _, n := range notifs {
		if n.Recipient == nil {
			t.Error("expected recipient preloaded for digest")
		}
	}

	// Old cutoff excludes everything
	notifs, err = repo.UnreadNotificationsSince(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(notifs) != 0 {
		t.Errorf("expected no notifications after future cutoff, got %d", len(notifs))
	}
}
