package db

import (
	"context"
	"testing"
	"time"

	"github.com/yoursocial/yoursocial/internal/models"
)

func setupConversation(t *testing.T, repo *Repository) (*models.User, *models.User, *models.Conversation) {
	t.Helper()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	conv, created, err := repo.GetOrCreateConversation(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if !created {
		t.Fatal("expected a fresh conversation")
	}
	return alice, bob, conv
}

func sendTestMessage(t *testing.T, repo *Repository, convID, senderID int64, content string) *models.Message {
	t.Helper()
	msg := &models.Message{ConversationID: convID, SenderID: senderID, Content: content}
	if err := repo.CreateMessage(context.Background(), msg); err != nil {
		t.Fatalf("send message: %v", err)
	}
	return msg
}

func TestGetOrCreateConversationReuses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, bob, conv := setupConversation(t, repo)

	again, created, err := repo.GetOrCreateConversation(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if created {
		t.Error("expected the existing conversation to be reused")
	}
	if again.ID != conv.ID {
		t.Errorf("expected conversation %d, got %d", conv.ID, again.ID)
	}
}

func TestCreateMessageAdvancesLastMessage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, _, conv := setupConversation(t, repo)

	first := sendTestMessage(t, repo, conv.ID, alice.ID, "hi")
	second := sendTestMessage(t, repo, conv.ID, alice.ID, "there")

	conv2, err := repo.GetConversationForParticipant(ctx, conv.ID, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	var got models.Conversation
	if err := repo.db.First(&got, conv2.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !got.LastMessageID.Valid || got.LastMessageID.Int64 != second.ID {
		t.Errorf("expected last_message_id %d, got %+v", second.ID, got.LastMessageID)
	}
	_ = first
}

func TestConversationMessagesMarksRead(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, bob, conv := setupConversation(t, repo)
	sendTestMessage(t, repo, conv.ID, alice.ID, "one")
	sendTestMessage(t, repo, conv.ID, alice.ID, "two")

	unread, err := repo.UnreadMessageCount(ctx, conv.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 2 {
		t.Fatalf("expected 2 unread, got %d", unread)
	}

	readAt := time.Now().UTC()
	msgs, err := repo.ConversationMessages(ctx, conv.ID, bob.ID, 1, 50, readAt)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	for _, m := range msgs {
		if !m.IsRead || !m.ReadAt.Valid {
			t.Errorf("expected message %d to be marked read", m.ID)
		}
	}

	unread, _ = repo.UnreadMessageCount(ctx, conv.ID, bob.ID)
	if unread != 0 {
		t.Errorf("expected 0 unread after listing, got %d", unread)
	}

	// A later listing keeps the original read_at
	later, err := repo.ConversationMessages(ctx, conv.ID, bob.ID, 1, 50, readAt.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range later {
		if m.ReadAt.Time.Sub(readAt) > time.Second {
			t.Errorf("expected read_at to be preserved, got %v", m.ReadAt.Time)
		}
	}

	// The sender's own messages never count as unread for the sender
	unread, _ = repo.UnreadMessageCount(ctx, conv.ID, alice.ID)
	if unread != 0 {
		t.Errorf("expected sender unread 0, got %d", unread)
	}
}

func TestDeleteMessageRepointsLastMessage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, _, conv := setupConversation(t, repo)
	first := sendTestMessage(t, repo, conv.ID, alice.ID, "one")
	second := sendTestMessage(t, repo, conv.ID, alice.ID, "two")

	if err := repo.DeleteMessage(ctx, second); err != nil {
		t.Fatalf("delete message: %v", err)
	}
	var got models.Conversation
	if err := repo.db.First(&got, conv.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !got.LastMessageID.Valid || got.LastMessageID.Int64 != first.ID {
		t.Errorf("expected last_message_id to fall back to %d, got %+v", first.ID, got.LastMessageID)
	}

	if err := repo.DeleteMessage(ctx, first); err != nil {
		t.Fatalf("delete last message: %v", err)
	}
	if err := repo.db.First(&got, conv.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.LastMessageID.Valid {
		t.Errorf("expected NULL last_message_id for empty conversation, got %d", got.LastMessageID.Int64)
	}
}

func TestToggleMessageReaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, bob, conv := setupConversation(t, repo)
	msg := sendTestMessage(t, repo, conv.ID, alice.ID, "hello")

	action, err := repo.ToggleMessageReaction(ctx, msg.ID, bob.ID, "👍")
	if err != nil {
		t.Fatalf("toggle reaction: %v", err)
	}
	if action != ActionAdded {
		t.Errorf("expected %q, got %q", ActionAdded, action)
	}

	// Same emoji toggles off; a different emoji is independent
	action, err = repo.ToggleMessageReaction(ctx, msg.ID, bob.ID, "👍")
	if err != nil {
		t.Fatal(err)
	}
	if action != ActionRemoved {
		t.Errorf("expected %q, got %q", ActionRemoved, action)
	}
	action, err = repo.ToggleMessageReaction(ctx, msg.ID, bob.ID, "❤️")
	if err != nil {
		t.Fatal(err)
	}
	if action != ActionAdded {
		t.Errorf("expected %q, got %q", ActionAdded, action)
	}

	reactions, err := repo.MessageReactions(ctx, msg.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(reactions) != 1 || reactions[0].Emoji != "❤️" {
		t.Fatalf("expected a single ❤️ reaction, got %d", len(reactions))
	}
}

func TestDeleteConversationCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, bob, conv := setupConversation(t, repo)
	msg := sendTestMessage(t, repo, conv.ID, alice.ID, "hello")
	if _, err := repo.ToggleMessageReaction(ctx, msg.ID, bob.ID, "👍"); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteConversation(ctx, conv.ID); err != nil {
		t.Fatalf("delete conversation: %v", err)
	}

	gone, _ := repo.GetConversationForParticipant(ctx, conv.ID, alice.ID)
	if gone != nil {
		t.Error("expected conversation to be deleted")
	}
	msgGone, _ := repo.GetMessageByID(ctx, msg.ID)
	if msgGone != nil {
		t.Error("expected messages to be deleted")
	}
	reactions, _ := repo.MessageReactions(ctx, msg.ID)
	if len(reactions) != 0 {
		t.Error("expected reactions to be deleted")
	}
}

func TestGetConversationForParticipantHidesFromOthers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, _, conv := setupConversation(t, repo)
	carol := createTestUser(t, repo, "carol")

	got, err := repo.GetConversationForParticipant(ctx, conv.ID, carol.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("expected non-participant to see nothing")
	}
}

func TestSetConversationMuted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice, bob, conv := setupConversation(t, repo)

	if err := repo.SetConversationMuted(ctx, conv.ID, bob.ID, true); err != nil {
		t.Fatalf("mute: %v", err)
	}
	muted, err := repo.IsConversationMuted(ctx, conv.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !muted {
		t.Error("expected bob's side to be muted")
	}
	muted, _ = repo.IsConversationMuted(ctx, conv.ID, alice.ID)
	if muted {
		t.Error("expected alice's side to stay unmuted")
	}
}
