package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/yoursocial/yoursocial/internal/models"
)

func TestCreateCommentBumpsCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	post := createTestPost(t, repo, alice.ID, "hello")

	comment := &models.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "first"}
	if err := repo.CreateComment(ctx, comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	reply := &models.Comment{
		PostID:   post.ID,
		AuthorID: alice.ID,
		Content:  "reply",
		ParentID: sql.NullInt64{Int64: comment.ID, Valid: true},
	}
	if err := repo.CreateComment(ctx, reply); err != nil {
		t.Fatalf("create reply: %v", err)
	}

	post, _ = repo.GetPostByID(ctx, post.ID)
	if post.CommentsCount != 2 {
		t.Errorf("expected comments_count 2 (replies included), got %d", post.CommentsCount)
	}
}

func TestCreateCommentParentOnOtherPost(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	postA := createTestPost(t, repo, alice.ID, "a")
	postB := createTestPost(t, repo, alice.ID, "b")

	parent := &models.Comment{PostID: postA.ID, AuthorID: alice.ID, Content: "on A"}
	if err := repo.CreateComment(ctx, parent); err != nil {
		t.Fatal(err)
	}

	cross := &models.Comment{
		PostID:   postB.ID,
		AuthorID: alice.ID,
		Content:  "wrong post",
		ParentID: sql.NullInt64{Int64: parent.ID, Valid: true},
	}
	if err := repo.CreateComment(ctx, cross); !errors.Is(err, ErrParentMismatch) {
		t.Fatalf("expected ErrParentMismatch, got %v", err)
	}

	// Missing parent is rejected the same way
	orphan := &models.Comment{
		PostID:   postB.ID,
		AuthorID: alice.ID,
		Content:  "no parent",
		ParentID: sql.NullInt64{Int64: 9999, Valid: true},
	}
	if err := repo.CreateComment(ctx, orphan); !errors.Is(err, ErrParentMismatch) {
		t.Fatalf("expected ErrParentMismatch for missing parent, got %v", err)
	}
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	post := createTestPost(t, repo, alice.ID, "hello")

	parent := &models.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "parent"}
	if err := repo.CreateComment(ctx, parent); err != nil {
		t.Fatal(err)
	}
	reply := &models.Comment{
		PostID:   post.ID,
		AuthorID: alice.ID,
		Content:  "reply",
		ParentID: sql.NullInt64{Int64: parent.ID, Valid: true},
	}
	if err := repo.CreateComment(ctx, reply); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ToggleCommentLike(ctx, alice.ID, reply.ID); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteComment(ctx, parent); err != nil {
		t.Fatalf("delete comment: %v", err)
	}

	gone, _ := repo.GetCommentByID(ctx, reply.ID)
	if gone != nil {
		t.Error("expected reply to be deleted with its parent")
	}
	post, _ = repo.GetPostByID(ctx, post.ID)
	if post.CommentsCount != 0 {
		t.Errorf("expected comments_count 0, got %d", post.CommentsCount)
	}
}

func TestUpdateComment(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	post := createTestPost(t, repo, alice.ID, "hello")

	comment := &models.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "draft"}
	if err := repo.CreateComment(ctx, comment); err != nil {
		t.Fatal(err)
	}

	comment.Content = "edited"
	if err := repo.UpdateComment(ctx, comment); err != nil {
		t.Fatalf("update comment: %v", err)
	}

	got, err := repo.GetCommentByID(ctx, comment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "edited" {
		t.Errorf("expected edited content, got %q", got.Content)
	}
}

func TestTopLevelComments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	post := createTestPost(t, repo, alice.ID, "hello")

	first := &models.Comment{PostID: post.ID, AuthorID: alice.ID, Content: "first"}
	if err := repo.CreateComment(ctx, first); err != nil {
		t.Fatal(err)
	}
	reply := &models.Comment{
		PostID:   post.ID,
		AuthorID: alice.ID,
		Content:  "reply",
		ParentID: sql.NullInt64{Int64: first.ID, Valid: true},
	}
	if err := repo.CreateComment(ctx, reply); err != nil {
		t.Fatal(err)
	}

	comments, err := repo.TopLevelComments(ctx, post.ID, 1, 10)
	if err != nil {
		t.Fatalf("top level comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 top-level comment, got %d", len(comments))
	}
	if len(comments[0].Replies) != 1 {
		t.Errorf("expected 1 reply preloaded, got %d", len(comments[0].Replies))
	}
}
