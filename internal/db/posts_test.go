package db

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yoursocial/yoursocial/internal/models"
)

func TestFeedPostsVisibility(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	carol := createTestUser(t, repo, "carol")

	own := createTestPost(t, repo, alice.ID, "mine")
	followedPrivate := &models.Post{AuthorID: bob.ID, Content: "bobs", IsPrivate: true}
	if err := repo.CreatePost(ctx, followedPrivate); err != nil {
		t.Fatal(err)
	}
	strangerPublic := createTestPost(t, repo, carol.ID, "carols")
	strangerPrivate := &models.Post{AuthorID: carol.ID, Content: "hidden", IsPrivate: true}
	if err := repo.CreatePost(ctx, strangerPrivate); err != nil {
		t.Fatal(err)
	}

	posts, err := repo.FeedPosts(ctx, alice.ID, []int64{bob.ID}, 1, 10)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 feed posts, got %d", len(posts))
	}
	seen := map[int64]bool{}
	for _, p := range posts {
		seen[p.ID] = true
	}
	if !seen[own.ID] || !seen[followedPrivate.ID] {
		t.Error("expected own and followed posts in feed")
	}
	if !seen[strangerPublic.ID] {
		t.Error("expected public post from a non-followed author in feed")
	}
	if seen[strangerPrivate.ID] {
		t.Error("private post from a non-followed author leaked into feed")
	}
}

func TestDeletePostCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	post := createTestPost(t, repo, alice.ID, "hello")

	comment := &models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "hi"}
	if err := repo.CreateComment(ctx, comment); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.TogglePostLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ToggleCommentLike(ctx, alice.ID, comment.ID); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeletePost(ctx, post); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	gone, _ := repo.GetPostByID(ctx, post.ID)
	if gone != nil {
		t.Error("expected post deleted")
	}
	commentGone, _ := repo.GetCommentByID(ctx, comment.ID)
	if commentGone != nil {
		t.Error("expected comments deleted with post")
	}
	alice, _ = repo.GetUserByID(ctx, alice.ID)
	if alice.PostsCount != 0 {
		t.Errorf("expected posts_count 0, got %d", alice.PostsCount)
	}
}

func TestPostsByAuthorPrivacy(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")

	createTestPost(t, repo, alice.ID, "public")
	private := &models.Post{AuthorID: alice.ID, Content: "private", IsPrivate: true}
	if err := repo.CreatePost(ctx, private); err != nil {
		t.Fatal(err)
	}

	visible, err := repo.PostsByAuthor(ctx, alice.ID, false, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 {
		t.Errorf("expected 1 public post, got %d", len(visible))
	}
	all, err := repo.PostsByAuthor(ctx, alice.ID, true, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 posts for the author, got %d", len(all))
	}
}

func TestTrendingPostsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	carol := createTestUser(t, repo, "carol")

	cold := createTestPost(t, repo, alice.ID, "cold")
	hot := createTestPost(t, repo, alice.ID, "hot")
	if _, err := repo.TogglePostLike(ctx, bob.ID, hot.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.TogglePostLike(ctx, carol.ID, hot.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.TogglePostLike(ctx, bob.ID, cold.ID); err != nil {
		t.Fatal(err)
	}

	posts, err := repo.TrendingPosts(ctx, time.Now().UTC().Add(-24*time.Hour), 10)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != hot.ID {
		t.Errorf("expected the most engaged post first, got %d", posts[0].ID)
	}
}

func TestPublicPostsWithHashtags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")

	tagged := &models.Post{
		AuthorID: alice.ID,
		Content:  "tagged",
		Hashtags: datatypes.NewJSONSlice([]string{"golang"}),
	}
	if err := repo.CreatePost(ctx, tagged); err != nil {
		t.Fatal(err)
	}
	hidden := &models.Post{
		AuthorID:  alice.ID,
		Content:   "private tagged",
		IsPrivate: true,
		Hashtags:  datatypes.NewJSONSlice([]string{"golang"}),
	}
	if err := repo.CreatePost(ctx, hidden); err != nil {
		t.Fatal(err)
	}

	posts, err := repo.PublicPostsWithHashtags(ctx)
	if err != nil {
		t.Fatalf("hashtag scan: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != tagged.ID {
		t.Fatalf("expected only the public tagged post, got %d", len(posts))
	}
}
