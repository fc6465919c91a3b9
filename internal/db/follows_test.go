package db

import (
	"context"
	"errors"
	"testing"
)

func TestToggleFollow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")

	action, err := repo.ToggleFollow(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle follow: %v", err)
	}
	if action != ActionFollowed {
		t.Errorf("expected %q, got %q", ActionFollowed, action)
	}

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if !following {
		t.Error("expected follow edge to exist")
	}

	// Counters are rebuilt from the edge table
	alice, _ = repo.GetUserByID(ctx, alice.ID)
	bob, _ = repo.GetUserByID(ctx, bob.ID)
	if alice.FollowingCount != 1 {
		t.Errorf("expected following_count 1, got %d", alice.FollowingCount)
	}
	if bob.FollowersCount != 1 {
		t.Errorf("expected followers_count 1, got %d", bob.FollowersCount)
	}

	// Second toggle removes the edge
	action, err = repo.ToggleFollow(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle follow: %v", err)
	}
	if action != ActionUnfollowed {
		t.Errorf("expected %q, got %q", ActionUnfollowed, action)
	}
	following, _ = repo.IsFollowing(ctx, alice.ID, bob.ID)
	if following {
		t.Error("expected follow edge to be gone")
	}
	bob, _ = repo.GetUserByID(ctx, bob.ID)
	if bob.FollowersCount != 0 {
		t.Errorf("expected followers_count 0, got %d", bob.FollowersCount)
	}
}

func TestToggleFollowSelf(t *testing.T) {
	repo := newTestRepo(t)
	alice := createTestUser(t, repo, "alice")

	_, err := repo.ToggleFollow(context.Background(), alice.ID, alice.ID)
	if !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestFollowersAndFollowing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	carol := createTestUser(t, repo, "carol")

	if _, err := repo.ToggleFollow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ToggleFollow(ctx, carol.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ToggleFollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatal(err)
	}

	followers, err := repo.Followers(ctx, alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(followers))
	}

	following, err := repo.Following(ctx, alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if len(following) != 1 || following[0].ID != bob.ID {
		t.Errorf("expected alice to follow only bob, got %d entries", len(following))
	}

	ids, err := repo.FollowingIDs(ctx, alice.ID)
	if err != nil {
		t.Fatalf("following ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != bob.ID {
		t.Errorf("unexpected following ids: %v", ids)
	}
}

func TestSuggestedUsersExcludesFollowed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	carol := createTestUser(t, repo, "carol")

	if _, err := repo.ToggleFollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatal(err)
	}

	suggested, err := repo.SuggestedUsers(ctx, alice.ID, 10)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggested) != 1 || suggested[0].ID != carol.ID {
		t.Errorf("expected only carol suggested, got %d entries", len(suggested))
	}
}

func TestRecomputeUserCountersFixesDrift(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	if _, err := repo.ToggleFollow(ctx, bob.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	createTestPost(t, repo, alice.ID, "hello")

	// Introduce drift
	if err := repo.db.Model(alice).Updates(map[string]interface{}{
		"followers_count": 99, "posts_count": 99,
	}).Error; err != nil {
		t.Fatal(err)
	}

	if err := repo.RecomputeUserCounters(ctx, alice.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	alice, _ = repo.GetUserByID(ctx, alice.ID)
	if alice.FollowersCount != 1 || alice.PostsCount != 1 {
		t.Errorf("expected counters (1,1), got (%d,%d)", alice.FollowersCount, alice.PostsCount)
	}
}
