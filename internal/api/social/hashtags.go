package social

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoursocial/yoursocial/internal/api/middleware"
	"github.com/yoursocial/yoursocial/internal/api/response"
	"github.com/yoursocial/yoursocial/internal/api/views"
	"github.com/yoursocial/yoursocial/internal/models"
)

// tagCount is one aggregated hashtag entry
type tagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// aggregateTags flattens tag lists and counts occurrences. Results are
// ordered by count descending; ties keep first-seen scan order. No
// hashtag index exists, aggregation is recomputed per request.
func aggregateTags(tagLists [][]string, limit int) []tagCount {
	counts := make(map[string]int64)
	order := make([]string, 0)
	for _, tags := range tagLists {
		for _, tag := range tags {
			if tag == "" {
				continue
			}
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	out := make([]tagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, tagCount{Tag: tag, Count: counts[tag]})
	}
	// Stable sort keeps scan order within equal counts
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// tagListsSince collects hashtag lists from public posts and unexpired
// stories, restricted to content created at or after the cutoff when one
// is given
func (a *API) tagListsSince(c *gin.Context, since time.Time) ([][]string, error) {
	ctx := c.Request.Context()
	posts, err := a.repo.PublicPostsWithHashtags(ctx)
	if err != nil {
		return nil, err
	}
	stories, err := a.repo.ActiveStoriesWithHashtags(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	lists := make([][]string, 0, len(posts)+len(stories))
	for _, p := range posts {
		if !since.IsZero() && p.CreatedAt.Before(since) {
			continue
		}
		lists = append(lists, p.Hashtags)
	}
	for _, s := range stories {
		if !since.IsZero() && s.CreatedAt.Before(since) {
			continue
		}
		lists = append(lists, s.Hashtags)
	}
	return lists, nil
}

// Hashtags handles GET /api/social/hashtags, aggregated across public
// posts and active stories. An optional query parameter narrows the
// result to tags containing the substring.
func (a *API) Hashtags(c *gin.Context) {
	_, limit := response.Page(c)
	query := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Query("query")), "#"))
	lists, err := a.tagListsSince(c, time.Time{})
	if err != nil {
		response.Internal(c)
		return
	}
	tags := aggregateTags(lists, 0)
	if query != "" {
		tags = matchTags(tags, query)
	}
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	response.OK(c, gin.H{"hashtags": tags})
}

// matchTags keeps the aggregated entries whose tag contains the query
func matchTags(tags []tagCount, query string) []tagCount {
	out := make([]tagCount, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(t.Tag, query) {
			out = append(out, t)
		}
	}
	return out
}

// PostsByTag handles GET /api/social/hashtags/:tag/posts
func (a *API) PostsByTag(c *gin.Context) {
	tag := strings.ToLower(strings.TrimPrefix(c.Param("tag"), "#"))
	if tag == "" {
		response.BadRequest(c, "missing hashtag")
		return
	}
	posts, err := a.repo.PublicPostsWithHashtags(c.Request.Context())
	if err != nil {
		response.Internal(c)
		return
	}
	matched := make([]*models.Post, 0)
	for _, p := range posts {
		if containsTag(p.Hashtags, tag) {
			matched = append(matched, p)
		}
	}
	page, limit := response.Page(c)
	matched = pageSlicePosts(matched, page, limit)
	response.OK(c, gin.H{"posts": a.postViews(c, matched, middleware.UserID(c)), "page": page})
}

// StoriesByTag handles GET /api/social/hashtags/:tag/stories; expiry is
// evaluated live
func (a *API) StoriesByTag(c *gin.Context) {
	tag := strings.ToLower(strings.TrimPrefix(c.Param("tag"), "#"))
	if tag == "" {
		response.BadRequest(c, "missing hashtag")
		return
	}
	stories, err := a.repo.ActiveStoriesWithHashtags(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Internal(c)
		return
	}
	out := make([]*views.Story, 0)
	for _, s := range stories {
		if containsTag(s.Hashtags, tag) {
			out = append(out, views.NewStory(s, false))
		}
	}
	response.OK(c, gin.H{"stories": out})
}

// Trending handles GET /api/social/trending: top posts by 24h engagement
// plus top hashtags by 24h count
func (a *API) Trending(c *gin.Context) {
	_, limit := response.Page(c)
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	posts, err := a.repo.TrendingPosts(c.Request.Context(), cutoff, limit)
	if err != nil {
		response.Internal(c)
		return
	}
	lists, err := a.tagListsSince(c, cutoff)
	if err != nil {
		response.Internal(c)
		return
	}
	response.OK(c, gin.H{
		"posts":    a.postViews(c, posts, middleware.UserID(c)),
		"hashtags": aggregateTags(lists, limit),
	})
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func pageSlicePosts(posts []*models.Post, page, limit int) []*models.Post {
	start := (page - 1) * limit
	if start >= len(posts) {
		return nil
	}
	end := start + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}
