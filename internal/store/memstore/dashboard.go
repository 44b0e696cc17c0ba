package memstore

import (
	"context"
	"sort"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type Stats struct {
	s *Store
}

func (r *Stats) Stats(ctx context.Context) (*store.DashboardStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &store.DashboardStats{
		UsersTotal:    int64(len(r.s.users)),
		PostsTotal:    int64(len(r.s.posts)),
		TagsTotal:     int64(len(r.s.tags)),
		CommentsTotal: int64(len(r.s.comments)),
	}
	for _, u := range r.s.users {
		if u.Valid() {
			stats.UsersActive++
		}
	}
	stats.UsersInactive = stats.UsersTotal - stats.UsersActive

	stats.RecentPosts = r.s.recentPosts(5)

	tags, _ := (&Tags{r.s}).listLocked()
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].PostsCount > tags[j].PostsCount })
	if len(tags) > 5 {
		tags = tags[:5]
	}
	stats.PopularTags = tags
	return stats, nil
}

func (r *Stats) Activity(ctx context.Context) ([]store.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := r.s.recentPosts(10)

	ids := make([]string, 0, len(r.s.comments))
	for id := range r.s.comments {
		ids = append(ids, id)
	}
	r.s.newestFirst(ids, func(id string) time.Time { return r.s.comments[id].CreatedAt })
	if len(ids) > 5 {
		ids = ids[:5]
	}
	comments := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		c, _ := r.s.loadComment(id)
		comments = append(comments, *c)
	}

	return store.MergeActivity(posts, comments), nil
}

// recentPosts returns up to n newest posts with relations filled. Caller holds mu.
func (s *Store) recentPosts(n int) []models.Post {
	ids := make([]string, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	s.newestFirst(ids, func(id string) time.Time { return s.posts[id].CreatedAt })
	if len(ids) > n {
		ids = ids[:n]
	}
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		p, _ := s.loadPost(id)
		posts = append(posts, *p)
	}
	return posts
}

// listLocked is List without taking the lock; for callers already holding it.
func (r *Tags) listLocked() ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(r.s.tags))
	for id, t := range r.s.tags {
		cp := *t
		cp.PostsCount = r.s.tagUsage(id)
		tags = append(tags, cp)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}
