package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type Comments struct {
	s *Store
}

func (r *Comments) Create(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[postID]; !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return nil, store.ErrNotFound
	}

	comment := &models.Comment{
		ID:      uuid.NewString(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	comment.CreatedAt = r.s.stamp(comment.ID)
	r.s.comments[comment.ID] = comment

	return r.s.loadComment(comment.ID)
}

func (r *Comments) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.loadComment(id)
}

func (r *Comments) FindByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]string, 0)
	for id, c := range r.s.comments {
		if c.PostID == postID {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids, func(id string) time.Time { return r.s.comments[id].CreatedAt })

	comments := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		c, _ := r.s.loadComment(id)
		comments = append(comments, *c)
	}
	return comments, nil
}

func (r *Comments) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return false, nil
	}
	delete(r.s.comments, id)
	return true, nil
}

func (s *Store) loadComment(id string) (*models.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	if user, ok := s.users[c.UserID]; ok {
		cp.User = *user
	}
	if post, ok := s.posts[c.PostID]; ok {
		cp.Post = *post
	}
	return &cp, nil
}
