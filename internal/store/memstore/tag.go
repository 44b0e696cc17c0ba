package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type Tags struct {
	s *Store
}

func (r *Tags) Create(ctx context.Context, name string) (*models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tags {
		if t.Name == name {
			return nil, store.ErrTagNameTaken
		}
	}
	tag := &models.Tag{ID: uuid.NewString(), Name: name}
	tag.CreatedAt = r.s.stamp(tag.ID)
	tag.UpdatedAt = tag.CreatedAt
	r.s.tags[tag.ID] = tag

	cp := *tag
	return &cp, nil
}

func (r *Tags) FindByID(ctx context.Context, id string) (*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tags[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	cp.PostsCount = r.s.tagUsage(id)
	return &cp, nil
}

func (r *Tags) List(ctx context.Context) ([]models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listLocked()
}

func (r *Tags) Update(ctx context.Context, id, name string) (*models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tags[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for other, v := range r.s.tags {
		if other != id && v.Name == name {
			return nil, store.ErrTagNameTaken
		}
	}
	t.Name = name
	t.UpdatedAt = time.Now().UTC()

	cp := *t
	return &cp, nil
}

// Delete removes the tag and its link rows; posts are untouched.
func (r *Tags) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tags[id]; !ok {
		return false, nil
	}
	for _, set := range r.s.postTags {
		delete(set, id)
	}
	delete(r.s.tags, id)
	return true, nil
}

func (s *Store) tagUsage(id string) int64 {
	var n int64
	for _, set := range s.postTags {
		if set[id] {
			n++
		}
	}
	return n
}
