package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type Posts struct {
	s *Store
}

func (r *Posts) Create(ctx context.Context, in store.PostInput) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[in.AuthorID]; !ok {
		return nil, store.ErrAuthorMissing
	}

	post := &models.Post{
		ID:       uuid.NewString(),
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: in.AuthorID,
	}
	post.CreatedAt = r.s.stamp(post.ID)
	post.UpdatedAt = post.CreatedAt

	r.s.posts[post.ID] = post
	r.s.syncTags(post.ID, in.Tags)
	return r.s.loadPost(post.ID)
}

func (r *Posts) FindByID(ctx context.Context, id string) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.loadPost(id)
}

func (r *Posts) List(ctx context.Context, filter store.PostFilter, page, perPage int) ([]models.Post, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]string, 0, len(r.s.posts))
	for id, p := range r.s.posts {
		switch {
		case filter.Tag != "":
			if !r.s.postHasTag(id, filter.Tag) {
				continue
			}
		case filter.Query != "":
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(p.Title), q) &&
				!strings.Contains(strings.ToLower(p.Content), q) {
				continue
			}
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids, func(id string) time.Time { return r.s.posts[id].CreatedAt })

	total := int64(len(ids))
	posts := make([]models.Post, 0, perPage)
	for _, id := range slicePage(ids, page, perPage) {
		p, _ := r.s.loadPost(id)
		posts = append(posts, *p)
	}
	return posts, total, nil
}

func (r *Posts) Update(ctx context.Context, id string, upd store.PostUpdate) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.AuthorID != nil {
		if _, ok := r.s.users[*upd.AuthorID]; !ok {
			return nil, store.ErrAuthorMissing
		}
		p.AuthorID = *upd.AuthorID
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Tags != nil {
		r.s.syncTags(id, *upd.Tags)
	}
	p.UpdatedAt = time.Now().UTC()
	return r.s.loadPost(id)
}

func (r *Posts) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return false, nil
	}
	r.s.removePost(id)
	return true, nil
}

// removePost drops the post, its link rows and its comments. Caller holds mu.
func (s *Store) removePost(id string) {
	delete(s.postTags, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.posts, id)
}

// syncTags replaces the post's tag set, creating unseen tags by exact name.
// Caller holds mu.
func (s *Store) syncTags(postID string, names []string) {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[s.tagIDByName(name)] = true
	}
	s.postTags[postID] = set
}

func (s *Store) tagIDByName(name string) string {
	for id, t := range s.tags {
		if t.Name == name {
			return id
		}
	}
	tag := &models.Tag{ID: uuid.NewString(), Name: name}
	tag.CreatedAt = s.stamp(tag.ID)
	tag.UpdatedAt = tag.CreatedAt
	s.tags[tag.ID] = tag
	return tag.ID
}

func (s *Store) postHasTag(postID, name string) bool {
	for tagID := range s.postTags[postID] {
		if s.tags[tagID].Name == name {
			return true
		}
	}
	return false
}

// loadPost copies the post out with author and tags attached. Caller holds mu.
func (s *Store) loadPost(id string) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	if author, ok := s.users[p.AuthorID]; ok {
		cp.Author = *author
	}
	cp.Tags = s.postTagList(id)
	return &cp, nil
}

func (s *Store) postTagList(postID string) []models.Tag {
	tags := make([]models.Tag, 0, len(s.postTags[postID]))
	for tagID := range s.postTags[postID] {
		tags = append(tags, *s.tags[tagID])
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags
}
