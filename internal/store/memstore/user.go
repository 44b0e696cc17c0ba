package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type Users struct {
	s *Store
}

func (r *Users) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return store.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.s.stamp(user.ID)
	user.UpdatedAt = user.CreatedAt

	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.findUser(id)
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *Users) List(ctx context.Context, page, perPage int) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]string, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	// oldest first, matching the gorm store
	r.s.newestFirst(ids, func(id string) time.Time { return r.s.users[id].CreatedAt })
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	total := int64(len(ids))
	users := make([]models.User, 0, perPage)
	for _, id := range slicePage(ids, page, perPage) {
		users = append(users, *r.s.users[id])
	}
	return users, total, nil
}

func (r *Users) Update(ctx context.Context, id string, upd store.UserUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Email != nil {
		for other, v := range r.s.users {
			if other != id && v.Email == *upd.Email {
				return nil, store.ErrEmailTaken
			}
		}
		u.Email = *upd.Email
	}
	if upd.Nome != nil {
		u.Nome = *upd.Nome
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Telefone != nil {
		u.Telefone = *upd.Telefone
	}
	if upd.IsValid != nil {
		v := *upd.IsValid
		u.IsValid = &v
	}
	u.UpdatedAt = time.Now().UTC()

	cp := *u
	return &cp, nil
}

// Delete removes the user and cascades to their posts and comments.
func (r *Users) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	for pid, p := range r.s.posts {
		if p.AuthorID == id {
			r.s.removePost(pid)
		}
	}
	for cid, c := range r.s.comments {
		if c.UserID == id {
			delete(r.s.comments, cid)
		}
	}
	delete(r.s.users, id)
	return true, nil
}

func (s *Store) findUser(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
