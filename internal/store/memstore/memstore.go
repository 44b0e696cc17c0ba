// Package memstore is a mutex-guarded in-memory implementation of the store
// interfaces. It backs the dev mode (no DATABASE_URL) and the handler tests.
package memstore

import (
	"sort"
	"sync"
	"time"

	"inkwell/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	posts    map[string]*models.Post
	tags     map[string]*models.Tag
	comments map[string]*models.Comment

	// post id -> set of tag ids
	postTags map[string]map[string]bool

	// insertion order tie-break for equal timestamps
	seq     map[string]uint64
	nextSeq uint64
}

func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		posts:    make(map[string]*models.Post),
		tags:     make(map[string]*models.Tag),
		comments: make(map[string]*models.Comment),
		postTags: make(map[string]map[string]bool),
		seq:      make(map[string]uint64),
	}
}

func (s *Store) Users() *Users       { return &Users{s} }
func (s *Store) Posts() *Posts       { return &Posts{s} }
func (s *Store) Tags() *Tags         { return &Tags{s} }
func (s *Store) Comments() *Comments { return &Comments{s} }
func (s *Store) Stats() *Stats       { return &Stats{s} }

func (s *Store) stamp(id string) time.Time {
	s.nextSeq++
	s.seq[id] = s.nextSeq
	return time.Now().UTC()
}

// newestFirst orders ids by creation time, falling back to insertion order.
func (s *Store) newestFirst(ids []string, createdAt func(id string) time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		ti, tj := createdAt(ids[i]), createdAt(ids[j])
		if ti.Equal(tj) {
			return s.seq[ids[i]] > s.seq[ids[j]]
		}
		return ti.After(tj)
	})
}

func slicePage[T any](items []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
