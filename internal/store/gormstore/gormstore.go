// Package gormstore implements the store interfaces on top of gorm/postgres.
package gormstore

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/internal/store"
)

// New builds all repositories over a shared gorm handle.
func New(db *gorm.DB) (store.UserStore, store.PostStore, store.TagStore, store.CommentStore, store.StatsStore) {
	return &UserStore{db: db}, &PostStore{db: db}, &TagStore{db: db}, &CommentStore{db: db}, &StatsStore{db: db}
}

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// pgconn errors carry the sqlstate in the message; 23505 = unique_violation.
	return err != nil && strings.Contains(err.Error(), "23505")
}

// isForeignKey reports whether err is a foreign-key violation (sqlstate 23503).
func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "23503")
}

func pageBounds(page, perPage int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}
