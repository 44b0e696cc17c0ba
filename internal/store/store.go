// Package store defines the narrow persistence capabilities the handlers
// depend on. Implementations are injected at startup; see gormstore for the
// postgres-backed one and memstore for the in-memory one.
package store

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrEmailTaken is returned when a user write violates email uniqueness.
	ErrEmailTaken = errors.New("store: email already registered")
	// ErrTagNameTaken is returned when a tag write violates name uniqueness.
	ErrTagNameTaken = errors.New("store: tag name already exists")
	// ErrAuthorMissing is returned when a post write references an unknown user.
	ErrAuthorMissing = errors.New("store: author does not exist")
)

// UserUpdate carries the optional fields of a user update. Nil means leave
// the column untouched.
type UserUpdate struct {
	Nome     *string
	Email    *string
	Password *string // already hashed
	Telefone *string
	IsValid  *bool
}

// PostInput carries the fields of a post create.
type PostInput struct {
	Title    string
	Content  string
	AuthorID string
	Tags     []string
}

// PostUpdate carries the optional fields of a post update. A non-nil Tags
// replaces the whole tag set; an empty slice clears it.
type PostUpdate struct {
	Title    *string
	Content  *string
	AuthorID *string
	Tags     *[]string
}

// PostFilter narrows a post listing. At most one of Tag and Query is set.
type PostFilter struct {
	Tag   string // exact tag name
	Query string // case-insensitive substring over title and content
}

// DashboardStats is the aggregate snapshot behind GET /dashboard/stats.
type DashboardStats struct {
	UsersTotal    int64
	UsersActive   int64
	UsersInactive int64
	PostsTotal    int64
	TagsTotal     int64
	CommentsTotal int64
	RecentPosts   []models.Post
	PopularTags   []models.Tag
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page, perPage int) ([]models.User, int64, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PostStore interface {
	Create(ctx context.Context, in PostInput) (*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, page, perPage int) ([]models.Post, int64, error)
	Update(ctx context.Context, id string, upd PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type TagStore interface {
	Create(ctx context.Context, name string) (*models.Tag, error)
	FindByID(ctx context.Context, id string) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Update(ctx context.Context, id, name string) (*models.Tag, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type CommentStore interface {
	Create(ctx context.Context, postID, userID, content string) (*models.Comment, error)
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	FindByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type StatsStore interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	Activity(ctx context.Context) ([]Activity, error)
}
