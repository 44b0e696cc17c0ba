package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag names are unique with case-sensitive exact matching.
type Tag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"many2many:post_tags;" json:"-"`

	// Filled by count queries; read-only, no column.
	PostsCount int64 `gorm:"->;-:migration" json:"posts_count"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
