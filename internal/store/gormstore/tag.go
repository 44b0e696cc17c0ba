package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type TagStore struct {
	db *gorm.DB
}

func (s *TagStore) Create(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if isDuplicate(err) {
			return nil, store.ErrTagNameTaken
		}
		return nil, err
	}
	return &tag, nil
}

func (s *TagStore) FindByID(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Preload("Posts").First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	tag.PostsCount = int64(len(tag.Posts))
	return &tag, nil
}

func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.*, COUNT(post_tags.post_id) AS posts_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (s *TagStore) Update(ctx context.Context, id, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&tag).Update("name", name).Error; err != nil {
		if isDuplicate(err) {
			return nil, store.ErrTagNameTaken
		}
		return nil, err
	}
	return &tag, nil
}

// Delete removes the tag and its link rows only; posts survive.
func (s *TagStore) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&tag).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
