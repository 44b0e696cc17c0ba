package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type CommentStore struct {
	db *gorm.DB
}

func (s *CommentStore) Create(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	comment := models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		if isForeignKey(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	err := s.db.WithContext(ctx).
		Preload("User").
		First(&comment, "id = ?", comment.ID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentStore) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentStore) FindByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (s *CommentStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
