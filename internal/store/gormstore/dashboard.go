package gormstore

import (
	"context"

	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type StatsStore struct {
	db *gorm.DB
}

func (s *StatsStore) Stats(ctx context.Context) (*store.DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &store.DashboardStats{}

	if err := db.Model(&models.User{}).Count(&stats.UsersTotal).Error; err != nil {
		return nil, err
	}
	// NULL is_valid counts as active; the flag defaults to true when unset.
	if err := db.Model(&models.User{}).
		Where("is_valid IS NULL OR is_valid = ?", true).
		Count(&stats.UsersActive).Error; err != nil {
		return nil, err
	}
	stats.UsersInactive = stats.UsersTotal - stats.UsersActive

	if err := db.Model(&models.Post{}).Count(&stats.PostsTotal).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Tag{}).Count(&stats.TagsTotal).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Count(&stats.CommentsTotal).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Author").Preload("Tags").
		Order("created_at DESC").
		Limit(5).
		Find(&stats.RecentPosts).Error; err != nil {
		return nil, err
	}

	err := db.Model(&models.Tag{}).
		Select("tags.*, COUNT(post_tags.post_id) AS posts_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("posts_count DESC").
		Limit(5).
		Find(&stats.PopularTags).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatsStore) Activity(ctx context.Context) ([]store.Activity, error) {
	db := s.db.WithContext(ctx)

	var posts []models.Post
	if err := db.Preload("Author").
		Order("created_at DESC").
		Limit(10).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := db.Preload("User").Preload("Post").
		Order("created_at DESC").
		Limit(5).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return store.MergeActivity(posts, comments), nil
}
