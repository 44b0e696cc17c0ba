package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type PostStore struct {
	db *gorm.DB
}

func (s *PostStore) Create(ctx context.Context, in store.PostInput) (*models.Post, error) {
	post := models.Post{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: in.AuthorID,
	}

	// Post row, tag find-or-create and link rows commit or roll back together.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return syncTags(tx, &post, in.Tags)
	})
	if isForeignKey(err) {
		return nil, store.ErrAuthorMissing
	}
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, post.ID)
}

func (s *PostStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostStore) List(ctx context.Context, filter store.PostFilter, page, perPage int) ([]models.Post, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})

	switch {
	case filter.Tag != "":
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.Tag)
	case filter.Query != "":
		like := "%" + filter.Query + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(page, perPage)
	var posts []models.Post
	err := q.Preload("Author").
		Preload("Tags").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

func (s *PostStore) Update(ctx context.Context, id string, upd store.PostUpdate) (*models.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if upd.Title != nil {
			fields["title"] = *upd.Title
		}
		if upd.Content != nil {
			fields["content"] = *upd.Content
		}
		if upd.AuthorID != nil {
			fields["author_id"] = *upd.AuthorID
		}
		if len(fields) > 0 {
			if err := tx.Model(&post).Updates(fields).Error; err != nil {
				return err
			}
		}

		// A supplied tag list replaces the set; an empty list clears it.
		if upd.Tags != nil {
			return syncTags(tx, &post, *upd.Tags)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if isForeignKey(err) {
		return nil, store.ErrAuthorMissing
	}
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

func (s *PostStore) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// syncTags finds or creates each named tag, then replaces the post's tag set.
func syncTags(tx *gorm.DB, post *models.Post, names []string) error {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := tx.FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	return tx.Model(post).Association("Tags").Replace(tags)
}
