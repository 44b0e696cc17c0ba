package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if isDuplicate(err) {
		return store.ErrEmailTaken
	}
	return err
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) List(ctx context.Context, page, perPage int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(page, perPage)
	var users []models.User
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, total, err
}

func (s *UserStore) Update(ctx context.Context, id string, upd store.UserUpdate) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Nome != nil {
		fields["nome"] = *upd.Nome
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.Password != nil {
		fields["password"] = *upd.Password
	}
	if upd.Telefone != nil {
		fields["telefone"] = *upd.Telefone
	}
	if upd.IsValid != nil {
		fields["is_valid"] = *upd.IsValid
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(fields).Error; err != nil {
		if isDuplicate(err) {
			return nil, store.ErrEmailTaken
		}
		return nil, err
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
