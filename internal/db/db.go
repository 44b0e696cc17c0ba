package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"inkwell/internal/models"
)

// Open connects to postgres and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = conn.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
