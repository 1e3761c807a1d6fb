package database

import (
	"gorm.io/gorm"

	"github.com/regcomments/registry-comments/internal/repository/database/model"
)

// Migrate creates or updates the tables the comment store and the path
// table need.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Path{}, &model.Comment{}, &model.ResourceComment{})
}
