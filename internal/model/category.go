package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	Base
	Name string `gorm:"column:name;type:varchar(100);uniqueIndex;not null"`
}

func (Category) TableName() string { return "categories" }

type UserFavoriteCategory struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	UserID     string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_user_favorite_category"`
	CategoryID string    `gorm:"column:category_id;type:varchar(36);not null;uniqueIndex:idx_user_favorite_category;index"`
	Category   Category  `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (UserFavoriteCategory) TableName() string { return "user_favorite_categories" }

func (f *UserFavoriteCategory) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
