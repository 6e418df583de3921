package database

import (
	"github.com/Payphone-Digital/eventhub/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.UserFavoriteCategory{},
		&model.Event{},
		&model.Registration{},
		&model.PaymentTransaction{},
		&model.Notification{},
	)
}
