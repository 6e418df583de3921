package database

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultCategories are always present.
var DefaultCategories = []string{"Conference", "Workshop", "Seminar", "Webinar", "Meetup"}

// DemoUser is a seeded account with a known password.
type DemoUser struct {
	Username string
	Email    string
	Password string
	Role     string
}

// DemoUsers returns one account per role. Change these passwords in production!
func DemoUsers() []DemoUser {
	return []DemoUser{
		{Username: "admin", Email: "admin@eventmanagement.com", Password: "Admin@123", Role: constants.RoleAdmin},
		{Username: "organizer", Email: "organizer@eventmanagement.com", Password: "Organizer@123", Role: constants.RoleOrganizer},
		{Username: "attendee", Email: "attendee@eventmanagement.com", Password: "Attendee@123", Role: constants.RoleAttendee},
	}
}

// Seed creates initial data for the database. It is safe to run repeatedly.
func Seed(ctx context.Context, db *gorm.DB, withDemoUsers bool) error {
	if err := SeedCategories(ctx, db); err != nil {
		return err
	}
	if withDemoUsers {
		return SeedUsers(ctx, db)
	}
	return nil
}

func SeedCategories(ctx context.Context, db *gorm.DB) error {
	for _, name := range DefaultCategories {
		category := model.Category{Name: name}
		if err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	logger.InfoWithContext(ctx, "Categories seeded").Int("count", len(DefaultCategories)).Log()
	return nil
}

// SeedUsers creates the demo accounts that do not exist yet.
func SeedUsers(ctx context.Context, db *gorm.DB) error {
	for _, demo := range DemoUsers() {
		var existing model.User
		err := db.WithContext(ctx).Where("email = ?", demo.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(demo.Password), constants.BcryptCost)
		if err != nil {
			return err
		}

		user := model.User{
			Username:     demo.Username,
			Email:        demo.Email,
			PasswordHash: string(hashed),
			Role:         demo.Role,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}

		logger.InfoWithContext(ctx, "Demo user created").
			String("email", demo.Email).
			String("role", demo.Role).
			Log()
	}
	return nil
}
