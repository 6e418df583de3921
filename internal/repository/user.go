package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = withFunction(ctx, "CreateUser")

	logger.DebugWithContext(ctx, "Creating user").
		String("email", user.Email).
		String("role", user.Role).
		Log()

	start := time.Now()
	err := r.db.WithContext(ctx).Create(user).Error
	logQuery(ctx, "users.create", start, err)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	ctx = withFunction(ctx, "GetUserByID")

	// Check if context is cancelled
	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").Err(err).Log()
		return nil, err
	}

	start := time.Now()
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	logQuery(ctx, "users.find_id", start, err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = withFunction(ctx, "GetUserByEmail")

	start := time.Now()
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	logQuery(ctx, "users.find_email", start, err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmailOrUsername reports whether either identifier is taken.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	ctx = withFunction(ctx, "ExistsByEmailOrUsername")

	start := time.Now()
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	logQuery(ctx, "users.exists", start, err)
	return count > 0, err
}

// UsernameTaken reports whether another user already holds username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	var count int64
	err := r.db.WithContext(withFunction(ctx, "UsernameTaken")).Model(&model.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx = withFunction(ctx, "UpdateLastLogin")
	start := time.Now()
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login", at).Error
	logQuery(ctx, "users.update_last_login", start, err)
	return err
}

// UpdateProfile applies column updates and returns the fresh row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (*model.User, error) {
	ctx = withFunction(ctx, "UpdateProfile")
	start := time.Now()

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			logQuery(ctx, "users.update_profile", start, result.Error)
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	logQuery(ctx, "users.update_profile", start, nil)
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ctx = withFunction(ctx, "UpdatePassword")
	start := time.Now()
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
	logQuery(ctx, "users.update_password", start, err)
	return err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(withFunction(ctx, "CountUsers")).Model(&model.User{}).Count(&count).Error
	return count, err
}

// DeleteCascade removes the user and everything that references them,
// including the events they organize and those events' dependents.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) error {
	ctx = withFunction(ctx, "DeleteUserCascade")
	start := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eventIDs []string
		if err := tx.Model(&model.Event{}).Where("organizer_id = ?", id).Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		if err := deleteEventDependents(tx, eventIDs); err != nil {
			return err
		}
		if len(eventIDs) > 0 {
			if err := tx.Where("id IN ?", eventIDs).Delete(&model.Event{}).Error; err != nil {
				return err
			}
		}

		for _, m := range []interface{}{
			&model.RefreshToken{},
			&model.UserFavoriteCategory{},
			&model.Registration{},
			&model.PaymentTransaction{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ? OR organizer_id = ?", id, id).Delete(&model.Notification{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	logQuery(ctx, "users.delete_cascade", start, err)
	return err
}

// deleteEventDependents removes registrations, notifications and payment
// transactions for the given events. tx must be a transaction handle.
func deleteEventDependents(tx *gorm.DB, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	for _, m := range []interface{}{
		&model.Registration{},
		&model.Notification{},
		&model.PaymentTransaction{},
	} {
		if err := tx.Where("event_id IN ?", eventIDs).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
