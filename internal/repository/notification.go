package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBatch inserts all notifications in one statement.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	ctx = withFunction(ctx, "CreateNotifications")
	start := time.Now()
	err := r.db.WithContext(ctx).Omit("Event").Create(&notifications).Error
	logQuery(ctx, "notifications.create_batch", start, err)
	return err
}

// ListByUser returns userID's notifications with their events, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	ctx = withFunction(ctx, "ListNotificationsByUser")
	start := time.Now()

	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Preload("Event", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "date_time")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	logQuery(ctx, "notifications.list_user", start, err)
	return notifications, err
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(withFunction(ctx, "GetNotificationByID")).Where("id = ?", id).First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead sets is_read on notification id owned by userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	ctx = withFunction(ctx, "MarkNotificationRead")
	start := time.Now()

	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	logQuery(ctx, "notifications.mark_read", start, result.Error)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(withFunction(ctx, "CountUnreadNotifications")).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
