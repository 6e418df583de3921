package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"gorm.io/gorm"
)

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateWithinCapacity inserts reg unless the event already holds capacity
// registrations (ErrCapacityReached) or the user is already registered
// (ErrAlreadyExists). Both checks and the insert share one transaction.
func (r *RegistrationRepository) CreateWithinCapacity(ctx context.Context, reg *model.Registration, capacity int) error {
	ctx = withFunction(ctx, "CreateRegistration")
	start := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.Registration{}).
			Where("user_id = ? AND event_id = ?", reg.UserID, reg.EventID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyExists
		}

		var taken int64
		if err := tx.Model(&model.Registration{}).Where("event_id = ?", reg.EventID).Count(&taken).Error; err != nil {
			return err
		}
		if taken >= int64(capacity) {
			return ErrCapacityReached
		}

		return tx.Omit("User", "Event").Create(reg).Error
	})

	if err != nil && !errors.Is(err, ErrAlreadyExists) && !errors.Is(err, ErrCapacityReached) {
		// a concurrent insert may have won the unique (user_id, event_id) index
		if found, lookupErr := r.GetByUserAndEvent(ctx, reg.UserID, reg.EventID); lookupErr == nil && found != nil {
			err = ErrAlreadyExists
		}
	}

	logQuery(ctx, "registrations.create", start, err)
	return err
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	ctx = withFunction(ctx, "GetRegistrationByID")
	start := time.Now()

	var reg model.Registration
	err := r.db.WithContext(ctx).Preload("Event").Where("id = ?", id).First(&reg).Error
	logQuery(ctx, "registrations.find_id", start, err)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(withFunction(ctx, "GetRegistrationByUserAndEvent")).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByUser returns userID's registrations with event and category, newest first.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]model.Registration, error) {
	ctx = withFunction(ctx, "ListRegistrationsByUser")
	start := time.Now()

	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Event.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs).Error
	logQuery(ctx, "registrations.list_user", start, err)
	return regs, err
}

// ListByEvent returns the registrations of eventID with their users.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	ctx = withFunction(ctx, "ListRegistrationsByEvent")
	start := time.Now()

	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email")
		}).
		Where("event_id = ?", eventID).
		Find(&regs).Error
	logQuery(ctx, "registrations.list_event", start, err)
	return regs, err
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(withFunction(ctx, "CountRegistrationsByEvent")).
		Model(&model.Registration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// CountByEvents maps each event id to its registration count in one query.
func (r *RegistrationRepository) CountByEvents(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	ctx = withFunction(ctx, "CountRegistrationsByEvents")
	start := time.Now()

	var rows []struct {
		EventID string
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error
	logQuery(ctx, "registrations.count_by_event", start, err)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

func (r *RegistrationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(withFunction(ctx, "CountRegistrationsByUser")).
		Model(&model.Registration{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Count returns all registrations, or only those on organizerID's events.
func (r *RegistrationRepository) Count(ctx context.Context, organizerID string) (int64, error) {
	query := r.db.WithContext(withFunction(ctx, "CountRegistrations")).Model(&model.Registration{})
	if organizerID != "" {
		query = query.Where("event_id IN (?)",
			r.db.Model(&model.Event{}).Select("id").Where("organizer_id = ?", organizerID))
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	ctx = withFunction(ctx, "DeleteRegistration")
	start := time.Now()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Registration{})
	logQuery(ctx, "registrations.delete", start, result.Error)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// markPaid upserts the (userID, eventID) registration as PAID inside tx.
func markPaid(tx *gorm.DB, userID, eventID string) (*model.Registration, error) {
	var reg model.Registration
	err := tx.Where("user_id = ? AND event_id = ?", userID, eventID).First(&reg).Error
	switch {
	case err == nil:
		if err := tx.Model(&reg).Update("payment_status", constants.PaymentStatusPaid).Error; err != nil {
			return nil, err
		}
		reg.PaymentStatus = constants.PaymentStatusPaid
		return &reg, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		reg = model.Registration{UserID: userID, EventID: eventID, PaymentStatus: constants.PaymentStatusPaid}
		if err := tx.Omit("User", "Event").Create(&reg).Error; err != nil {
			return nil, err
		}
		return &reg, nil
	default:
		return nil, err
	}
}
