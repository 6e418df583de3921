package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

// EventFilter narrows event listings. Empty fields are ignored.
type EventFilter struct {
	CategoryID  string
	Status      string
	OrganizerID string
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Organizer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email", "role", "full_name", "avatar_url")
		})
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx = withFunction(ctx, "CreateEvent")

	logger.DebugWithContext(ctx, "Creating event").
		String("title", event.Title).
		String("organizer_id", event.OrganizerID).
		Log()

	start := time.Now()
	err := r.db.WithContext(ctx).Omit("Organizer", "Category").Create(event).Error
	logQuery(ctx, "events.create", start, err)
	return err
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	ctx = withFunction(ctx, "GetEventByID")
	start := time.Now()

	var event model.Event
	err := r.withRelations(ctx).Where("id = ?", id).First(&event).Error
	logQuery(ctx, "events.find_id", start, err)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns one page of events, newest date first, and the total count.
func (r *EventRepository) List(ctx context.Context, filter EventFilter, limit, offset int) ([]model.Event, int64, error) {
	ctx = withFunction(ctx, "ListEvents")

	logger.DebugWithContext(ctx, "Listing events").
		String("category_id", filter.CategoryID).
		String("status", filter.Status).
		String("organizer_id", filter.OrganizerID).
		Int("limit", limit).
		Int("offset", offset).
		Log()

	start := time.Now()
	query := r.db.WithContext(ctx).Model(&model.Event{})
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrganizerID != "" {
		query = query.Where("organizer_id = ?", filter.OrganizerID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logQuery(ctx, "events.count", start, err)
		return nil, 0, err
	}

	var events []model.Event
	err := query.
		Preload("Category").
		Preload("Organizer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "email", "role", "full_name", "avatar_url")
		}).
		Order("date_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	logQuery(ctx, "events.list", start, err)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListByOrganizer returns every event of organizerID, soonest first.
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	ctx = withFunction(ctx, "ListEventsByOrganizer")
	start := time.Now()

	var events []model.Event
	err := r.withRelations(ctx).Where("organizer_id = ?", organizerID).Order("date_time ASC").Find(&events).Error
	logQuery(ctx, "events.list_organizer", start, err)
	return events, err
}

// UpcomingByOrganizer returns up to limit scheduled future events.
func (r *EventRepository) UpcomingByOrganizer(ctx context.Context, organizerID string, limit int) ([]model.Event, error) {
	ctx = withFunction(ctx, "UpcomingEventsByOrganizer")
	start := time.Now()

	var events []model.Event
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("organizer_id = ? AND status = ? AND date_time >= ?", organizerID, constants.EventStatusScheduled, utcNow()).
		Order("date_time ASC").
		Limit(limit).
		Find(&events).Error
	logQuery(ctx, "events.upcoming_organizer", start, err)
	return events, err
}

// Update applies column updates and returns the fresh row with relations.
func (r *EventRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Event, error) {
	ctx = withFunction(ctx, "UpdateEvent")
	start := time.Now()

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", id).Updates(updates)
		logQuery(ctx, "events.update", start, result.Error)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade removes the event with its registrations, notifications and
// payment transactions.
func (r *EventRepository) DeleteCascade(ctx context.Context, id string) error {
	ctx = withFunction(ctx, "DeleteEventCascade")
	start := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteEventDependents(tx, []string{id}); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Event{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	logQuery(ctx, "events.delete_cascade", start, err)
	return err
}

// Count returns the number of events, restricted to organizerID when set.
func (r *EventRepository) Count(ctx context.Context, organizerID string) (int64, error) {
	query := r.db.WithContext(withFunction(ctx, "CountEvents")).Model(&model.Event{})
	if organizerID != "" {
		query = query.Where("organizer_id = ?", organizerID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
