package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

type EventService struct {
	events        *repository.EventRepository
	categories    *repository.CategoryRepository
	registrations *repository.RegistrationRepository
	cache         *CacheService
	now           func() time.Time
}

func NewEventService(events *repository.EventRepository, categories *repository.CategoryRepository, registrations *repository.RegistrationRepository, cache *CacheService) *EventService {
	return &EventService{
		events:        events,
		categories:    categories,
		registrations: registrations,
		cache:         cache,
		now:           time.Now,
	}
}

func (s *EventService) List(ctx context.Context, query dto.EventListQuery, page constants.PaginationParams) (*dto.EventListResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListEvents")

	filter := repository.EventFilter{
		CategoryID:  query.CategoryID,
		Status:      query.Status,
		OrganizerID: query.OrganizerID,
	}
	events, total, err := s.events.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	items, err := s.withCounts(ctx, events)
	if err != nil {
		return nil, err
	}

	return &dto.EventListResponse{
		Events: items,
		Pagination: dto.Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: total,
			Pages: page.Pages(total),
		},
	}, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*dto.EventResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetEvent")

	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.registrations.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := toEventResponse(event)
	resp.RegistrationCount = &count
	return &resp, nil
}

// ListOrganized returns the caller's own events with registration counts.
func (s *EventService) ListOrganized(ctx context.Context, organizerID string) ([]dto.EventResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListOrganizedEvents")

	events, err := s.events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return s.withCounts(ctx, events)
}

func (s *EventService) Create(ctx context.Context, caller Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateEvent")

	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if !req.DateTime.After(s.now()) {
		return nil, apperrors.ErrEventInPast
	}

	status := req.Status
	if status == "" {
		status = constants.EventStatusScheduled
	}

	event := &model.Event{
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		ImageURL:        req.ImageURL,
		ThumbnailURL:    req.ThumbnailURL,
		DateTime:        req.DateTime.UTC(),
		Location:        strings.TrimSpace(req.Location),
		MaxAttendees:    req.MaxAttendees,
		PaymentRequired: req.PaymentRequired,
		Status:          status,
		OrganizerID:     caller.ID,
		CategoryID:      req.CategoryID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.Invalidate(ctx, constants.CacheKeyCategoryList)

	logger.InfoWithContext(ctx, "Event created").
		String("event_id", event.ID).
		String("category_id", event.CategoryID).
		Log()

	return s.Get(ctx, event.ID)
}

// Update applies the fields present in req. Organizers may only update
// their own events; admins may update any.
func (s *EventService) Update(ctx context.Context, caller Identity, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateEvent")

	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != constants.RoleAdmin && existing.OrganizerID != caller.ID {
		logger.WarnWithContext(ctx, "Event update forbidden").
			String("event_id", id).
			Log()
		return nil, apperrors.ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.DateTime != nil {
		updates["date_time"] = req.DateTime.UTC()
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.MaxAttendees != nil {
		updates["max_attendees"] = *req.MaxAttendees
	}
	if req.PaymentRequired != nil {
		updates["payment_required"] = *req.PaymentRequired
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	categoryChanged := req.CategoryID != nil && *req.CategoryID != existing.CategoryID
	if categoryChanged {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}

	event, err := s.events.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if categoryChanged {
		s.cache.Invalidate(ctx, constants.CacheKeyCategoryList)
	}

	logger.InfoWithContext(ctx, "Event updated").
		String("event_id", id).
		Int("fields", len(updates)).
		Log()

	resp := toEventResponse(event)
	return &resp, nil
}

// Delete removes the event together with its registrations, notifications
// and payment transactions.
func (s *EventService) Delete(ctx context.Context, id string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteEvent")

	if err := s.events.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEventNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Invalidate(ctx, constants.CacheKeyCategoryList)

	logger.InfoWithContext(ctx, "Event deleted").
		String("event_id", id).
		Log()
	return nil
}

func (s *EventService) load(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return event, nil
}

func (s *EventService) requireCategory(ctx context.Context, categoryID string) error {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		return apperrors.ErrInvalidCategory
	}
	return nil
}

func (s *EventService) withCounts(ctx context.Context, events []model.Event) ([]dto.EventResponse, error) {
	ids := make([]string, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
	}
	counts, err := s.registrations.CountByEvents(ctx, ids)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		resp := toEventResponse(&events[i])
		count := counts[events[i].ID]
		resp.RegistrationCount = &count
		items = append(items, resp)
	}
	return items, nil
}
