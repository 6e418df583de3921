package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/events"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// mailFanOut bounds concurrent SMTP sends for one broadcast.
const mailFanOut = 8

type NotificationService struct {
	notifications *repository.NotificationRepository
	registrations *repository.RegistrationRepository
	events        *repository.EventRepository
	mailer        Mailer
	publisher     events.Publisher
}

func NewNotificationService(notifications *repository.NotificationRepository, registrations *repository.RegistrationRepository, eventRepo *repository.EventRepository, mailer Mailer, publisher events.Publisher) *NotificationService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &NotificationService{
		notifications: notifications,
		registrations: registrations,
		events:        eventRepo,
		mailer:        mailer,
		publisher:     publisher,
	}
}

// Send stores one notification per registration of the event and mails each
// registrant. Admins may notify any event, organizers only their own.
func (s *NotificationService) Send(ctx context.Context, caller Identity, req *dto.SendNotificationRequest) (*dto.SendNotificationResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "SendNotifications")

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if caller.Role != constants.RoleAdmin && event.OrganizerID != caller.ID {
		return nil, apperrors.ErrForbidden
	}

	regs, err := s.registrations.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	batch := make([]model.Notification, 0, len(regs))
	for _, r := range regs {
		batch = append(batch, model.Notification{
			UserID:      r.UserID,
			OrganizerID: caller.ID,
			EventID:     event.ID,
			Message:     req.Message,
		})
	}
	if err := s.notifications.CreateBatch(ctx, batch); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	delivered := s.mailAll(ctx, regs, event, req.Message)

	publish(ctx, s.publisher, constants.EventNotificationSent, event.ID, map[string]interface{}{
		"eventId":     event.ID,
		"organizerId": caller.ID,
		"recipients":  len(regs),
	})

	logger.InfoWithContext(ctx, "Notifications sent").
		String("event_id", event.ID).
		Int("recipients", len(regs)).
		Int("mailed", delivered).
		Log()

	return &dto.SendNotificationResponse{
		Message: "Notifications sent successfully",
		Count:   len(regs),
	}, nil
}

func (s *NotificationService) mailAll(ctx context.Context, regs []model.Registration, event *model.Event, message string) int {
	results := make([]bool, len(regs))

	var g errgroup.Group
	g.SetLimit(mailFanOut)
	for i := range regs {
		user := regs[i].User
		if user.Email == "" {
			continue
		}
		g.Go(func() error {
			results[i] = sendQuietly(ctx, s.mailer,
				EventUpdateMail(user.Email, user.Username, message, event.Title, event.Location, event.DateTime))
			return nil
		})
	}
	_ = g.Wait()

	delivered := 0
	for _, ok := range results {
		if ok {
			delivered++
		}
	}
	return delivered
}

func (s *NotificationService) ListMine(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListNotifications")

	items, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	out := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, toNotificationResponse(&items[i]))
	}
	return out, nil
}

// MarkRead flags a notification as read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*dto.NotificationResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "MarkNotificationRead")

	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if n.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	n.IsRead = true

	resp := toNotificationResponse(n)
	return &resp, nil
}
