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
	"gorm.io/gorm"
)

type RegistrationService struct {
	registrations *repository.RegistrationRepository
	events        *repository.EventRepository
	users         *repository.UserRepository
	mailer        Mailer
	publisher     events.Publisher
}

func NewRegistrationService(registrations *repository.RegistrationRepository, eventRepo *repository.EventRepository, users *repository.UserRepository, mailer Mailer, publisher events.Publisher) *RegistrationService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &RegistrationService{
		registrations: registrations,
		events:        eventRepo,
		users:         users,
		mailer:        mailer,
		publisher:     publisher,
	}
}

// Register signs the caller up for eventID. Paid events start PENDING until
// a payment succeeds; free events are PAID at once and get a confirmation mail.
func (s *RegistrationService) Register(ctx context.Context, caller Identity, eventID string) (*dto.RegistrationResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateRegistration")

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	status := constants.PaymentStatusPaid
	if event.PaymentRequired {
		status = constants.PaymentStatusPending
	}

	reg := &model.Registration{
		UserID:        caller.ID,
		EventID:       event.ID,
		PaymentStatus: status,
	}
	if err := s.registrations.CreateWithinCapacity(ctx, reg, event.MaxAttendees); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, apperrors.ErrAlreadyRegistered
		case errors.Is(err, repository.ErrCapacityReached):
			logger.InfoWithContext(ctx, "Registration rejected: event full").
				String("event_id", event.ID).
				Int("capacity", event.MaxAttendees).
				Log()
			return nil, apperrors.ErrEventFull
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !event.PaymentRequired {
		s.sendConfirmation(ctx, caller.ID, event)
	}

	publish(ctx, s.publisher, constants.EventRegistrationCreated, reg.ID, map[string]interface{}{
		"registrationId": reg.ID,
		"userId":         reg.UserID,
		"eventId":        reg.EventID,
		"paymentStatus":  reg.PaymentStatus,
	})

	logger.InfoWithContext(ctx, "Registration created").
		String("registration_id", reg.ID).
		String("event_id", event.ID).
		String("payment_status", status).
		Log()

	reg.Event = *event
	resp := toRegistrationResponse(reg)
	return &resp, nil
}

// ListByUser returns userID's registrations. Only the user themself or an
// admin may list them.
func (s *RegistrationService) ListByUser(ctx context.Context, caller Identity, userID string) ([]dto.RegistrationResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListRegistrations")

	if caller.ID != userID && caller.Role != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	regs, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, toRegistrationResponse(&regs[i]))
	}
	return out, nil
}

func (s *RegistrationService) Cancel(ctx context.Context, caller Identity, id string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "CancelRegistration")

	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRegistrationNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if reg.UserID != caller.ID && caller.Role != constants.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if err := s.registrations.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRegistrationNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	publish(ctx, s.publisher, constants.EventRegistrationDeleted, reg.ID, map[string]interface{}{
		"registrationId": reg.ID,
		"userId":         reg.UserID,
		"eventId":        reg.EventID,
	})

	logger.InfoWithContext(ctx, "Registration canceled").
		String("registration_id", id).
		String("event_id", reg.EventID).
		Log()
	return nil
}

func (s *RegistrationService) sendConfirmation(ctx context.Context, userID string, event *model.Event) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		logger.WarnWithContext(ctx, "Skipping confirmation mail: user lookup failed").
			Err(err).
			Log()
		return
	}
	sendQuietly(ctx, s.mailer, RegistrationMail(user.Email, user.Username, event.Title, event.DateTime))
}
