package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Payphone-Digital/eventhub/config"
	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	"github.com/Payphone-Digital/eventhub/pkg/circuit"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/events"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Provider-side intent statuses.
const (
	IntentSucceeded             = "succeeded"
	IntentRequiresAction        = "requires_action"
	IntentRequiresPaymentMethod = "requires_payment_method"
)

// PaymentIntent is the provider's view of one charge attempt.
type PaymentIntent struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	AmountMinor   int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
	ClientSecret  string `json:"client_secret"`
}

type ChargeRequest struct {
	Amount          float64
	Currency        string
	PaymentMethodID string
	Metadata        map[string]string
}

// PaymentProvider charges a payment method. A returned error means the
// provider could not be reached or refused the request outright; a declined
// card is a successful call with a non-succeeded status.
type PaymentProvider interface {
	Name() string
	CreatePayment(ctx context.Context, req ChargeRequest) (*PaymentIntent, error)
}

// MockProvider decides the outcome from the payment method id, ignoring
// case: ids containing "decline" are declined, ids containing "auth" need
// further authentication, anything else succeeds.
type MockProvider struct {
	delay time.Duration
	now   func() time.Time
}

func NewMockProvider(delay time.Duration) *MockProvider {
	return &MockProvider{delay: delay, now: time.Now}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) CreatePayment(ctx context.Context, req ChargeRequest) (*PaymentIntent, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	method := strings.ToLower(req.PaymentMethodID)
	status := IntentSucceeded
	switch {
	case strings.Contains(method, "decline"):
		status = IntentRequiresPaymentMethod
	case strings.Contains(method, "auth"):
		status = IntentRequiresAction
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	return &PaymentIntent{
		ID:            "pi_mock_" + uuid.NewString(),
		Status:        status,
		AmountMinor:   int64(math.Round(req.Amount * 100)),
		Currency:      currency,
		PaymentMethod: req.PaymentMethodID,
		ClientSecret:  "mock_secret_" + uuid.NewString(),
	}, nil
}

var testCards = []dto.TestCard{
	{ID: "pm_card_visa", Type: "Success", Description: "Always succeeds"},
	{ID: "pm_card_visa_chargeDeclined", Type: "Decline", Description: "Always declines"},
	{ID: "pm_card_authenticationRequired", Type: "3D Secure", Description: "Requires authentication"},
}

type PaymentService struct {
	payments      *repository.PaymentRepository
	registrations *repository.RegistrationRepository
	events        *repository.EventRepository
	users         *repository.UserRepository
	provider      PaymentProvider
	breaker       *circuit.Breaker
	mailer        Mailer
	publisher     events.Publisher
	currency      string
}

// PaymentDeps groups the collaborators of NewPaymentService.
type PaymentDeps struct {
	Payments      *repository.PaymentRepository
	Registrations *repository.RegistrationRepository
	Events        *repository.EventRepository
	Users         *repository.UserRepository
	Provider      PaymentProvider
	Mailer        Mailer
	Publisher     events.Publisher
}

func NewPaymentService(cfg config.PaymentConfig, deps PaymentDeps) *PaymentService {
	provider := deps.Provider
	if provider == nil {
		provider = NewMockProvider(cfg.MockDelay)
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = LogMailer{}
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}

	return &PaymentService{
		payments:      deps.Payments,
		registrations: deps.Registrations,
		events:        deps.Events,
		users:         deps.Users,
		provider:      provider,
		breaker:       circuit.NewBreaker("payment-provider", circuit.DefaultConfig()),
		mailer:        mailer,
		publisher:     publisher,
		currency:      currency,
	}
}

// Breaker exposes the provider circuit for the readiness report.
func (s *PaymentService) Breaker() *circuit.Breaker {
	return s.breaker
}

func (s *PaymentService) Config() dto.PaymentConfigResponse {
	return dto.PaymentConfigResponse{
		Provider:  s.provider.Name(),
		TestMode:  true,
		Currency:  s.currency,
		TestCards: testCards,
	}
}

// Pay charges the caller for a paid event and records the attempt. A
// declined charge returns both the response body and ErrPaymentDeclined.
func (s *PaymentService) Pay(ctx context.Context, caller Identity, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ProcessPayment")

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !event.PaymentRequired {
		return nil, apperrors.ErrEventIsFree
	}

	existing, err := s.registrations.GetByUserAndEvent(ctx, caller.ID, event.ID)
	switch {
	case err == nil && existing.PaymentStatus == constants.PaymentStatusPaid:
		return nil, apperrors.ErrAlreadyPaid
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	intent, err := s.charge(ctx, caller, event, req)
	if err != nil {
		return nil, err
	}

	txn := &model.PaymentTransaction{
		UserID:      caller.ID,
		EventID:     event.ID,
		Amount:      req.Amount,
		Status:      constants.TransactionFailed,
		Provider:    s.provider.Name(),
		ProviderRef: intent.ID,
		Metadata:    intentMetadata(intent, event),
		Event:       *event,
	}

	if intent.Status == IntentSucceeded {
		return s.recordSuccess(ctx, caller, event, txn, intent)
	}

	if err := s.payments.Record(ctx, txn); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	publish(ctx, s.publisher, constants.EventPaymentFailed, txn.ID, map[string]interface{}{
		"transactionId": txn.ID,
		"userId":        caller.ID,
		"eventId":       event.ID,
		"status":        intent.Status,
	})

	if intent.Status == IntentRequiresAction {
		logger.InfoWithContext(ctx, "Payment requires additional authentication").
			String("transaction_id", txn.ID).
			Log()
		return &dto.PaymentResponse{
			Success:        false,
			RequiresAction: true,
			Message:        "Payment requires additional authentication",
			ClientSecret:   intent.ClientSecret,
			Transaction:    toTransactionResponse(txn),
		}, nil
	}

	logger.InfoWithContext(ctx, "Payment declined").
		String("transaction_id", txn.ID).
		String("status", intent.Status).
		Log()
	return &dto.PaymentResponse{
		Success:     false,
		Message:     apperrors.ErrPaymentDeclined.Message,
		Transaction: toTransactionResponse(txn),
		Status:      intent.Status,
	}, apperrors.ErrPaymentDeclined
}

// History returns the caller's most recent transactions.
func (s *PaymentService) History(ctx context.Context, userID string) ([]dto.TransactionResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "PaymentHistory")

	txns, err := s.payments.ListByUser(ctx, userID, constants.PaymentHistoryLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, toTransactionResponse(&txns[i]))
	}
	return out, nil
}

func (s *PaymentService) charge(ctx context.Context, caller Identity, event *model.Event, req *dto.CreatePaymentRequest) (*PaymentIntent, error) {
	var intent *PaymentIntent
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		intent, err = s.provider.CreatePayment(ctx, ChargeRequest{
			Amount:          req.Amount,
			Currency:        s.currency,
			PaymentMethodID: req.PaymentMethodID,
			Metadata: map[string]string{
				"userId":     caller.ID,
				"eventId":    event.ID,
				"eventTitle": event.Title,
			},
		})
		return err
	})
	if err == nil {
		return intent, nil
	}

	if errors.Is(err, circuit.ErrCircuitOpen) || errors.Is(err, circuit.ErrTooManyRequests) {
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}
	logger.ErrorWithContext(ctx, "Payment provider call failed").
		String("provider", s.provider.Name()).
		String("event_id", event.ID).
		Err(err).
		Log()
	return nil, apperrors.WrapError(apperrors.ErrPaymentProcessing, err)
}

func (s *PaymentService) recordSuccess(ctx context.Context, caller Identity, event *model.Event, txn *model.PaymentTransaction, intent *PaymentIntent) (*dto.PaymentResponse, error) {
	txn.Status = constants.TransactionSuccess

	reg, err := s.payments.RecordSuccess(ctx, txn)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user, err := s.users.GetByID(ctx, caller.ID); err == nil {
		sendQuietly(ctx, s.mailer, RegistrationMail(user.Email, user.Username, event.Title, event.DateTime))
	} else {
		logger.WarnWithContext(ctx, "Skipping payment confirmation mail: user lookup failed").
			Err(err).
			Log()
	}

	publish(ctx, s.publisher, constants.EventPaymentSucceeded, txn.ID, map[string]interface{}{
		"transactionId":  txn.ID,
		"registrationId": reg.ID,
		"userId":         caller.ID,
		"eventId":        event.ID,
		"amount":         txn.Amount,
	})

	logger.InfoWithContext(ctx, "Payment succeeded").
		String("transaction_id", txn.ID).
		String("registration_id", reg.ID).
		Float64("amount", txn.Amount).
		Log()

	regResp := toRegistrationResponse(reg)
	return &dto.PaymentResponse{
		Success:      true,
		Message:      "Payment successful",
		Transaction:  toTransactionResponse(txn),
		Registration: &regResp,
		PaymentIntent: &dto.PaymentIntentRef{
			ID:           intent.ID,
			ClientSecret: intent.ClientSecret,
		},
	}, nil
}

func intentMetadata(intent *PaymentIntent, event *model.Event) datatypes.JSON {
	raw, err := json.Marshal(map[string]interface{}{
		"intentStatus":  intent.Status,
		"amountMinor":   intent.AmountMinor,
		"currency":      intent.Currency,
		"paymentMethod": intent.PaymentMethod,
		"eventTitle":    event.Title,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
