package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/eventhub/config"
	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	"github.com/Payphone-Digital/eventhub/internal/testutil"
	"github.com/Payphone-Digital/eventhub/pkg/cache"
	"github.com/Payphone-Digital/eventhub/pkg/events"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []Mail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) Sent() []Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Mail(nil), m.sent...)
}

type fixture struct {
	db        *gorm.DB
	publisher *events.MemoryPublisher
	mailer    *recordingMailer
	store     *cache.Cache

	users         *repository.UserRepository
	tokens        *repository.RefreshTokenRepository
	eventRepo     *repository.EventRepository
	categories    *repository.CategoryRepository
	registrations *repository.RegistrationRepository
	payments      *repository.PaymentRepository
	notifications *repository.NotificationRepository

	issuer       *TokenService
	auth         *AuthService
	eventSvc     *EventService
	categorySvc  *CategoryService
	registerSvc  *RegistrationService
	paymentSvc   *PaymentService
	notifySvc    *NotificationService
	profileSvc   *ProfileService
	analyticsSvc *AnalyticsService
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:     "access-secret-for-tests",
		RefreshSecret:    "refresh-secret-for-tests",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 30 * 24 * time.Hour,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	f := &fixture{
		db:            db,
		publisher:     &events.MemoryPublisher{},
		mailer:        &recordingMailer{},
		store:         cache.NewCache(),
		users:         repository.NewUserRepository(db),
		eventRepo:     repository.NewEventRepository(db),
		categories:    repository.NewCategoryRepository(db),
		registrations: repository.NewRegistrationRepository(db),
		payments:      repository.NewPaymentRepository(db),
		notifications: repository.NewNotificationRepository(db),
	}
	f.issuer = NewTokenService(testJWTConfig())
	f.tokens = repository.NewRefreshTokenRepository(db, f.issuer.RefreshTTL())

	cacheSvc := NewCacheService(f.store, time.Minute)
	f.auth = NewAuthService(f.users, f.tokens, f.issuer, f.publisher)
	f.eventSvc = NewEventService(f.eventRepo, f.categories, f.registrations, cacheSvc)
	f.categorySvc = NewCategoryService(f.categories, cacheSvc)
	f.registerSvc = NewRegistrationService(f.registrations, f.eventRepo, f.users, f.mailer, f.publisher)
	f.paymentSvc = NewPaymentService(config.PaymentConfig{Provider: "mock", Currency: "usd"}, PaymentDeps{
		Payments:      f.payments,
		Registrations: f.registrations,
		Events:        f.eventRepo,
		Users:         f.users,
		Provider:      NewMockProvider(0),
		Mailer:        f.mailer,
		Publisher:     f.publisher,
	})
	f.notifySvc = NewNotificationService(f.notifications, f.registrations, f.eventRepo, f.mailer, f.publisher)
	f.profileSvc = NewProfileService(f.users, f.eventRepo, f.registrations, f.notifications, f.tokens)
	f.analyticsSvc = NewAnalyticsService(f.users, f.eventRepo, f.registrations)

	t.Cleanup(f.store.Close)
	return f
}

// user registers username with password "secret1" and returns its identity.
func (f *fixture) user(t *testing.T, username, role string) Identity {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
		Role:     role,
	})
	require.NoError(t, err)
	return Identity{ID: resp.ID, Role: resp.Role}
}

func (f *fixture) category(t *testing.T, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) event(t *testing.T, organizer Identity, categoryID string, capacity int, paid bool) *dto.EventResponse {
	t.Helper()
	resp, err := f.eventSvc.Create(context.Background(), organizer, &dto.CreateEventRequest{
		Title:           "Go meetup",
		Description:     "An evening of talks about Go.",
		DateTime:        time.Now().Add(72 * time.Hour),
		Location:        "Berlin",
		MaxAttendees:    capacity,
		CategoryID:      categoryID,
		PaymentRequired: paid,
	})
	require.NoError(t, err)
	require.Equal(t, constants.EventStatusScheduled, resp.Status)
	return resp
}
