package service

import (
	"context"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"golang.org/x/sync/errgroup"
)

type AnalyticsService struct {
	users         *repository.UserRepository
	events        *repository.EventRepository
	registrations *repository.RegistrationRepository
}

func NewAnalyticsService(users *repository.UserRepository, eventRepo *repository.EventRepository, registrations *repository.RegistrationRepository) *AnalyticsService {
	return &AnalyticsService{users: users, events: eventRepo, registrations: registrations}
}

// Dashboard counts events, users and registrations for admins, and only
// the caller's events and their registrations for organizers.
func (s *AnalyticsService) Dashboard(ctx context.Context, caller Identity) (*dto.DashboardResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Dashboard")

	scope := caller.ID
	if caller.Role == constants.RoleAdmin {
		scope = ""
	}

	resp := &dto.DashboardResponse{Role: caller.Role}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.events.Count(gctx, scope)
		resp.EventsCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.registrations.Count(gctx, scope)
		resp.RegistrationsCount = n
		return err
	})
	if scope == "" {
		g.Go(func() error {
			n, err := s.users.Count(gctx)
			resp.UsersCount = &n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return resp, nil
}
