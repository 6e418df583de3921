package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

type ProfileService struct {
	users         *repository.UserRepository
	events        *repository.EventRepository
	registrations *repository.RegistrationRepository
	notifications *repository.NotificationRepository
	tokens        *repository.RefreshTokenRepository
}

func NewProfileService(users *repository.UserRepository, eventRepo *repository.EventRepository, registrations *repository.RegistrationRepository, notifications *repository.NotificationRepository, tokens *repository.RefreshTokenRepository) *ProfileService {
	return &ProfileService{
		users:         users,
		events:        eventRepo,
		registrations: registrations,
		notifications: notifications,
		tokens:        tokens,
	}
}

// Me returns the caller's private profile with organized-event,
// registration and unread-notification counts.
func (s *ProfileService) Me(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetMyProfile")

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	organized, err := s.events.Count(ctx, user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	registrations, err := s.registrations.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	unread, err := s.notifications.CountUnread(ctx, user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := privateProfile(user)
	resp.Counts = &dto.ProfileCounts{OrganizedEvents: organized, Registrations: registrations, Unread: unread}
	return resp, nil
}

// Public returns the profile visible to anyone. Organizers also list their
// next scheduled events.
func (s *ProfileService) Public(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetPublicProfile")

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	organized, err := s.events.Count(ctx, user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := &dto.ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		FullName:  user.FullName,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Location:  user.Location,
		Website:   user.Website,
		Counts:    &dto.ProfileCounts{OrganizedEvents: organized},
		CreatedAt: user.CreatedAt,
	}

	if user.IsOrganizer() {
		upcoming, err := s.events.UpcomingByOrganizer(ctx, user.ID, constants.UpcomingEventsLimit)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		resp.UpcomingEvents = make([]dto.EventSummary, 0, len(upcoming))
		for i := range upcoming {
			resp.UpcomingEvents = append(resp.UpcomingEvents, *toEventSummary(&upcoming[i]))
		}
	}
	return resp, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "UpdateProfile")

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Website != nil {
		updates["website"] = strings.TrimSpace(*req.Website)
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		username := strings.TrimSpace(*req.Username)
		taken, err := s.users.UsernameTaken(ctx, username, userID)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if taken {
			return nil, apperrors.ErrUsernameTaken
		}
		updates["username"] = username
	}

	user, err := s.users.UpdateProfile(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Profile updated").
		Int("fields", len(updates)).
		Log()

	return privateProfile(user), nil
}

// ChangePassword replaces the password after checking the current one and
// ends every other session.
func (s *ProfileService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithFunction(ctx, "service", "ChangePassword")

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, req.CurrentPassword) {
		logger.WarnWithContext(ctx, "Password change rejected: current password mismatch").Log()
		return apperrors.ErrIncorrectPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	revoked, err := s.tokens.RevokeAll(ctx, user.ID)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to revoke sessions after password change").
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "Password changed").
		Int64("sessions_revoked", revoked).
		Log()
	return nil
}

// DeleteAccount removes the caller and all their data once the password
// is confirmed.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID, password string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteAccount")

	if password == "" {
		return apperrors.ErrPasswordRequired
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, password) {
		return apperrors.ErrInvalidPassword
	}

	if err := s.users.DeleteCascade(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Account deleted").
		String("deleted_user_id", user.ID).
		Log()
	return nil
}

func (s *ProfileService) load(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

func privateProfile(u *model.User) *dto.ProfileResponse {
	updated := u.UpdatedAt
	return &dto.ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FullName:  u.FullName,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Phone:     u.Phone,
		Location:  u.Location,
		Website:   u.Website,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: &updated,
	}
}
