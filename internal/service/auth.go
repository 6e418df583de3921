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
	"github.com/Payphone-Digital/eventhub/pkg/events"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService runs the session lifecycle: register, login, refresh with
// rotation, logout and logout-all.
type AuthService struct {
	users     *repository.UserRepository
	tokens    *repository.RefreshTokenRepository
	issuer    *TokenService
	publisher events.Publisher
	now       func() time.Time
}

func NewAuthService(users *repository.UserRepository, tokens *repository.RefreshTokenRepository, issuer *TokenService, publisher events.Publisher) *AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		issuer:    issuer,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")

	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	role := req.Role
	if role == "" {
		role = constants.RoleAttendee
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		logger.InfoWithContext(ctx, "Registration rejected: email or username taken").
			String("email", email).
			String("username", username).
			Log()
		return nil, apperrors.ErrUserExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if taken, lookupErr := s.users.ExistsByEmailOrUsername(ctx, email, username); lookupErr == nil && taken {
			return nil, apperrors.ErrUserExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		String("registered_user_id", user.ID).
		String("role", user.Role).
		Log()

	publish(ctx, s.publisher, constants.EventUserRegistered, user.ID, map[string]string{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	return &dto.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

// Login verifies credentials and opens a new session. Existing sessions of
// the user stay valid.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	email := normalizeEmail(req.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed: unknown email").
				String("email", email).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		logger.WarnWithContext(ctx, "Login failed: incorrect password").
			String("login_user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	identity := Identity{ID: user.ID, Role: user.Role}
	pair, err := s.issuePair(identity)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if _, err := s.tokens.Save(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last login timestamp").
			String("login_user_id", user.ID).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "User logged in").
		String("login_user_id", user.ID).
		Log()

	return &dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User: dto.AuthUser{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed; of concurrent refreshes with the same token at most one wins.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Refresh")

	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrRefreshTokenRequired
	}

	if _, err := s.issuer.VerifyRefreshToken(refreshToken); err != nil {
		logger.InfoWithContext(ctx, "Refresh rejected: token does not verify").
			Err(err).
			Log()
		return nil, apperrors.ErrInvalidRefreshToken
	}

	stored, err := s.tokens.Validate(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Refresh rejected: token not in store").Log()
			return nil, apperrors.ErrRefreshTokenRejected
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// the stored user carries the current role
	identity := Identity{ID: stored.User.ID, Role: stored.User.Role}
	pair, err := s.issuePair(identity)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if _, err := s.tokens.Rotate(ctx, refreshToken, stored.UserID, pair.RefreshToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Refresh rejected: token consumed concurrently").
				String("session_user_id", stored.UserID).
				Log()
			return nil, apperrors.ErrRefreshTokenRejected
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.DebugWithContext(ctx, "Session rotated").
		String("session_user_id", stored.UserID).
		Log()

	return pair, nil
}

// Logout revokes refreshToken, or every session of userID when it is empty.
// Revoking an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "Logout")

	if refreshToken == "" {
		_, err := s.LogoutAll(ctx, userID)
		return err
	}

	revoked, err := s.tokens.Revoke(ctx, refreshToken)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Session logged out").
		Int64("revoked", revoked).
		Log()
	return nil
}

func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LogoutAll")

	revoked, err := s.tokens.RevokeAll(ctx, userID)
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "All sessions logged out").
		Int64("revoked", revoked).
		Log()
	return revoked, nil
}

func (s *AuthService) issuePair(identity Identity) (*dto.TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefreshToken(identity)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// publish sends a domain event. Delivery problems are logged and never fail
// the calling operation.
func publish(ctx context.Context, publisher events.Publisher, eventType, key string, payload interface{}) {
	if err := publisher.PublishEvent(ctx, eventType, key, payload); err != nil {
		logger.WarnWithContext(ctx, "Failed to publish domain event").
			String("event_type", eventType).
			Err(err).
			Log()
	}
}
