package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, f *fixture, email string) *dto.LoginResponse {
	t.Helper()
	resp, err := f.auth.Login(context.Background(), &dto.LoginRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	return resp
}

func TestAuthService_RegisterDefaultsAndDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &dto.RegisterRequest{
		Username: "alice",
		Email:    "  Alice@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAttendee, resp.Role)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, []string{constants.EventUserRegistered}, f.publisher.Types())

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
	assert.Equal(t, 409, apperrors.ToHTTPStatus(err))

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)

	var count int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored model.User
	require.NoError(t, f.db.First(&stored, "id = ?", resp.ID).Error)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestAuthService_LoginIdentityMatchesUser(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)

	resp := login(t, f, "OLGA@example.com")
	assert.Equal(t, organizer.ID, resp.User.ID)
	assert.Equal(t, constants.RoleOrganizer, resp.User.Role)

	id, err := f.issuer.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, organizer, id)

	var stored model.User
	require.NoError(t, f.db.First(&stored, "id = ?", organizer.ID).Error)
	assert.NotNil(t, stored.LastLogin)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.user(t, "bob", "")
	ctx := context.Background()

	_, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, 401, apperrors.ToHTTPStatus(err))
}

func TestAuthService_RefreshIsSingleUse(t *testing.T) {
	f := newFixture(t)
	f.user(t, "carol", "")
	ctx := context.Background()
	session := login(t, f, "carol@example.com")

	pair, err := f.auth.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, pair.RefreshToken)

	_, err = f.auth.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRejected)

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_RefreshValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRequired)
	assert.Equal(t, 400, apperrors.ToHTTPStatus(err))

	_, err = f.auth.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	// signed correctly but never stored
	orphan, err := f.issuer.IssueRefreshToken(Identity{ID: "ghost", Role: constants.RoleAttendee})
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, orphan)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRejected)
}

func TestAuthService_ConcurrentRefreshOneWins(t *testing.T) {
	f := newFixture(t)
	f.user(t, "dave", "")
	session := login(t, f, "dave@example.com")

	const attempts = 5
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.auth.Refresh(context.Background(), session.RefreshToken); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestAuthService_LogoutAndLogoutAll(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "erin", "")
	ctx := context.Background()

	first := login(t, f, "erin@example.com")
	second := login(t, f, "erin@example.com")
	third := login(t, f, "erin@example.com")

	require.NoError(t, f.auth.Logout(ctx, user.ID, first.RefreshToken))
	_, err := f.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRejected)

	// revoking twice is fine
	require.NoError(t, f.auth.Logout(ctx, user.ID, first.RefreshToken))

	revoked, err := f.auth.LogoutAll(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, revoked)

	for _, s := range []*dto.LoginResponse{second, third} {
		_, err := f.auth.Refresh(ctx, s.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRejected)
	}

	// access tokens stay valid until they expire
	_, err = f.issuer.VerifyAccessToken(second.AccessToken)
	assert.NoError(t, err)
}

func TestAuthService_LogoutWithoutTokenEndsEverySession(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "frank", "")
	ctx := context.Background()
	session := login(t, f, "frank@example.com")

	require.NoError(t, f.auth.Logout(ctx, user.ID, ""))
	_, err := f.auth.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRejected)
}
