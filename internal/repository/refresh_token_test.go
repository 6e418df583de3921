package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         "ATTENDEE",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRefreshTokenStore_SaveAndValidate(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewRefreshTokenRepository(db, time.Hour)
	user := seedUser(t, db, "alice")
	ctx := context.Background()

	saved, err := store.Save(ctx, user.ID, "tok-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), saved.ExpiresAt, 5*time.Second)

	row, err := store.Validate(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, row.UserID)
	assert.Equal(t, "alice", row.User.Username)

	_, err = store.Validate(ctx, "unknown")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRefreshTokenStore_ValidateDeletesExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewRefreshTokenRepository(db, time.Hour)
	user := seedUser(t, db, "bob")
	ctx := context.Background()

	_, err := store.Save(ctx, user.ID, "tok-old")
	require.NoError(t, err)

	store.now = func() time.Time { return utcNow().Add(2 * time.Hour) }
	_, err = store.Validate(ctx, "tok-old")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := store.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRefreshTokenStore_RevokeIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewRefreshTokenRepository(db, time.Hour)
	user := seedUser(t, db, "carol")
	ctx := context.Background()

	_, err := store.Save(ctx, user.ID, "tok")
	require.NoError(t, err)

	n, err := store.Revoke(ctx, "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.Revoke(ctx, "tok")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRefreshTokenStore_RevokeAllOnlyTouchesOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewRefreshTokenRepository(db, time.Hour)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	for _, tok := range []string{"a1", "a2", "a3"} {
		_, err := store.Save(ctx, alice.ID, tok)
		require.NoError(t, err)
	}
	_, err := store.Save(ctx, bob.ID, "b1")
	require.NoError(t, err)

	n, err := store.RevokeAll(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = store.Validate(ctx, "b1")
	assert.NoError(t, err)
}

func TestRefreshTokenStore_RotateIsSingleUse(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewRefreshTokenRepository(db, time.Hour)
	user := seedUser(t, db, "dave")
	ctx := context.Background()

	_, err := store.Save(ctx, user.ID, "r1")
	require.NoError(t, err)

	_, err = store.Rotate(ctx, "r1", user.ID, "r2")
	require.NoError(t, err)

	_, err = store.Validate(ctx, "r1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Validate(ctx, "r2")
	assert.NoError(t, err)

	_, err = store.Rotate(ctx, "r1", user.ID, "r3")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = store.Validate(ctx, "r3")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "failed rotation must not insert")
}

func TestRefreshTokenStore_ConcurrentRotateOneWinner(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewRefreshTokenRepository(db, time.Hour)
	user := seedUser(t, db, "erin")
	ctx := context.Background()

	_, err := store.Save(ctx, user.ID, "shared")
	require.NoError(t, err)

	const racers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Rotate(ctx, "shared", user.ID, "next-"+string(rune('a'+i))); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	count, err := store.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRefreshTokenStore_DeleteExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewRefreshTokenRepository(db, time.Hour)
	user := seedUser(t, db, "frank")
	ctx := context.Background()

	_, err := store.Save(ctx, user.ID, "live")
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.RefreshToken{
		Token:     "dead",
		UserID:    user.ID,
		ExpiresAt: utcNow().Add(-time.Minute),
	}).Error)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.Validate(ctx, "live")
	assert.NoError(t, err)
}
