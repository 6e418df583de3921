package service

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSweeper_SweepOnce(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "")
	ctx := context.Background()

	require.NoError(t, f.db.Omit("User").Create(&model.RefreshToken{
		Token: "stale", UserID: alice.ID, ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}).Error)
	live := login(t, f, "alice@example.com")

	sweeper := NewTokenSweeper(f.tokens, time.Hour)
	assert.EqualValues(t, 1, sweeper.SweepOnce(ctx))
	assert.Zero(t, sweeper.SweepOnce(ctx))

	_, err := f.auth.Refresh(ctx, live.RefreshToken)
	assert.NoError(t, err, "live sessions survive the sweep")
}

func TestTokenSweeper_StartStop(t *testing.T) {
	f := newFixture(t)
	sweeper := NewTokenSweeper(f.tokens, 5*time.Millisecond)

	sweeper.Start(context.Background())
	sweeper.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	sweeper.Stop()
	sweeper.Stop()
}
