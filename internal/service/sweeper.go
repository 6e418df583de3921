package service

import (
	"context"
	"sync"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/repository"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
)

// TokenSweeper periodically deletes expired refresh tokens. A failed sweep
// is logged and retried on the next tick.
type TokenSweeper struct {
	tokens   *repository.RefreshTokenRepository
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewTokenSweeper(tokens *repository.RefreshTokenRepository, interval time.Duration) *TokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenSweeper{tokens: tokens, interval: interval}
}

// Start runs the sweep loop until ctx is canceled or Stop is called.
func (s *TokenSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx)

	logger.Info("Refresh token sweeper started").
		String("interval", s.interval.String()).
		Log()
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *TokenSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	logger.Info("Refresh token sweeper stopped").Log()
}

func (s *TokenSweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce deletes expired tokens and returns how many were removed.
func (s *TokenSweeper) SweepOnce(ctx context.Context) int64 {
	start := time.Now()
	removed, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		logger.Error("Refresh token sweep failed").
			Err(err).
			Log()
		return 0
	}

	logger.Info("Refresh token sweep completed").
		Int64("removed", removed).
		Duration(time.Since(start)).
		Log()
	return removed
}
