package repository

import (
	"context"
	"errors"
	"time"

	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

// Sentinel errors for conditions a plain gorm error cannot express.
var (
	ErrAlreadyExists   = errors.New("repository: row already exists")
	ErrCapacityReached = errors.New("repository: capacity reached")
)

func withFunction(ctx context.Context, function string) context.Context {
	return ctxutil.WithFunction(ctx, "repository", function)
}

// logQuery reports a finished query. Missing rows are expected and only
// logged at debug level.
func logQuery(ctx context.Context, operation string, start time.Time, err error) {
	duration := time.Since(start)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) &&
		!errors.Is(err, ErrAlreadyExists) && !errors.Is(err, ErrCapacityReached) {
		logger.ErrorWithContext(ctx, "Query failed").
			String("operation", operation).
			Duration(duration).
			Err(err).
			Log()
		return
	}
	logger.DebugWithContext(ctx, "Query finished").
		String("operation", operation).
		Duration(duration).
		Err(err).
		Log()
}

// utcNow matches the UTC timestamps gorm writes.
func utcNow() time.Time {
	return time.Now().UTC()
}
