package database

import (
	"context"

	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

// supplementaryIndexes cover the list and dashboard queries. They use
// Postgres-only syntax (partial and descending indexes).
var supplementaryIndexes = []string{
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_events_status_date ON events(status, date_time);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_events_organizer_upcoming ON events(organizer_id, date_time) WHERE status = 'SCHEDULED';",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_events_created_desc ON events(created_at DESC);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_registrations_user_created ON registrations(user_id, created_at DESC);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_payment_transactions_user_date ON payment_transactions(user_id, transaction_date DESC);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC);",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE is_read = false;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_users_email_lower ON users(LOWER(email));",
}

// EnsureIndexes creates the supplementary indexes. Failures are logged and
// skipped; other dialects are left alone.
func EnsureIndexes(ctx context.Context, db *gorm.DB) int {
	if db.Dialector.Name() != "postgres" {
		logger.DebugWithContext(ctx, "Skipping supplementary indexes").
			String("dialect", db.Dialector.Name()).
			Log()
		return 0
	}

	created := 0
	for _, indexSQL := range supplementaryIndexes {
		if err := db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			logger.WarnWithContext(ctx, "Failed to create index").
				String("sql", indexSQL).
				Err(err).
				Log()
			continue
		}
		created++
	}

	logger.InfoWithContext(ctx, "Supplementary indexes ensured").
		Int("created", created).
		Int("total", len(supplementaryIndexes)).
		Log()
	return created
}
