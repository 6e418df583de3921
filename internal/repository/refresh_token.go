package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

// RefreshTokenRepository is the persistent refresh-token store. Each row is
// one session; consuming a token deletes its row.
type RefreshTokenRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewRefreshTokenRepository(db *gorm.DB, ttl time.Duration) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db, ttl: ttl, now: utcNow}
}

// Save stores token for userID, expiring one refresh lifetime from now.
func (r *RefreshTokenRepository) Save(ctx context.Context, userID, token string) (*model.RefreshToken, error) {
	ctx = withFunction(ctx, "SaveRefreshToken")
	start := time.Now()

	row := &model.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: r.now().Add(r.ttl),
	}
	err := r.db.WithContext(ctx).Create(row).Error
	logQuery(ctx, "refresh_tokens.create", start, err)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Validate returns the stored row with its user. Unknown and expired tokens
// yield gorm.ErrRecordNotFound; an expired row is deleted on the way out.
func (r *RefreshTokenRepository) Validate(ctx context.Context, token string) (*model.RefreshToken, error) {
	ctx = withFunction(ctx, "ValidateRefreshToken")
	start := time.Now()

	var row model.RefreshToken
	err := r.db.WithContext(ctx).Preload("User").Where("token = ?", token).First(&row).Error
	logQuery(ctx, "refresh_tokens.find", start, err)
	if err != nil {
		return nil, err
	}

	if row.Expired(r.now()) {
		if err := r.db.WithContext(ctx).Delete(&model.RefreshToken{}, "id = ?", row.ID).Error; err != nil {
			logger.WarnWithContext(ctx, "Failed to delete expired refresh token").
				String("user_id", row.UserID).
				Err(err).
				Log()
		}
		return nil, gorm.ErrRecordNotFound
	}

	return &row, nil
}

// Revoke deletes token if present. Revoking twice is not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) (int64, error) {
	ctx = withFunction(ctx, "RevokeRefreshToken")
	start := time.Now()

	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.RefreshToken{})
	logQuery(ctx, "refresh_tokens.delete", start, result.Error)
	return result.RowsAffected, result.Error
}

// RevokeAll deletes every session of userID.
func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, userID string) (int64, error) {
	ctx = withFunction(ctx, "RevokeAllRefreshTokens")
	start := time.Now()

	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	logQuery(ctx, "refresh_tokens.delete_user", start, result.Error)
	if result.Error == nil {
		logger.InfoWithContext(ctx, "Refresh tokens revoked").
			String("target_user_id", userID).
			Int64("count", result.RowsAffected).
			Log()
	}
	return result.RowsAffected, result.Error
}

// Rotate replaces oldToken with newToken in one transaction. The delete must
// hit exactly one row, so of two concurrent rotations of the same token only
// one succeeds; the loser gets gorm.ErrRecordNotFound.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken, userID, newToken string) (*model.RefreshToken, error) {
	ctx = withFunction(ctx, "RotateRefreshToken")
	start := time.Now()

	row := &model.RefreshToken{
		Token:     newToken,
		UserID:    userID,
		ExpiresAt: r.now().Add(r.ttl),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("token = ? AND user_id = ?", oldToken, userID).Delete(&model.RefreshToken{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(row).Error
	})
	logQuery(ctx, "refresh_tokens.rotate", start, err)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteExpired removes rows whose expiry has passed.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx = withFunction(ctx, "DeleteExpiredRefreshTokens")
	start := time.Now()

	result := r.db.WithContext(ctx).Where("expires_at < ?", r.now()).Delete(&model.RefreshToken{})
	logQuery(ctx, "refresh_tokens.delete_expired", start, result.Error)
	return result.RowsAffected, result.Error
}

// CountByUser reports the number of live rows for userID.
func (r *RefreshTokenRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(withFunction(ctx, "CountRefreshTokens")).
		Model(&model.RefreshToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
