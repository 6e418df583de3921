package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshToken is one live session. A row is consumed (deleted) when the
// token is rotated, revoked or found expired.
type RefreshToken struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Token     string    `gorm:"column:token;type:varchar(1024);uniqueIndex;not null"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;index"`
	User      User      `gorm:"foreignKey:UserID"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the row is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
