package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	UserID      string    `gorm:"column:user_id;type:varchar(36);not null;index"`
	OrganizerID string    `gorm:"column:organizer_id;type:varchar(36);not null"`
	EventID     string    `gorm:"column:event_id;type:varchar(36);not null;index"`
	Event       Event     `gorm:"foreignKey:EventID"`
	Message     string    `gorm:"column:message;type:text;not null"`
	IsRead      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
