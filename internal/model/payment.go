package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentTransaction records every payment attempt, successful or not.
type PaymentTransaction struct {
	ID              string         `gorm:"type:varchar(36);primaryKey"`
	UserID          string         `gorm:"column:user_id;type:varchar(36);not null;index"`
	EventID         string         `gorm:"column:event_id;type:varchar(36);not null;index"`
	Event           Event          `gorm:"foreignKey:EventID"`
	Amount          float64        `gorm:"column:amount;type:numeric(10,2);not null"`
	Status          string         `gorm:"column:status;type:varchar(20);not null"`
	Provider        string         `gorm:"column:provider;type:varchar(50);not null"`
	ProviderRef     string         `gorm:"column:provider_ref;type:varchar(255)"`
	Metadata        datatypes.JSON `gorm:"column:metadata"`
	TransactionDate time.Time      `gorm:"column:transaction_date;not null;index"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }

func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.TransactionDate.IsZero() {
		p.TransactionDate = time.Now()
	}
	return nil
}
