package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/model"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Record stores a payment attempt that did not complete.
func (r *PaymentRepository) Record(ctx context.Context, txn *model.PaymentTransaction) error {
	ctx = withFunction(ctx, "RecordPayment")
	start := time.Now()
	err := r.db.WithContext(ctx).Omit("Event").Create(txn).Error
	logQuery(ctx, "payment_transactions.create", start, err)
	return err
}

// RecordSuccess stores a successful transaction and marks the payer's
// registration PAID, creating it when missing, in one transaction.
func (r *PaymentRepository) RecordSuccess(ctx context.Context, txn *model.PaymentTransaction) (*model.Registration, error) {
	ctx = withFunction(ctx, "RecordPaymentSuccess")
	start := time.Now()

	var reg *model.Registration
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Event").Create(txn).Error; err != nil {
			return err
		}
		var err error
		reg, err = markPaid(tx, txn.UserID, txn.EventID)
		return err
	})
	logQuery(ctx, "payment_transactions.create_success", start, err)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// ListByUser returns the latest limit transactions of userID with their events.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.PaymentTransaction, error) {
	ctx = withFunction(ctx, "ListPaymentsByUser")
	start := time.Now()

	var txns []model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Preload("Event", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "date_time", "location")
		}).
		Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Limit(limit).
		Find(&txns).Error
	logQuery(ctx, "payment_transactions.list_user", start, err)
	return txns, err
}
