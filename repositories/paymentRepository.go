package repositories

import (
	"context"
	"fmt"

	"medisight/database"
	"medisight/models"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// Record writes a transaction row for a gateway charge.
func (r *PaymentRepository) Record(ctx context.Context, txn *models.PaymentTransaction) error {
	if err := database.DB.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to record payment transaction: %w", err)
	}
	return nil
}
