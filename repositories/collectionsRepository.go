package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"medisight/database"
	"medisight/models"
	"medisight/utils"

	"github.com/google/uuid"
)

type CollectionsRepository struct{}

func NewCollectionsRepository() *CollectionsRepository {
	return &CollectionsRepository{}
}

// CreateCase opens a collections case for an overdue invoice. A redis lock
// on the invoice keeps two escalations from opening duplicate cases when
// multiple instances run the tracker.
func (r *CollectionsRepository) CreateCase(ctx context.Context, invoiceID string, amount float64) (string, error) {
	lockKey := fmt.Sprintf("collections_lock:%s", invoiceID)
	lockValue := uuid.New().String()

	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return "", fmt.Errorf("failed to acquire collections lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release collections lock: %v", err)
		}
	}()

	var existing models.CollectionsCase
	if err := database.DB.WithContext(ctx).First(&existing, "invoice_id = ?", invoiceID).Error; err == nil {
		return existing.CaseID, nil
	}

	caseRecord := models.CollectionsCase{
		CaseID:    utils.NewCollectionsCaseID(),
		InvoiceID: invoiceID,
		Amount:    amount,
	}
	if err := database.DB.WithContext(ctx).Create(&caseRecord).Error; err != nil {
		return "", fmt.Errorf("failed to create collections case: %w", err)
	}
	return caseRecord.CaseID, nil
}
