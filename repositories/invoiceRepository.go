package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"medisight/cache"
	"medisight/database"
	"medisight/models"

	"gorm.io/gorm"
)

const (
	InvoiceCacheExpiry = 24 * time.Hour
)

type InvoiceRepository struct {
	cache *cache.Cache
}

func NewInvoiceRepository(cache *cache.Cache) *InvoiceRepository {
	return &InvoiceRepository{cache: cache}
}

// GetByID fetches one invoice, read-through cached.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getInvoiceCacheKey(id)
	cachedInvoice, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedInvoice != "" {
		var invoice models.Invoice
		if err := json.Unmarshal([]byte(cachedInvoice), &invoice); err == nil {
			return &invoice, nil
		}
	} else if err != nil {
		log.Printf("Failed to get invoice from cache: %v", err)
	}

	var invoice models.Invoice
	if err := database.DB.WithContext(ctx).First(&invoice, "invoice_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	invoiceJSON, err := json.Marshal(invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, invoiceJSON, InvoiceCacheExpiry); err != nil {
		log.Printf("Failed to set invoice in cache: %v", err)
	}

	return &invoice, nil
}

// Create inserts an invoice and drops its stale cache entry.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if err := database.DB.WithContext(ctx).Create(invoice).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getInvoiceCacheKey(invoice.InvoiceID)); err != nil {
		log.Printf("Failed to delete invoice cache: %v", err)
	}
	return nil
}

func (r *InvoiceRepository) getInvoiceCacheKey(id string) string {
	return fmt.Sprintf("invoice_cache:%s", id)
}
