package repositories

import (
	"sync"
	"time"

	"medisight/models"
)

// FollowUpRepository is the process-wide follow-up table. Records live in
// memory for the life of the process; every read-modify-write happens
// under the table lock so concurrent schedulers cannot lose updates.
type FollowUpRepository struct {
	mu      sync.RWMutex
	records map[string]*models.FollowUpRecord
}

func NewFollowUpRepository() *FollowUpRepository {
	return &FollowUpRepository{records: make(map[string]*models.FollowUpRecord)}
}

// Put inserts a record under its (invoice, category) key. If an earlier
// record for the same key is still scheduled, the new one supersedes it:
// the old record is cancelled and its pending side effects stopped. This
// keeps at most one active record per key.
func (r *FollowUpRepository) Put(record *models.FollowUpRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.records[record.ID]; ok && prev.Status == models.FollowUpScheduled {
		now := time.Now()
		prev.Status = models.FollowUpCancelled
		prev.CancelledAt = &now
		if prev.Cancel != nil {
			prev.Cancel()
		}
	}
	r.records[record.ID] = record
}

// Get returns the record for a key, or ErrFollowUpNotFound.
func (r *FollowUpRepository) Get(id string) (*models.FollowUpRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, models.ErrFollowUpNotFound
	}
	return record, nil
}

// MarkExecuted stamps a record executed. Cancellation wins: a record
// cancelled while its action was in flight stays cancelled.
func (r *FollowUpRepository) MarkExecuted(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.Status != models.FollowUpScheduled {
		return
	}
	now := time.Now()
	record.Status = models.FollowUpExecuted
	record.ExecutedAt = &now
}

// SetCancel attaches the cancellation handle for a record's pending side
// effect. Done under the table lock so a concurrent payment cancellation
// observes it.
func (r *FollowUpRepository) SetCancel(id string, cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record, ok := r.records[id]; ok {
		record.Cancel = cancel
	}
}

// SetCollectionsCase stamps the collections case id on a record.
func (r *FollowUpRepository) SetCollectionsCase(id, caseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record, ok := r.records[id]; ok {
		record.CollectionsCaseID = caseID
	}
}

// CancelForInvoice cancels every still-scheduled record for an invoice and
// stops their pending side effects. Executed records are untouched.
// Returns the ids of the records it cancelled.
func (r *FollowUpRepository) CancelForInvoice(invoiceID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cancelled []string
	now := time.Now()
	for id, record := range r.records {
		if record.InvoiceID != invoiceID {
			continue
		}
		// Pending side effects (the queued courtesy call) stop even for
		// records that already executed.
		if record.Cancel != nil {
			record.Cancel()
		}
		if record.Status != models.FollowUpScheduled {
			continue
		}
		record.Status = models.FollowUpCancelled
		record.CancelledAt = &now
		cancelled = append(cancelled, id)
	}
	return cancelled
}

// Analytics aggregates the follow-up table.
func (r *FollowUpRepository) Analytics() models.FollowUpAnalytics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analytics := models.FollowUpAnalytics{
		ByCategory: make(map[models.FollowUpCategory]int),
	}
	for _, record := range r.records {
		analytics.Total++
		analytics.ByCategory[record.Category]++
		switch record.Status {
		case models.FollowUpExecuted:
			analytics.Executed++
		case models.FollowUpCancelled:
			analytics.Cancelled++
		}
		if record.CollectionsCaseID != "" {
			analytics.SentToCollections++
		}
	}
	return analytics
}

// Snapshot returns a copy of a record's current state for API responses.
func (r *FollowUpRepository) Snapshot(id string) (models.FollowUpRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return models.FollowUpRecord{}, models.ErrFollowUpNotFound
	}
	return *record, nil
}
