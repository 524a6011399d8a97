package repositories

import (
	"sync"
	"time"

	"medisight/models"
)

// ClaimRepository is the process-wide claim table. Each claim has exactly
// one owning progression task, but status reads and the payment
// cancellation path run concurrently, so all access goes through the
// table lock.
type ClaimRepository struct {
	mu     sync.RWMutex
	claims map[string]*models.ClaimRecord
}

func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{claims: make(map[string]*models.ClaimRecord)}
}

// Put stores a new claim record.
func (r *ClaimRepository) Put(claim *models.ClaimRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claims[claim.ID] = claim
}

// Snapshot returns a copy of the claim's current state, or
// ErrClaimNotFound.
func (r *ClaimRepository) Snapshot(id string) (models.ClaimRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	claim, ok := r.claims[id]
	if !ok {
		return models.ClaimRecord{}, models.ErrClaimNotFound
	}
	return *claim, nil
}

// Update applies fn to the claim under the table lock. Missing claims are
// ignored; the owning task may outlive an operator purge.
func (r *ClaimRepository) Update(id string, fn func(*models.ClaimRecord)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if claim, ok := r.claims[id]; ok {
		fn(claim)
		claim.LastUpdated = time.Now()
	}
}

// SetAdjudication records the adjudication outcome exactly once. Returns
// false if an outcome was already present.
func (r *ClaimRepository) SetAdjudication(id, result string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, ok := r.claims[id]
	if !ok || claim.AdjudicationResult != "" {
		return false
	}
	claim.AdjudicationResult = result
	claim.LastUpdated = time.Now()
	return true
}

// Analytics aggregates the claim table.
func (r *ClaimRepository) Analytics() models.ClaimAnalytics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var analytics models.ClaimAnalytics
	approved := 0
	for _, claim := range r.claims {
		analytics.TotalClaims++
		if claim.AdjudicationResult == models.AdjudicationApproved {
			approved++
		}
		switch claim.Status {
		case models.ClaimSubmitted, models.ClaimReceived, models.ClaimProcessing:
			analytics.PendingCount++
		}
		analytics.TotalPaid += claim.PaymentAmount
	}
	if analytics.TotalClaims > 0 {
		analytics.ApprovalRate = float64(approved) / float64(analytics.TotalClaims) * 100
	}
	return analytics
}
