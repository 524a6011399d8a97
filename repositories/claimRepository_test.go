package repositories

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"medisight/models"
)

func TestClaimSnapshotIsACopy(t *testing.T) {
	repo := NewClaimRepository()
	repo.Put(&models.ClaimRecord{ID: "CLM-1", Status: models.ClaimSubmitted})

	snapshot, err := repo.Snapshot("CLM-1")
	require.NoError(t, err)

	snapshot.Status = models.ClaimPaid
	current, err := repo.Snapshot("CLM-1")
	require.NoError(t, err)
	require.Equal(t, models.ClaimSubmitted, current.Status)
}

func TestClaimSnapshotUnknown(t *testing.T) {
	repo := NewClaimRepository()
	_, err := repo.Snapshot("CLM-missing")
	require.ErrorIs(t, err, models.ErrClaimNotFound)
}

func TestSetAdjudicationExactlyOnce(t *testing.T) {
	repo := NewClaimRepository()
	repo.Put(&models.ClaimRecord{ID: "CLM-1", Status: models.ClaimAdjudicated})

	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		result := models.AdjudicationApproved
		if i%2 == 0 {
			result = models.AdjudicationDenied
		}
		wg.Add(1)
		go func(result string) {
			defer wg.Done()
			if repo.SetAdjudication("CLM-1", result) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(result)
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	claim, err := repo.Snapshot("CLM-1")
	require.NoError(t, err)
	require.NotEmpty(t, claim.AdjudicationResult)
}

func TestClaimAnalytics(t *testing.T) {
	repo := NewClaimRepository()
	repo.Put(&models.ClaimRecord{ID: "CLM-1", Status: models.ClaimPaid, AdjudicationResult: models.AdjudicationApproved, PaymentAmount: 400})
	repo.Put(&models.ClaimRecord{ID: "CLM-2", Status: models.ClaimAdjudicated, AdjudicationResult: models.AdjudicationDenied})
	repo.Put(&models.ClaimRecord{ID: "CLM-3", Status: models.ClaimProcessing})
	repo.Put(&models.ClaimRecord{ID: "CLM-4", Status: models.ClaimSubmitted})

	analytics := repo.Analytics()
	require.Equal(t, 4, analytics.TotalClaims)
	require.Equal(t, 25.0, analytics.ApprovalRate)
	require.Equal(t, 2, analytics.PendingCount)
	require.Equal(t, 400.0, analytics.TotalPaid)
}
