package repositories

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"medisight/models"
)

func newFollowUpRecord(invoiceID string, category models.FollowUpCategory) *models.FollowUpRecord {
	return &models.FollowUpRecord{
		ID:        models.FollowUpKey(invoiceID, category),
		InvoiceID: invoiceID,
		Category:  category,
		Status:    models.FollowUpScheduled,
	}
}

func TestPutSupersedesScheduledPredecessor(t *testing.T) {
	repo := NewFollowUpRepository()

	first := newFollowUpRecord("INV-1001", models.FollowUpGentle)
	cancelled := false
	first.Cancel = func() { cancelled = true }
	repo.Put(first)

	second := newFollowUpRecord("INV-1001", models.FollowUpGentle)
	repo.Put(second)

	require.True(t, cancelled)
	require.Equal(t, models.FollowUpCancelled, first.Status)
	require.NotNil(t, first.CancelledAt)

	current, err := repo.Get(second.ID)
	require.NoError(t, err)
	require.Same(t, second, current)
}

func TestPutLeavesExecutedPredecessorAlone(t *testing.T) {
	repo := NewFollowUpRepository()

	first := newFollowUpRecord("INV-1001", models.FollowUpGentle)
	repo.Put(first)
	repo.MarkExecuted(first.ID)

	repo.Put(newFollowUpRecord("INV-1001", models.FollowUpGentle))
	require.Equal(t, models.FollowUpExecuted, first.Status)
}

func TestMarkExecutedCancellationWins(t *testing.T) {
	repo := NewFollowUpRepository()

	record := newFollowUpRecord("INV-1001", models.FollowUpFirm)
	repo.Put(record)
	repo.CancelForInvoice("INV-1001")

	repo.MarkExecuted(record.ID)
	require.Equal(t, models.FollowUpCancelled, record.Status)
	require.Nil(t, record.ExecutedAt)
}

func TestCancelForInvoice(t *testing.T) {
	repo := NewFollowUpRepository()

	scheduled := newFollowUpRecord("INV-1001", models.FollowUpGentle)
	repo.Put(scheduled)

	executed := newFollowUpRecord("INV-1001", models.FollowUpFirm)
	executedSideEffect := false
	repo.Put(executed)
	repo.SetCancel(executed.ID, func() { executedSideEffect = true })
	repo.MarkExecuted(executed.ID)

	other := newFollowUpRecord("INV-2002", models.FollowUpGentle)
	repo.Put(other)

	cancelled := repo.CancelForInvoice("INV-1001")
	require.Equal(t, []string{scheduled.ID}, cancelled)

	require.Equal(t, models.FollowUpCancelled, scheduled.Status)
	// Executed records keep their status but pending side effects stop.
	require.Equal(t, models.FollowUpExecuted, executed.Status)
	require.True(t, executedSideEffect)
	require.Equal(t, models.FollowUpScheduled, other.Status)
}

func TestConcurrentPutsKeepOneActiveRecordPerKey(t *testing.T) {
	repo := NewFollowUpRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Put(newFollowUpRecord("INV-1001", models.FollowUpGentle))
		}()
	}
	wg.Wait()

	record, err := repo.Get(models.FollowUpKey("INV-1001", models.FollowUpGentle))
	require.NoError(t, err)
	require.Equal(t, models.FollowUpScheduled, record.Status)

	analytics := repo.Analytics()
	require.Equal(t, 1, analytics.Total)
}

func TestAnalytics(t *testing.T) {
	repo := NewFollowUpRepository()

	for i, category := range []models.FollowUpCategory{
		models.FollowUpGentle, models.FollowUpFirm, models.FollowUpCollections,
	} {
		record := newFollowUpRecord(fmt.Sprintf("INV-%d", i), category)
		repo.Put(record)
		repo.MarkExecuted(record.ID)
	}
	repo.SetCollectionsCase(models.FollowUpKey("INV-2", models.FollowUpCollections), "COL-1")

	analytics := repo.Analytics()
	require.Equal(t, 3, analytics.Total)
	require.Equal(t, 3, analytics.Executed)
	require.Equal(t, 0, analytics.Cancelled)
	require.Equal(t, 1, analytics.SentToCollections)
	require.Equal(t, 1, analytics.ByCategory[models.FollowUpFirm])
}

func TestGetUnknownRecord(t *testing.T) {
	repo := NewFollowUpRepository()
	_, err := repo.Get("BF-missing-gentle")
	require.ErrorIs(t, err, models.ErrFollowUpNotFound)
}
