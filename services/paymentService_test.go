package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"medisight/models"
	"medisight/repositories"
)

type fakeTransactionRecorder struct {
	recorded []*models.PaymentTransaction
}

func (f *fakeTransactionRecorder) Record(_ context.Context, txn *models.PaymentTransaction) error {
	f.recorded = append(f.recorded, txn)
	return nil
}

type decliningGateway struct{}

func (decliningGateway) Charge(_ context.Context, _ string, req models.PaymentRequest) (*models.PaymentResult, error) {
	return &models.PaymentResult{Status: "declined", Amount: req.Amount}, nil
}

func TestProcessPaymentCancelsScheduledFollowUps(t *testing.T) {
	followups := repositories.NewFollowUpRepository()
	followups.Put(&models.FollowUpRecord{
		ID:        models.FollowUpKey("INV-1001", models.FollowUpGentle),
		InvoiceID: "INV-1001",
		Category:  models.FollowUpGentle,
		Status:    models.FollowUpScheduled,
	})

	recorder := &fakeTransactionRecorder{}
	service := NewPaymentService(MockGateway{}, recorder, followups)

	result, err := service.ProcessPayment(context.Background(), "INV-1001", models.PaymentRequest{
		Amount: 150,
		Method: "card",
	})
	require.NoError(t, err)
	require.Equal(t, "success", result.Status)
	require.NotEmpty(t, result.TransactionID)

	require.Len(t, recorder.recorded, 1)
	require.Equal(t, "INV-1001", recorder.recorded[0].InvoiceID)

	record, err := followups.Get(models.FollowUpKey("INV-1001", models.FollowUpGentle))
	require.NoError(t, err)
	require.Equal(t, models.FollowUpCancelled, record.Status)
}

func TestProcessPaymentDeclinedMutatesNothing(t *testing.T) {
	followups := repositories.NewFollowUpRepository()
	followups.Put(&models.FollowUpRecord{
		ID:        models.FollowUpKey("INV-1001", models.FollowUpGentle),
		InvoiceID: "INV-1001",
		Category:  models.FollowUpGentle,
		Status:    models.FollowUpScheduled,
	})

	recorder := &fakeTransactionRecorder{}
	service := NewPaymentService(decliningGateway{}, recorder, followups)

	result, err := service.ProcessPayment(context.Background(), "INV-1001", models.PaymentRequest{
		Amount: 150,
		Method: "card",
	})
	require.ErrorIs(t, err, models.ErrPaymentDeclined)
	require.Equal(t, "declined", result.Status)
	require.Empty(t, recorder.recorded)

	record, err := followups.Get(models.FollowUpKey("INV-1001", models.FollowUpGentle))
	require.NoError(t, err)
	require.Equal(t, models.FollowUpScheduled, record.Status)
}
