package services

import (
	"context"
	"log"
	"os"
	"time"

	"medisight/models"
	"medisight/repositories"
	"medisight/utils"
)

// PaymentGateway charges a patient and reports the result. Real
// deployments plug in Stripe or Square; without credentials the mock
// gateway approves everything, as the sandbox EHR adapters do.
type PaymentGateway interface {
	Charge(ctx context.Context, invoiceID string, req models.PaymentRequest) (*models.PaymentResult, error)
}

// TransactionRecorder persists the audit row for a settled payment.
type TransactionRecorder interface {
	Record(ctx context.Context, txn *models.PaymentTransaction) error
}

// PaymentService processes invoice payments and cancels the scheduled
// follow-ups of invoices that get settled.
type PaymentService struct {
	gateway      PaymentGateway
	transactions TransactionRecorder
	followups    *repositories.FollowUpRepository
}

func NewPaymentService(gateway PaymentGateway, transactions TransactionRecorder, followups *repositories.FollowUpRepository) *PaymentService {
	return &PaymentService{
		gateway:      gateway,
		transactions: transactions,
		followups:    followups,
	}
}

// ProcessPayment charges the gateway with bounded retries, records the
// transaction, and cancels every still-scheduled follow-up for the
// invoice. A failed charge mutates nothing and surfaces to the caller.
func (s *PaymentService) ProcessPayment(ctx context.Context, invoiceID string, req models.PaymentRequest) (*models.PaymentResult, error) {
	maxRetries := 3
	retryDelay := 2 * time.Second
	var result *models.PaymentResult
	var err error
	for i := 0; i < maxRetries; i++ {
		chargeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		result, err = s.gateway.Charge(chargeCtx, invoiceID, req)
		cancel()
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}
	if err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return result, models.ErrPaymentDeclined
	}

	txn := &models.PaymentTransaction{
		TransactionID: result.TransactionID,
		InvoiceID:     invoiceID,
		Amount:        result.Amount,
		Method:        req.Method,
		Status:        result.Status,
	}
	if err := s.transactions.Record(ctx, txn); err != nil {
		log.Printf("Failed to record payment transaction %s: %v", txn.TransactionID, err)
	}

	cancelled := s.followups.CancelForInvoice(invoiceID)
	for _, id := range cancelled {
		log.Printf("Cancelled follow-up: %s", id)
	}

	log.Printf("Payment processed for invoice %s", invoiceID)
	return result, nil
}

// MockGateway approves every charge. Used when no processor credentials
// are configured.
type MockGateway struct{}

func (MockGateway) Charge(ctx context.Context, invoiceID string, req models.PaymentRequest) (*models.PaymentResult, error) {
	return &models.PaymentResult{
		Status:        "success",
		TransactionID: utils.NewTransactionID(),
		Amount:        req.Amount,
		ProcessedAt:   time.Now().Format(time.RFC3339),
	}, nil
}

// NewGatewayFromEnv returns the configured gateway. Only the mock gateway
// exists today; the env check keeps the wiring point where a Stripe or
// Square client would slot in.
func NewGatewayFromEnv() PaymentGateway {
	if os.Getenv("STRIPE_SECRET_KEY") == "" && os.Getenv("SQUARE_SECRET_KEY") == "" {
		log.Println("No payment processor credentials configured, using mock gateway")
	}
	return MockGateway{}
}
