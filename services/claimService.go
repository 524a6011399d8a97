package services

import (
	"context"
	"log"
	"math/rand"
	"time"

	"medisight/models"
	"medisight/repositories"
	"medisight/utils"
)

const defaultApprovedAmount = 450.00

// ClaimService tracks submitted claims through the simulated payer
// pipeline. Each claim gets one owning background task; the adjudication
// outcome is a draw weighted by the AI approval likelihood, replaceable by
// a real payer callback without touching downstream state handling.
type ClaimService struct {
	claims        *repositories.ClaimRepository
	clearinghouse ClearinghouseClient
	stageInterval time.Duration

	// rng returns a value in [0, 1). Injectable so tests are
	// deterministic at likelihood 0 and 100.
	rng func() float64
}

func NewClaimService(claims *repositories.ClaimRepository, clearinghouse ClearinghouseClient, stageInterval time.Duration) *ClaimService {
	return &ClaimService{
		claims:        claims,
		clearinghouse: clearinghouse,
		stageInterval: stageInterval,
		rng:           rand.Float64,
	}
}

// SubmitClaim creates the claim record, dispatches it to the
// clearinghouse, and launches the progression task. Returns the claim id
// immediately; everything downstream is asynchronous.
func (s *ClaimService) SubmitClaim(data models.ClaimData, analysis models.ClaimAnalysis) string {
	claimID := utils.NewClaimID()

	progressionCtx, cancel := context.WithCancel(context.Background())
	record := &models.ClaimRecord{
		ID:                claimID,
		Status:            models.ClaimSubmitted,
		ClaimData:         data,
		Analysis:          analysis,
		Clearinghouse:     s.clearinghouse.Name(),
		SubmissionDate:    time.Now(),
		LastUpdated:       time.Now(),
		CancelProgression: cancel,
	}
	s.claims.Put(record)

	go s.submitToClearinghouse(progressionCtx, claimID, data)
	go s.trackProgression(progressionCtx, claimID)

	return claimID
}

// submitToClearinghouse converts the claim to its wire format and sends
// it with bounded retries. On persistent failure the claim simply stays
// in submitted; the progression task keeps simulating regardless.
func (s *ClaimService) submitToClearinghouse(ctx context.Context, claimID string, data models.ClaimData) {
	payload := ConvertToX12(claimID, data)

	maxRetries := 3
	retryDelay := 2 * time.Second
	var ack string
	var err error
	for i := 0; i < maxRetries; i++ {
		submitCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		ack, err = s.clearinghouse.SubmitClaim(submitCtx, claimID, payload)
		cancel()
		if err == nil {
			break
		}
		log.Printf("Clearinghouse submission attempt %d for %s failed: %v", i+1, claimID, err)
		if i < maxRetries-1 {
			select {
			case <-time.After(retryDelay):
				retryDelay *= 2
			case <-ctx.Done():
				return
			}
		}
	}
	if err != nil {
		log.Printf("Claim %s not accepted by clearinghouse after retries: %v", claimID, err)
		return
	}

	s.claims.Update(claimID, func(claim *models.ClaimRecord) {
		claim.ClearinghouseID = ack
	})
	log.Printf("Submitted claim %s to clearinghouse", claimID)
}

// trackProgression walks the claim through the payer stages, waiting the
// configured interval between steps. A denied claim stops at adjudicated
// with its appeal stamped.
func (s *ClaimService) trackProgression(ctx context.Context, claimID string) {
	for _, stage := range models.ClaimStages[1:] {
		select {
		case <-time.After(s.stageInterval):
		case <-ctx.Done():
			return
		}

		s.claims.Update(claimID, func(claim *models.ClaimRecord) {
			claim.Status = stage
		})

		switch stage {
		case models.ClaimAdjudicated:
			if !s.adjudicate(claimID) {
				return
			}
		case models.ClaimPaid:
			s.postPayment(claimID)
		}
	}
}

// adjudicate draws the outcome from the stored approval likelihood and
// records it exactly once. Returns true when the claim continues to
// payment.
func (s *ClaimService) adjudicate(claimID string) bool {
	claim, err := s.claims.Snapshot(claimID)
	if err != nil {
		return false
	}

	approved := s.rng()*100 < float64(claim.Analysis.ApprovalLikelihood)
	result := models.AdjudicationDenied
	if approved {
		result = models.AdjudicationApproved
	}
	if !s.claims.SetAdjudication(claimID, result) {
		// Already adjudicated; never overwrite the first outcome.
		return false
	}

	if approved {
		s.claims.Update(claimID, func(claim *models.ClaimRecord) {
			claim.ApprovedAmount = approvedAmount(claim.ClaimData.ChargeAmount)
		})
		return true
	}

	s.claims.Update(claimID, func(claim *models.ClaimRecord) {
		now := time.Now()
		claim.DenialReason = "Medical necessity not established"
		claim.AppealID = utils.AppealID(claimID)
		claim.AppealStatus = "submitted"
		claim.AppealDate = &now
	})
	log.Printf("Initiating automatic appeal for claim %s", claimID)
	return false
}

func (s *ClaimService) postPayment(claimID string) {
	s.claims.Update(claimID, func(claim *models.ClaimRecord) {
		if claim.AdjudicationResult != models.AdjudicationApproved {
			return
		}
		now := time.Now()
		claim.PaymentAmount = claim.ApprovedAmount
		claim.PaymentDate = &now
	})
	log.Printf("Payment received for claim %s", claimID)
}

// GetClaimStatus returns a snapshot of the claim, or ErrClaimNotFound.
func (s *ClaimService) GetClaimStatus(claimID string) (models.ClaimRecord, error) {
	return s.claims.Snapshot(claimID)
}

// Analytics aggregates the claim table.
func (s *ClaimService) Analytics() models.ClaimAnalytics {
	return s.claims.Analytics()
}

// approvedAmount is the business rule for what the payer reimburses: 80%
// of billed charges, with a fixed fallback when no charge was supplied.
func approvedAmount(charge float64) float64 {
	if charge <= 0 {
		return defaultApprovedAmount
	}
	return charge * 0.8
}
