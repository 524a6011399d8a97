package models

import (
	"context"
	"time"
)

// ClaimStatus is a stage in the simulated payer pipeline. Progression is
// linear and monotonic; the only branch is the adjudication outcome.
type ClaimStatus string

const (
	ClaimSubmitted   ClaimStatus = "submitted"
	ClaimReceived    ClaimStatus = "received"
	ClaimProcessing  ClaimStatus = "processing"
	ClaimAdjudicated ClaimStatus = "adjudicated"
	ClaimPaid        ClaimStatus = "paid"
)

// ClaimStages lists the pipeline stages in order.
var ClaimStages = []ClaimStatus{
	ClaimSubmitted,
	ClaimReceived,
	ClaimProcessing,
	ClaimAdjudicated,
	ClaimPaid,
}

// Adjudication outcomes.
const (
	AdjudicationApproved = "approved"
	AdjudicationDenied   = "denied"
)

// ClaimData is the claim content as submitted. Immutable after creation.
type ClaimData struct {
	PatientID      string                 `json:"patient_id"`
	ProcedureCodes []string               `json:"procedure_codes"`
	DiagnosisCodes []string               `json:"diagnosis_codes"`
	ServiceDate    time.Time              `json:"service_date"`
	ChargeAmount   float64                `json:"charge_amount"`
	ProviderInfo   map[string]interface{} `json:"provider_info"`
}

// ClaimAnalysis is the structured risk assessment supplied by the AI
// collaborator. ApprovalLikelihood is a 0-100 percentage; it is the only
// field the adjudication simulation consumes.
type ClaimAnalysis struct {
	ApprovalLikelihood int      `json:"approval_likelihood"`
	RiskFactors        []string `json:"risk_factors"`
	Recommendations    []string `json:"recommendations"`
}

// ClaimRecord tracks one submitted claim through the payer pipeline.
type ClaimRecord struct {
	ID                 string        `json:"claim_id"`
	Status             ClaimStatus   `json:"status"`
	ClaimData          ClaimData     `json:"claim_data"`
	Analysis           ClaimAnalysis `json:"ai_analysis"`
	Clearinghouse      string        `json:"clearinghouse"`
	ClearinghouseID    string        `json:"clearinghouse_id,omitempty"`
	SubmissionDate     time.Time     `json:"submission_date"`
	LastUpdated        time.Time     `json:"last_updated"`
	AdjudicationResult string        `json:"adjudication_result,omitempty"`
	ApprovedAmount     float64       `json:"approved_amount,omitempty"`
	DenialReason       string        `json:"denial_reason,omitempty"`
	AppealID           string        `json:"appeal_id,omitempty"`
	AppealStatus       string        `json:"appeal_status,omitempty"`
	AppealDate         *time.Time    `json:"appeal_date,omitempty"`
	PaymentAmount      float64       `json:"payment_amount,omitempty"`
	PaymentDate        *time.Time    `json:"payment_date,omitempty"`

	// CancelProgression aborts the background pipeline task for this claim.
	CancelProgression context.CancelFunc `json:"-"`
}

// ClaimAnalytics summarises the claim table.
type ClaimAnalytics struct {
	TotalClaims  int     `json:"total_claims"`
	ApprovalRate float64 `json:"approval_rate"`
	PendingCount int     `json:"pending_claims"`
	TotalPaid    float64 `json:"total_revenue"`
}
