package models

import (
	"time"
)

// AIQueryRequest is an inbound knowledge-base question.
type AIQueryRequest struct {
	Query     string                 `json:"query"`
	Context   map[string]interface{} `json:"context,omitempty"`
	PatientID string                 `json:"patient_id,omitempty"`
}

// AIResponse is the assistant's answer with its supporting sources.
type AIResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// ClaimSubmitRequest is the inbound payload for claim submission and
// claim analysis.
type ClaimSubmitRequest struct {
	PatientID      string                 `json:"patient_id"`
	ProcedureCodes []string               `json:"procedure_codes"`
	DiagnosisCodes []string               `json:"diagnosis_codes"`
	ServiceDate    time.Time              `json:"service_date"`
	ChargeAmount   float64                `json:"charge_amount"`
	ProviderInfo   map[string]interface{} `json:"provider_info"`
}

// FollowUpRequest is the inbound payload for scheduling a billing
// follow-up.
type FollowUpRequest struct {
	InvoiceID    string `json:"invoice_id"`
	DaysOverdue  int    `json:"days_overdue"`
	FollowUpType string `json:"follow_up_type"`
}

// ReminderRequest is the inbound payload for scheduling an appointment
// reminder. ScheduleTime defaults to 24 hours before the appointment.
type ReminderRequest struct {
	AppointmentID string     `json:"appointment_id"`
	Channel       string     `json:"reminder_type"`
	ScheduleTime  *time.Time `json:"schedule_time,omitempty"`
}

// EHRSyncRequest asks for a patient snapshot from a named EHR system.
type EHRSyncRequest struct {
	PatientID string `json:"patient_id"`
	EHRSystem string `json:"ehr_system"`
}
