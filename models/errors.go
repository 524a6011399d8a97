package models

import "errors"

// Sentinel errors shared across repositories, services, and handlers.
var (
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrClaimNotFound       = errors.New("claim not found")
	ErrFollowUpNotFound    = errors.New("follow-up not found")
	ErrNoApplicableRule    = errors.New("no applicable billing rule")
	ErrMissingContactInfo  = errors.New("recipient is missing the contact field required by the channel")
	ErrPaymentDeclined     = errors.New("payment declined")
)
