package utils

import (
	"log"

	"medisight/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateFollowUpRequest validates a billing follow-up request.
func ValidateFollowUpRequest(req models.FollowUpRequest) error {
	err := validation.Errors{
		"invoice_id":   validation.Validate(req.InvoiceID, validation.Required),
		"days_overdue": validation.Validate(req.DaysOverdue, validation.Min(0)),
		"follow_up_type": validation.Validate(req.FollowUpType, validation.Required, validation.In(
			string(models.FollowUpGentle),
			string(models.FollowUpFirm),
			string(models.FollowUpFinalNotice),
			string(models.FollowUpCollections),
		)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v", err)
	}
	return err
}

// ValidateClaimRequest validates a claim submission or analysis request.
func ValidateClaimRequest(req models.ClaimSubmitRequest) error {
	err := validation.Errors{
		"patient_id":      validation.Validate(req.PatientID, validation.Required),
		"procedure_codes": validation.Validate(req.ProcedureCodes, validation.Required, validation.Length(1, 0)),
		"diagnosis_codes": validation.Validate(req.DiagnosisCodes, validation.Required, validation.Length(1, 0)),
		"service_date":    validation.Validate(req.ServiceDate, validation.Required),
		"charge_amount":   validation.Validate(req.ChargeAmount, validation.Min(0.0)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v", err)
	}
	return err
}

// ValidateReminderRequest validates an appointment reminder request.
func ValidateReminderRequest(req models.ReminderRequest) error {
	err := validation.Errors{
		"appointment_id": validation.Validate(req.AppointmentID, validation.Required),
		"reminder_type": validation.Validate(req.Channel, validation.Required, validation.In(
			string(models.ChannelSMS),
			string(models.ChannelEmail),
			string(models.ChannelVoice),
		)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v", err)
	}
	return err
}

// ValidateAIQuery validates a knowledge-base query.
func ValidateAIQuery(req models.AIQueryRequest) error {
	err := validation.Errors{
		"query": validation.Validate(req.Query, validation.Required, validation.Length(1, 4000)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v", err)
	}
	return err
}

// ValidatePaymentRequest validates an invoice payment request.
func ValidatePaymentRequest(req models.PaymentRequest) error {
	err := validation.Errors{
		"amount": validation.Validate(req.Amount, validation.Required, validation.Min(0.01)),
		"method": validation.Validate(req.Method, validation.Required, validation.In("card", "ach", "cash")),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v", err)
	}
	return err
}
