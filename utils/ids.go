package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const idTimestampLayout = "20060102150405"

// NewClaimID generates a claim identifier with a timestamp prefix and a
// random suffix. The suffix carries 32 bits of randomness, so collisions
// within one timestamp second are negligible.
func NewClaimID() string {
	return fmt.Sprintf("CLM-%s-%s", time.Now().Format(idTimestampLayout), uuid.New().String()[:8])
}

// NewCollectionsCaseID generates a collections case identifier.
func NewCollectionsCaseID() string {
	return fmt.Sprintf("COL-%s-%s", time.Now().Format(idTimestampLayout), uuid.New().String()[:8])
}

// NewTransactionID generates a payment transaction identifier.
func NewTransactionID() string {
	return fmt.Sprintf("TXN-%s-%s", time.Now().Format(idTimestampLayout), uuid.New().String()[:8])
}

// NewAppointmentID generates an appointment identifier.
func NewAppointmentID() string {
	return fmt.Sprintf("APPT-%s", time.Now().Format(idTimestampLayout))
}

// AppealID derives the appeal identifier for a denied claim.
func AppealID(claimID string) string {
	return "APP-" + claimID
}

// ReminderID derives the reminder identifier for an appointment and channel.
func ReminderID(appointmentID, channel string) string {
	return fmt.Sprintf("REM-%s-%s", appointmentID, channel)
}
