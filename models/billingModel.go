package models

import (
	"time"
)

// Invoice model. Invoices are owned by the practice billing system; the
// follow-up tracker only reads snapshots of them.
type Invoice struct {
	InvoiceID          string    `gorm:"primaryKey;column:invoice_id" json:"invoice_id"`
	PatientName        string    `gorm:"column:patient_name;not null" json:"patient_name"`
	Amount             float64   `gorm:"column:amount;not null" json:"amount"`
	DueDate            string    `gorm:"column:due_date;not null" json:"due_date"`
	ServiceDate        string    `gorm:"column:service_date" json:"service_date"`
	ServiceDescription string    `gorm:"column:service_description" json:"service_description"`
	Phone              string    `gorm:"column:phone" json:"phone"`
	Email              string    `gorm:"column:email" json:"email"`
	Address            string    `gorm:"column:address" json:"address"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Invoice) TableName() string {
	return "invoice"
}

// PaymentTransaction model. One row per successful gateway charge.
type PaymentTransaction struct {
	TransactionID string    `gorm:"primaryKey;column:transaction_id" json:"transaction_id"`
	InvoiceID     string    `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	Amount        float64   `gorm:"column:amount;not null" json:"amount"`
	Method        string    `gorm:"column:method" json:"method"`
	Status        string    `gorm:"column:status;not null" json:"status"`
	ProcessedAt   time.Time `gorm:"column:processed_at;autoCreateTime" json:"processed_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transaction"
}

// CollectionsCase model. Opened when a follow-up escalates to collections.
type CollectionsCase struct {
	CaseID    string    `gorm:"primaryKey;column:case_id" json:"case_id"`
	InvoiceID string    `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	Amount    float64   `gorm:"column:amount;not null" json:"amount"`
	OpenedAt  time.Time `gorm:"column:opened_at;autoCreateTime" json:"opened_at"`
}

func (CollectionsCase) TableName() string {
	return "collections_case"
}

// PaymentRequest is the inbound payload for processing an invoice payment.
type PaymentRequest struct {
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	CardToken string  `json:"card_token"`
}

// PaymentResult is what the payment gateway reports back.
type PaymentResult struct {
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Amount        float64 `json:"amount"`
	ProcessedAt   string  `json:"processed_at"`
}
