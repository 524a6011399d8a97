package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"medisight/models"
	"medisight/repositories"
	"medisight/utils"
)

// Invoice amount tiers for reminder channel selection.
const (
	highValueThreshold   = 500.0
	mediumValueThreshold = 100.0
)

// InvoiceSource is the slice of the invoice repository the tracker needs.
type InvoiceSource interface {
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
}

// CollectionsCaseSource opens collections cases for escalated invoices.
type CollectionsCaseSource interface {
	CreateCase(ctx context.Context, invoiceID string, amount float64) (string, error)
}

// Notifier is the slice of the notification service the tracker needs.
type Notifier interface {
	Render(templateID string, data map[string]interface{}) (string, models.NotificationTemplate, error)
	Dispatch(ctx context.Context, channel models.Channel, contact models.Contact, subject, body string) error
}

// FollowUpService drives overdue invoices through the billing escalation
// rules: reminders, final notice, then collections.
type FollowUpService struct {
	records           *repositories.FollowUpRepository
	invoices          InvoiceSource
	collections       CollectionsCaseSource
	notifier          Notifier
	scheduler         *utils.Scheduler
	courtesyCallDelay time.Duration
}

func NewFollowUpService(records *repositories.FollowUpRepository, invoices InvoiceSource, collections CollectionsCaseSource, notifier Notifier, scheduler *utils.Scheduler, courtesyCallDelay time.Duration) *FollowUpService {
	return &FollowUpService{
		records:           records,
		invoices:          invoices,
		collections:       collections,
		notifier:          notifier,
		scheduler:         scheduler,
		courtesyCallDelay: courtesyCallDelay,
	}
}

// ScheduleFollowUp resolves the billing rule for an overdue invoice,
// creates the tracking record, and executes the follow-up action. Returns
// the follow-up id. A schedule for a key whose previous record is still
// scheduled supersedes it.
func (s *FollowUpService) ScheduleFollowUp(ctx context.Context, req models.FollowUpRequest) (string, error) {
	invoice, err := s.invoices.GetByID(ctx, req.InvoiceID)
	if err != nil {
		return "", err
	}

	category := models.FollowUpCategory(req.FollowUpType)
	rule := models.ApplicableRule(req.DaysOverdue, category)
	if rule == nil {
		return "", fmt.Errorf("%w for %d days overdue", models.ErrNoApplicableRule, req.DaysOverdue)
	}

	record := &models.FollowUpRecord{
		ID:          models.FollowUpKey(req.InvoiceID, category),
		InvoiceID:   req.InvoiceID,
		DaysOverdue: req.DaysOverdue,
		Category:    category,
		Rule:        *rule,
		Invoice:     *invoice,
		Status:      models.FollowUpScheduled,
		CreatedAt:   time.Now(),
	}
	s.records.Put(record)

	if err := s.executeAction(ctx, record); err != nil {
		return "", err
	}

	s.records.MarkExecuted(record.ID)
	log.Printf("Scheduled billing follow-up: %s", record.ID)
	return record.ID, nil
}

func (s *FollowUpService) executeAction(ctx context.Context, record *models.FollowUpRecord) error {
	switch record.Rule.Action {
	case models.ActionSendReminder:
		s.sendReminder(ctx, record)
	case models.ActionSendFinalNotice:
		s.sendFinalNotice(ctx, record)
	case models.ActionSendToCollections:
		return s.sendToCollections(ctx, record)
	default:
		return fmt.Errorf("unknown follow-up action %q", record.Rule.Action)
	}
	return nil
}

// sendReminder picks channels by invoice amount: high-value accounts get
// an email plus a queued courtesy call, medium-value an email, low-value
// an SMS. Missing contact info degrades to a logged skip.
func (s *FollowUpService) sendReminder(ctx context.Context, record *models.FollowUpRecord) {
	data := s.invoiceData(record)
	body, template, err := s.notifier.Render(record.Rule.TemplateID, data)
	if err != nil {
		log.Printf("Failed to render reminder for %s: %v", record.ID, err)
		return
	}

	contact := invoiceContact(record.Invoice)
	switch {
	case record.Invoice.Amount > highValueThreshold:
		s.dispatchDegraded(ctx, models.ChannelEmail, contact, template.Subject, body, record.ID)
		s.scheduleCourtesyCall(record, body)
	case record.Invoice.Amount > mediumValueThreshold:
		s.dispatchDegraded(ctx, models.ChannelEmail, contact, template.Subject, body, record.ID)
	default:
		s.dispatchDegraded(ctx, models.ChannelSMS, contact, template.Subject, body, record.ID)
	}
	log.Printf("Sent billing reminder for %s", record.ID)
}

// sendFinalNotice always goes out over email plus the simulated
// certified-mail channel.
func (s *FollowUpService) sendFinalNotice(ctx context.Context, record *models.FollowUpRecord) {
	data := s.invoiceData(record)
	body, template, err := s.notifier.Render("final_notice", data)
	if err != nil {
		log.Printf("Failed to render final notice for %s: %v", record.ID, err)
		return
	}

	contact := invoiceContact(record.Invoice)
	s.dispatchDegraded(ctx, models.ChannelEmail, contact, template.Subject, body, record.ID)
	s.dispatchDegraded(ctx, models.ChannelMail, contact, template.Subject, body, record.ID)
	log.Printf("Sent final notice for %s", record.ID)
}

// sendToCollections opens the collections case, notifies the patient, and
// stamps the record. Failure to open the case fails the operation; the
// notice itself degrades like any other send.
func (s *FollowUpService) sendToCollections(ctx context.Context, record *models.FollowUpRecord) error {
	caseID, err := s.collections.CreateCase(ctx, record.InvoiceID, record.Invoice.Amount)
	if err != nil {
		return fmt.Errorf("failed to open collections case for %s: %w", record.InvoiceID, err)
	}
	s.records.SetCollectionsCase(record.ID, caseID)

	data := s.invoiceData(record)
	data["collections_id"] = caseID
	body, template, err := s.notifier.Render("collections_notice", data)
	if err != nil {
		log.Printf("Failed to render collections notice for %s: %v", record.ID, err)
		return nil
	}

	s.dispatchDegraded(ctx, models.ChannelEmail, invoiceContact(record.Invoice), template.Subject, body, record.ID)
	log.Printf("Sent to collections: %s (case %s)", record.ID, caseID)
	return nil
}

// scheduleCourtesyCall queues the follow-up voice call for a high-value
// account. The call consults the record's status when it fires, so a
// payment arriving during the delay stops it.
func (s *FollowUpService) scheduleCourtesyCall(record *models.FollowUpRecord, script string) {
	if record.Invoice.Phone == "" {
		return
	}

	recordID := record.ID
	contact := invoiceContact(record.Invoice)
	handle := s.scheduler.RunAfter(s.courtesyCallDelay, func() {
		current, err := s.records.Snapshot(recordID)
		if err != nil || current.Status == models.FollowUpCancelled {
			return
		}
		s.dispatchDegraded(context.Background(), models.ChannelVoice, contact, "", script, recordID)
	})
	s.records.SetCancel(recordID, handle.Cancel)
	log.Printf("Courtesy call scheduled for %s", contact.Phone)
}

func (s *FollowUpService) dispatchDegraded(ctx context.Context, channel models.Channel, contact models.Contact, subject, body, recordID string) {
	if err := s.notifier.Dispatch(ctx, channel, contact, subject, body); err != nil {
		log.Printf("Send degraded for %s on %s: %v", recordID, channel, err)
	}
}

func (s *FollowUpService) invoiceData(record *models.FollowUpRecord) map[string]interface{} {
	data := map[string]interface{}{
		"patient_name": record.Invoice.PatientName,
		"invoice_id":   record.InvoiceID,
		"amount":       fmt.Sprintf("%.2f", record.Invoice.Amount),
		"due_date":     record.Invoice.DueDate,
		"service_date": record.Invoice.ServiceDate,
		"days_overdue": record.DaysOverdue,
	}
	if token, err := utils.GeneratePaymentToken(record.InvoiceID); err == nil {
		data["payment_link"] = fmt.Sprintf("https://pay.medisight.example/pay?accessToken=%s", token)
	} else {
		data["payment_link"] = "Visit our patient portal to pay online."
	}
	return data
}

// Get returns a snapshot of one follow-up record.
func (s *FollowUpService) Get(id string) (models.FollowUpRecord, error) {
	return s.records.Snapshot(id)
}

// Analytics aggregates the follow-up table.
func (s *FollowUpService) Analytics() models.FollowUpAnalytics {
	return s.records.Analytics()
}

func invoiceContact(invoice models.Invoice) models.Contact {
	return models.Contact{
		Phone:   invoice.Phone,
		Email:   invoice.Email,
		Address: invoice.Address,
	}
}
