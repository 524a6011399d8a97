package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"medisight/config"
	"medisight/models"
	"medisight/utils"
)

// Sender delivers one rendered message to one address. Implementations
// wrap the real providers (SMTP, Twilio) or log-only stubs when no
// credentials are configured.
type Sender func(ctx context.Context, address, subject, body string) error

// AppointmentSource is the slice of the appointment repository the
// notification service needs.
type AppointmentSource interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	MarkNoShow(ctx context.Context, id string) error
}

// NotificationService renders templates and dispatches them over the
// configured channels. It also owns the scheduled-reminder table.
type NotificationService struct {
	appointments AppointmentSource
	scheduler    *utils.Scheduler
	senders      map[models.Channel]Sender
	templates    map[string]models.NotificationTemplate
	practice     map[string]interface{}

	mu        sync.RWMutex
	scheduled map[string]*models.ScheduledNotification
}

// NewNotificationService builds the service with the default channel
// senders. Pass a non-nil senders map to replace them (tests do).
func NewNotificationService(appointments AppointmentSource, scheduler *utils.Scheduler, cfg *config.AppConfig, senders map[models.Channel]Sender) *NotificationService {
	if senders == nil {
		senders = defaultSenders()
	}
	return &NotificationService{
		appointments: appointments,
		scheduler:    scheduler,
		senders:      senders,
		templates:    loadTemplates(),
		practice: map[string]interface{}{
			"practice_name": cfg.PracticeName,
			"phone":         cfg.PracticePhone,
		},
		scheduled: make(map[string]*models.ScheduledNotification),
	}
}

func defaultSenders() map[models.Channel]Sender {
	return map[models.Channel]Sender{
		models.ChannelEmail: func(ctx context.Context, address, subject, body string) error {
			return utils.SendEmail(address, subject, body)
		},
		// SMS and voice run against Twilio in production; without
		// credentials they are log-only, matching the sandbox EHR stubs.
		models.ChannelSMS: func(ctx context.Context, address, subject, body string) error {
			log.Printf("SMS sent to %s: %.50s", address, body)
			return nil
		},
		models.ChannelVoice: func(ctx context.Context, address, subject, body string) error {
			log.Printf("Voice call placed to %s", address)
			return nil
		},
		models.ChannelMail: func(ctx context.Context, address, subject, body string) error {
			log.Printf("Certified mail sent to: %s", address)
			return nil
		},
	}
}

// Render fills the named template with the merged recipient, context, and
// practice identity data.
func (s *NotificationService) Render(templateID string, data map[string]interface{}) (string, models.NotificationTemplate, error) {
	template, ok := s.templates[templateID]
	if !ok {
		return "", models.NotificationTemplate{}, fmt.Errorf("template %s not found", templateID)
	}
	merged := utils.MergeData(data, s.practice)
	return utils.RenderTemplate(template.Template, merged), template, nil
}

// Dispatch sends a rendered message over one channel. A recipient missing
// the contact field the channel requires is logged and skipped; that is
// never fatal to the caller's pipeline.
func (s *NotificationService) Dispatch(ctx context.Context, channel models.Channel, contact models.Contact, subject, body string) error {
	var address string
	switch channel {
	case models.ChannelSMS, models.ChannelVoice:
		address = contact.Phone
	case models.ChannelEmail:
		address = contact.Email
	case models.ChannelMail:
		address = contact.Address
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}
	if address == "" {
		log.Printf("No %s contact info for recipient, skipping send", channel)
		return models.ErrMissingContactInfo
	}

	sender, ok := s.senders[channel]
	if !ok {
		return fmt.Errorf("no sender configured for channel %q", channel)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return sender(ctx, address, subject, body)
}

// ScheduleReminder queues an appointment reminder. Without an explicit
// schedule time it fires ReminderLeadTime before the appointment; a time
// already in the past fires immediately.
func (s *NotificationService) ScheduleReminder(ctx context.Context, req models.ReminderRequest, leadTime time.Duration) (string, error) {
	appointment, err := s.appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		return "", err
	}

	fireAt := appointment.DateTime.Add(-leadTime)
	if req.ScheduleTime != nil {
		fireAt = *req.ScheduleTime
	}

	channel := models.Channel(req.Channel)
	reminderID := utils.ReminderID(req.AppointmentID, req.Channel)

	notification := &models.ScheduledNotification{
		ID:            reminderID,
		Type:          "appointment_reminder",
		Channel:       channel,
		AppointmentID: req.AppointmentID,
		ScheduleTime:  fireAt,
		Data:          appointmentData(appointment),
		Status:        models.NotificationScheduled,
	}

	s.mu.Lock()
	s.scheduled[reminderID] = notification
	s.mu.Unlock()

	handle := s.scheduler.RunAfter(time.Until(fireAt), func() {
		s.fireReminder(reminderID)
	})
	notification.Cancel = handle.Cancel

	log.Printf("Scheduled %s reminder for appointment %s", req.Channel, req.AppointmentID)
	return reminderID, nil
}

func (s *NotificationService) fireReminder(reminderID string) {
	s.mu.RLock()
	notification, ok := s.scheduled[reminderID]
	s.mu.RUnlock()
	if !ok || notification.Status != models.NotificationScheduled {
		return
	}

	templateID := fmt.Sprintf("appointment_reminder_%s", notification.Channel)
	if notification.Channel == models.ChannelVoice {
		// Voice reminders read the SMS script.
		templateID = "appointment_reminder_sms"
	}

	body, template, err := s.Render(templateID, notification.Data)
	if err != nil {
		log.Printf("Failed to render reminder %s: %v", reminderID, err)
		return
	}

	contact := contactFromData(notification.Data)
	ctx := context.Background()
	if err := s.Dispatch(ctx, notification.Channel, contact, template.Subject, body); err != nil {
		log.Printf("Reminder %s send degraded: %v", reminderID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if notification.Status == models.NotificationScheduled {
		now := time.Now()
		notification.Status = models.NotificationSent
		notification.SentAt = &now
	}
}

// SendNoShowFollowUp marks the appointment no-show and sends the follow-up
// message right away.
func (s *NotificationService) SendNoShowFollowUp(ctx context.Context, appointmentID string) error {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if err := s.appointments.MarkNoShow(ctx, appointmentID); err != nil {
		log.Printf("Failed to mark appointment %s no-show: %v", appointmentID, err)
	}

	data := appointmentData(appointment)
	body, template, err := s.Render("no_show_followup", data)
	if err != nil {
		return err
	}

	if err := s.Dispatch(ctx, template.Channel, contactFromData(data), template.Subject, body); err != nil {
		log.Printf("No-show follow-up for %s degraded: %v", appointmentID, err)
	}
	return nil
}

// Stats summarises the scheduled-notification table.
func (s *NotificationService) Stats() models.NotificationStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.NotificationStats{Channels: make(map[models.Channel]int)}
	for _, notification := range s.scheduled {
		stats.Total++
		stats.Channels[notification.Channel]++
		if notification.Status == models.NotificationSent {
			stats.Sent++
		}
	}
	stats.Pending = stats.Total - stats.Sent
	if stats.Total > 0 {
		stats.DeliveryRate = float64(stats.Sent) / float64(stats.Total) * 100
	}
	return stats
}

func appointmentData(appointment *models.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"patient_name":  appointment.PatientName,
		"provider":      appointment.Provider,
		"date":          appointment.DateTime.Format("January 2, 2006"),
		"time":          appointment.DateTime.Format("3:04 PM"),
		"location":      appointment.Location,
		"patient_phone": appointment.Phone,
		"patient_email": appointment.Email,
	}
}

func contactFromData(data map[string]interface{}) models.Contact {
	contact := models.Contact{}
	if phone, ok := data["patient_phone"].(string); ok {
		contact.Phone = phone
	}
	if email, ok := data["patient_email"].(string); ok {
		contact.Email = email
	}
	if address, ok := data["patient_address"].(string); ok {
		contact.Address = address
	}
	return contact
}

func loadTemplates() map[string]models.NotificationTemplate {
	templates := []models.NotificationTemplate{
		{
			ID:      "appointment_reminder_sms",
			Type:    "appointment_reminder",
			Channel: models.ChannelSMS,
			Template: "Hi {patient_name}, this is a reminder for your appointment with {provider} on {date} at {time}. " +
				"Reply CANCEL to reschedule. - {practice_name}",
		},
		{
			ID:      "appointment_reminder_email",
			Type:    "appointment_reminder",
			Channel: models.ChannelEmail,
			Subject: "Appointment Reminder",
			Template: "Dear {patient_name},\n\nThis is a friendly reminder about your upcoming appointment:\n\n" +
				"Date: {date}\nTime: {time}\nProvider: {provider}\nLocation: {location}\n\n" +
				"If you need to reschedule or cancel, please call us at {phone}.\n\nBest regards,\n{practice_name}",
		},
		{
			ID:      "no_show_followup",
			Type:    "follow_up",
			Channel: models.ChannelSMS,
			Template: "Hi {patient_name}, we missed you at your appointment today. Please call {phone} to reschedule. " +
				"Your health is important to us. - {practice_name}",
		},
		{
			ID:      "gentle_reminder",
			Type:    "billing_reminder",
			Channel: models.ChannelEmail,
			Subject: "Payment Reminder",
			Template: "Dear {patient_name},\n\nWe hope you're doing well. This is a friendly reminder that you have an " +
				"outstanding balance of ${amount} for services provided on {service_date}.\n\n" +
				"Invoice #: {invoice_id}\nDue Date: {due_date}\nDays Past Due: {days_overdue}\n\n" +
				"Please use the secure payment link below or call us at {phone} to make a payment.\n{payment_link}\n\n" +
				"We also offer flexible payment plans if you need assistance.\n\nSincerely,\n{practice_name}",
		},
		{
			ID:      "firm_reminder",
			Type:    "billing_reminder",
			Channel: models.ChannelEmail,
			Subject: "Second Notice - Payment Required",
			Template: "Dear {patient_name},\n\nThis is a second notice regarding your outstanding balance of ${amount} " +
				"which is now {days_overdue} days past due.\n\nInvoice #: {invoice_id}\nOriginal Due Date: {due_date}\n\n" +
				"Please remit payment immediately to avoid further collection activities. Secure payment link:\n{payment_link}\n\n" +
				"If you have questions about this bill, contact our billing department at {phone}.\n\n{practice_name}\nBilling Department",
		},
		{
			ID:      "final_notice",
			Type:    "billing_reminder",
			Channel: models.ChannelEmail,
			Subject: "FINAL NOTICE",
			Template: "FINAL NOTICE\n\nDear {patient_name},\n\nThis is your FINAL NOTICE regarding the past due balance " +
				"of ${amount} on your account.\n\nInvoice #: {invoice_id}\nDays Past Due: {days_overdue}\n\n" +
				"Unless payment is received within 10 days of this notice, your account will be forwarded to our " +
				"collection agency. This may result in additional collection fees and could affect your credit rating.\n\n" +
				"If you have any questions or wish to arrange a payment plan, please contact us immediately at {phone}.\n\n" +
				"{practice_name}\nCollections Department",
		},
		{
			ID:      "collections_notice",
			Type:    "billing_reminder",
			Channel: models.ChannelEmail,
			Subject: "Notice of Collection Activity",
			Template: "NOTICE OF COLLECTION ACTIVITY\n\nDear {patient_name},\n\nYour account has been forwarded to our " +
				"collection agency for the outstanding balance of ${amount}.\n\nCollection Case #: {collections_id}\n" +
				"Original Invoice #: {invoice_id}\n\nYou may be contacted directly by our collection agency. Additional " +
				"fees may apply.\n\nIf you believe this notice is in error or wish to resolve this matter, please contact " +
				"us immediately at {phone}.\n\n{practice_name}\nCollections Department",
		},
	}

	loaded := make(map[string]models.NotificationTemplate, len(templates))
	for _, template := range templates {
		loaded[template.ID] = template
	}
	return loaded
}
