package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"medisight/models"
	"medisight/repositories"
	"medisight/utils"
)

type fakeInvoiceSource struct {
	invoices map[string]*models.Invoice
}

func (f *fakeInvoiceSource) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, models.ErrInvoiceNotFound
	}
	return invoice, nil
}

type fakeCollections struct {
	cases map[string]string
	err   error
}

func (f *fakeCollections) CreateCase(_ context.Context, invoiceID string, _ float64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	caseID := "COL-" + invoiceID
	f.cases[invoiceID] = caseID
	return caseID, nil
}

type sentMessage struct {
	Channel models.Channel
	Contact models.Contact
	Body    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeNotifier) Render(templateID string, data map[string]interface{}) (string, models.NotificationTemplate, error) {
	return utils.RenderTemplate("["+templateID+"] for {invoice_id}", data), models.NotificationTemplate{ID: templateID, Subject: templateID}, nil
}

func (f *fakeNotifier) Dispatch(_ context.Context, channel models.Channel, contact models.Contact, _, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Channel: channel, Contact: contact, Body: body})
	return nil
}

func (f *fakeNotifier) channels() []models.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	channels := make([]models.Channel, len(f.sent))
	for i, msg := range f.sent {
		channels[i] = msg.Channel
	}
	return channels
}

func testInvoice(id string, amount float64) *models.Invoice {
	return &models.Invoice{
		InvoiceID:   id,
		PatientName: "John Doe",
		Amount:      amount,
		Phone:       "555-0123",
		Email:       "john.doe@email.com",
		Address:     "123 Main St",
	}
}

type followUpFixture struct {
	service     *FollowUpService
	records     *repositories.FollowUpRepository
	notifier    *fakeNotifier
	collections *fakeCollections
	scheduler   *utils.Scheduler
}

func newFollowUpFixture(courtesyCallDelay time.Duration, invoices ...*models.Invoice) *followUpFixture {
	source := &fakeInvoiceSource{invoices: make(map[string]*models.Invoice)}
	for _, invoice := range invoices {
		source.invoices[invoice.InvoiceID] = invoice
	}
	fixture := &followUpFixture{
		records:     repositories.NewFollowUpRepository(),
		notifier:    &fakeNotifier{},
		collections: &fakeCollections{cases: make(map[string]string)},
		scheduler:   utils.NewScheduler(),
	}
	fixture.service = NewFollowUpService(fixture.records, source, fixture.collections, fixture.notifier, fixture.scheduler, courtesyCallDelay)
	return fixture
}

func TestScheduleFollowUpFirmReminder(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 250))

	id, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  35,
		FollowUpType: "firm",
	})
	require.NoError(t, err)
	require.Equal(t, "BF-INV-1001-firm", id)

	record, err := f.service.Get(id)
	require.NoError(t, err)
	require.Equal(t, models.FollowUpExecuted, record.Status)
	require.Equal(t, "firm_reminder", record.Rule.TemplateID)

	// Medium-value invoice gets a single email.
	require.Equal(t, []models.Channel{models.ChannelEmail}, f.notifier.channels())
}

func TestScheduleFollowUpLowValueUsesSMS(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 80))

	_, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  10,
		FollowUpType: "gentle",
	})
	require.NoError(t, err)
	require.Equal(t, []models.Channel{models.ChannelSMS}, f.notifier.channels())
}

func TestScheduleFollowUpHighValueQueuesCourtesyCall(t *testing.T) {
	f := newFollowUpFixture(time.Millisecond, testInvoice("INV-1001", 750))

	_, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  10,
		FollowUpType: "gentle",
	})
	require.NoError(t, err)

	f.scheduler.Wait()
	channels := f.notifier.channels()
	require.Len(t, channels, 2)
	require.Equal(t, models.ChannelEmail, channels[0])
	require.Equal(t, models.ChannelVoice, channels[1])
}

func TestCancelledFollowUpSkipsCourtesyCall(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 750))

	_, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  10,
		FollowUpType: "gentle",
	})
	require.NoError(t, err)

	// The follow-up itself already executed; cancellation only has the
	// pending courtesy call left to stop.
	cancelled := f.records.CancelForInvoice("INV-1001")
	require.Empty(t, cancelled)

	f.scheduler.Wait()
	require.Equal(t, []models.Channel{models.ChannelEmail}, f.notifier.channels())
}

func TestScheduleFollowUpFinalNotice(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 300))

	id, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  65,
		FollowUpType: "final_notice",
	})
	require.NoError(t, err)

	record, err := f.service.Get(id)
	require.NoError(t, err)
	require.Equal(t, models.FollowUpExecuted, record.Status)
	require.Equal(t, []models.Channel{models.ChannelEmail, models.ChannelMail}, f.notifier.channels())
}

func TestScheduleFollowUpCollections(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 1200))

	id, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  95,
		FollowUpType: "collections",
	})
	require.NoError(t, err)

	record, err := f.service.Get(id)
	require.NoError(t, err)
	require.Equal(t, "COL-INV-1001", record.CollectionsCaseID)
	require.Equal(t, []models.Channel{models.ChannelEmail}, f.notifier.channels())
}

func TestScheduleFollowUpCollectionsCaseFailureFails(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 1200))
	f.collections.err = fmt.Errorf("collections bureau unavailable")

	_, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  95,
		FollowUpType: "collections",
	})
	require.Error(t, err)
}

func TestScheduleFollowUpUnknownInvoice(t *testing.T) {
	f := newFollowUpFixture(time.Hour)

	_, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-9999",
		DaysOverdue:  35,
		FollowUpType: "firm",
	})
	require.ErrorIs(t, err, models.ErrInvoiceNotFound)
}

func TestScheduleFollowUpNoApplicableRule(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 250))

	_, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  3,
		FollowUpType: "gentle",
	})
	require.ErrorIs(t, err, models.ErrNoApplicableRule)
}

func TestScheduleFollowUpCrossCategoryFallback(t *testing.T) {
	f := newFollowUpFixture(time.Hour, testInvoice("INV-1001", 250))

	id, err := f.service.ScheduleFollowUp(context.Background(), models.FollowUpRequest{
		InvoiceID:    "INV-1001",
		DaysOverdue:  35,
		FollowUpType: "collections",
	})
	require.NoError(t, err)

	record, err := f.service.Get(id)
	require.NoError(t, err)
	require.Equal(t, models.FollowUpFirm, record.Rule.Category)
	require.Empty(t, record.CollectionsCaseID)
}
