package models

import (
	"time"
)

// FollowUpCategory is the escalation stage of a billing follow-up.
type FollowUpCategory string

const (
	FollowUpGentle      FollowUpCategory = "gentle"
	FollowUpFirm        FollowUpCategory = "firm"
	FollowUpFinalNotice FollowUpCategory = "final_notice"
	FollowUpCollections FollowUpCategory = "collections"
)

// FollowUpStatus values. A record moves scheduled -> executed, or
// scheduled -> cancelled when the invoice is paid or the record is
// superseded by a newer schedule for the same key.
type FollowUpStatus string

const (
	FollowUpScheduled FollowUpStatus = "scheduled"
	FollowUpExecuted  FollowUpStatus = "executed"
	FollowUpCancelled FollowUpStatus = "cancelled"
)

// Follow-up actions referenced by the billing rules.
const (
	ActionSendReminder      = "send_reminder"
	ActionSendFinalNotice   = "send_final_notice"
	ActionSendToCollections = "send_to_collections"
)

// BillingRule ties an overdue threshold to an escalation stage and action.
type BillingRule struct {
	DaysAfterDue int
	Category     FollowUpCategory
	Action       string
	TemplateID   string
}

// BillingRules is the static follow-up rule table, in threshold order.
var BillingRules = []BillingRule{
	{DaysAfterDue: 7, Category: FollowUpGentle, Action: ActionSendReminder, TemplateID: "gentle_reminder"},
	{DaysAfterDue: 30, Category: FollowUpFirm, Action: ActionSendReminder, TemplateID: "firm_reminder"},
	{DaysAfterDue: 60, Category: FollowUpFinalNotice, Action: ActionSendFinalNotice, TemplateID: "final_notice"},
	{DaysAfterDue: 90, Category: FollowUpCollections, Action: ActionSendToCollections, TemplateID: "collections_notice"},
}

// ApplicableRule selects the billing rule for the given overdue age and
// requested category. An exact category match with threshold <= daysOverdue
// wins; otherwise the rule with the largest threshold <= daysOverdue applies
// regardless of category. Thresholds are inclusive. Returns nil when no
// rule's threshold has been reached.
func ApplicableRule(daysOverdue int, category FollowUpCategory) *BillingRule {
	for i := range BillingRules {
		rule := &BillingRules[i]
		if rule.DaysAfterDue <= daysOverdue && rule.Category == category {
			return rule
		}
	}

	var closest *BillingRule
	for i := range BillingRules {
		rule := &BillingRules[i]
		if rule.DaysAfterDue <= daysOverdue {
			if closest == nil || rule.DaysAfterDue > closest.DaysAfterDue {
				closest = rule
			}
		}
	}
	return closest
}

// FollowUpRecord tracks one outreach action for one (invoice, category)
// pair. The invoice fields are a snapshot taken at creation; they are not
// refreshed if the billing system changes afterwards.
type FollowUpRecord struct {
	ID                string           `json:"id"`
	InvoiceID         string           `json:"invoice_id"`
	DaysOverdue       int              `json:"days_overdue"`
	Category          FollowUpCategory `json:"category"`
	Rule              BillingRule      `json:"-"`
	Invoice           Invoice          `json:"invoice"`
	Status            FollowUpStatus   `json:"status"`
	CollectionsCaseID string           `json:"collections_case_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	ExecutedAt        *time.Time       `json:"executed_at,omitempty"`
	CancelledAt       *time.Time       `json:"cancelled_at,omitempty"`

	// Cancel stops a still-pending scheduled side effect (e.g. the courtesy
	// call queued for high-value reminders). Best effort: an action whose
	// delay already elapsed may still run.
	Cancel func() `json:"-"`
}

// FollowUpKey derives the record id for a (invoice, category) pair.
func FollowUpKey(invoiceID string, category FollowUpCategory) string {
	return "BF-" + invoiceID + "-" + string(category)
}

// FollowUpAnalytics summarises the follow-up table.
type FollowUpAnalytics struct {
	Total             int                      `json:"total_followups"`
	Executed          int                      `json:"executed_followups"`
	Cancelled         int                      `json:"cancelled_followups"`
	SentToCollections int                      `json:"sent_to_collections"`
	ByCategory        map[FollowUpCategory]int `json:"follow_up_types"`
}
