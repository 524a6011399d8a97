package models

import (
	"time"
)

// Channel is a delivery channel for outbound notifications.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelVoice Channel = "voice"
	// ChannelMail is the simulated certified-mail channel used by final
	// notices; it has no real transport behind it.
	ChannelMail Channel = "mail"
)

// NotificationTemplate is a message template with {placeholder} variables.
type NotificationTemplate struct {
	ID       string
	Type     string
	Channel  Channel
	Subject  string
	Template string
}

// Contact holds the recipient fields the dispatcher needs to pick a
// deliverable channel.
type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// NotificationStatus values for scheduled notifications.
const (
	NotificationScheduled = "scheduled"
	NotificationSent      = "sent"
	NotificationCancelled = "cancelled"
)

// ScheduledNotification tracks one queued reminder or follow-up message.
type ScheduledNotification struct {
	ID            string                 `json:"id"`
	Type          string                 `json:"type"`
	Channel       Channel                `json:"channel"`
	AppointmentID string                 `json:"appointment_id,omitempty"`
	ScheduleTime  time.Time              `json:"schedule_time"`
	Data          map[string]interface{} `json:"data"`
	Status        string                 `json:"status"`
	SentAt        *time.Time             `json:"sent_at,omitempty"`

	Cancel func() `json:"-"`
}

// NotificationStats summarises the notification table.
type NotificationStats struct {
	Total        int             `json:"total_notifications"`
	Sent         int             `json:"sent_notifications"`
	Pending      int             `json:"pending_notifications"`
	DeliveryRate float64         `json:"delivery_rate"`
	Channels     map[Channel]int `json:"channels"`
}
