package models

import (
	"time"
)

// Appointment model. Reminder scheduling reads snapshots of these rows.
type Appointment struct {
	AppointmentID string    `gorm:"primaryKey;column:appointment_id" json:"appointment_id"`
	PatientName   string    `gorm:"column:patient_name;not null" json:"patient_name"`
	Provider      string    `gorm:"column:provider;not null" json:"provider"`
	DateTime      time.Time `gorm:"column:date_time;not null;index" json:"date_time"`
	Location      string    `gorm:"column:location" json:"location"`
	Phone         string    `gorm:"column:phone" json:"phone"`
	Email         string    `gorm:"column:email" json:"email"`
	Status        string    `gorm:"column:status;check:status IN ('scheduled', 'fulfilled', 'cancelled', 'no_show');not null" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Appointment) TableName() string {
	return "appointment"
}
