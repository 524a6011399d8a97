package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"medisight/models"
	"medisight/services"
	"medisight/utils"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	leadTime      time.Duration
}

func NewNotificationHandler(notifications *services.NotificationService, leadTime time.Duration) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, leadTime: leadTime}
}

func (h *NotificationHandler) ScheduleReminder(c *gin.Context) {
	var req models.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateReminderRequest(req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	reminderID, err := h.notifications.ScheduleReminder(c.Request.Context(), req, h.leadTime)
	if err != nil {
		if errors.Is(err, models.ErrAppointmentNotFound) {
			c.JSON(404, gin.H{"error": "Appointment not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(202, gin.H{
		"reminder_id": reminderID,
		"status":      models.NotificationScheduled,
	})
}

func (h *NotificationHandler) SendNoShowFollowUp(c *gin.Context) {
	appointmentID := c.Param("appointment_id")
	if err := h.notifications.SendNoShowFollowUp(c.Request.Context(), appointmentID); err != nil {
		switch {
		case errors.Is(err, models.ErrAppointmentNotFound):
			c.JSON(404, gin.H{"error": "Appointment not found"})
		case errors.Is(err, models.ErrMissingContactInfo):
			c.JSON(422, gin.H{"error": "Appointment has no usable contact information"})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(200, gin.H{"appointment_id": appointmentID, "status": "sent"})
}

func (h *NotificationHandler) GetStats(c *gin.Context) {
	c.JSON(200, h.notifications.Stats())
}
