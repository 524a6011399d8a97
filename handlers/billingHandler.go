package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"medisight/models"
	"medisight/services"
	"medisight/utils"
)

type BillingHandler struct {
	followups *services.FollowUpService
	payments  *services.PaymentService
}

func NewBillingHandler(followups *services.FollowUpService, payments *services.PaymentService) *BillingHandler {
	return &BillingHandler{followups: followups, payments: payments}
}

func (h *BillingHandler) ScheduleFollowUp(c *gin.Context) {
	var req models.FollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateFollowUpRequest(req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	followUpID, err := h.followups.ScheduleFollowUp(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvoiceNotFound):
			c.JSON(404, gin.H{"error": "Invoice not found"})
		case errors.Is(err, models.ErrNoApplicableRule):
			c.JSON(422, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}
	record, err := h.followups.Get(followUpID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, gin.H{
		"follow_up_id": followUpID,
		"status":       record.Status,
		"category":     record.Category,
		"action":       record.Rule.Action,
	})
}

func (h *BillingHandler) GetFollowUp(c *gin.Context) {
	id := c.Param("follow_up_id")
	record, err := h.followups.Get(id)
	if err != nil {
		c.JSON(404, gin.H{"error": "Follow-up not found"})
		return
	}
	c.JSON(200, record)
}

func (h *BillingHandler) ProcessPayment(c *gin.Context) {
	invoiceID := c.Param("invoice_id")
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidatePaymentRequest(req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	result, err := h.payments.ProcessPayment(c.Request.Context(), invoiceID, req)
	if err != nil {
		if errors.Is(err, models.ErrPaymentDeclined) {
			c.JSON(402, gin.H{"error": "Payment declined", "result": result})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, result)
}

func (h *BillingHandler) GetAnalytics(c *gin.Context) {
	c.JSON(200, h.followups.Analytics())
}
