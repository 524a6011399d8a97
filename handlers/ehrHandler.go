package handlers

import (
	"github.com/gin-gonic/gin"
	"medisight/models"
	"medisight/services"
)

type EHRHandler struct {
	ehr *services.EHRService
}

func NewEHRHandler(ehr *services.EHRService) *EHRHandler {
	return &EHRHandler{ehr: ehr}
}

func (h *EHRHandler) SyncPatient(c *gin.Context) {
	var req models.EHRSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if req.PatientID == "" {
		c.JSON(400, gin.H{"error": "patient_id is required"})
		return
	}
	snapshot, err := h.ehr.SyncPatient(c.Request.Context(), req.PatientID, req.EHRSystem)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, snapshot)
}

func (h *EHRHandler) CreateAppointment(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	system, _ := req["ehr_system"].(string)
	created, err := h.ehr.CreateAppointment(c.Request.Context(), system, req)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, created)
}

func (h *EHRHandler) GetSupportedSystems(c *gin.Context) {
	c.JSON(200, gin.H{"systems": h.ehr.SupportedSystems()})
}
