package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"medisight/models"
	"medisight/services"
	"medisight/utils"
)

type AIHandler struct {
	ai *services.AIService
}

func NewAIHandler(ai *services.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

func (h *AIHandler) Query(c *gin.Context) {
	var req models.AIQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateAIQuery(req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	response, err := h.ai.Query(c.Request.Context(), req.Query, req.Context)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, response)
}

func (h *AIHandler) AnalyzeClaim(c *gin.Context) {
	var req models.ClaimSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateClaimRequest(req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	analysis := h.ai.AnalyzeClaim(c.Request.Context(), models.ClaimData{
		PatientID:      req.PatientID,
		ProcedureCodes: req.ProcedureCodes,
		DiagnosisCodes: req.DiagnosisCodes,
		ServiceDate:    req.ServiceDate,
		ChargeAmount:   req.ChargeAmount,
		ProviderInfo:   req.ProviderInfo,
	})
	c.JSON(200, gin.H{
		"analysis":    analysis,
		"analyzed_at": time.Now().Format(time.RFC3339),
	})
}
