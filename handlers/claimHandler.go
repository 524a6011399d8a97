package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"medisight/models"
	"medisight/services"
	"medisight/utils"
)

type ClaimHandler struct {
	claims *services.ClaimService
	ai     *services.AIService
}

func NewClaimHandler(claims *services.ClaimService, ai *services.AIService) *ClaimHandler {
	return &ClaimHandler{claims: claims, ai: ai}
}

func (h *ClaimHandler) SubmitClaim(c *gin.Context) {
	var req models.ClaimSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateClaimRequest(req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	data := models.ClaimData{
		PatientID:      req.PatientID,
		ProcedureCodes: req.ProcedureCodes,
		DiagnosisCodes: req.DiagnosisCodes,
		ServiceDate:    req.ServiceDate,
		ChargeAmount:   req.ChargeAmount,
		ProviderInfo:   req.ProviderInfo,
	}
	analysis := h.ai.AnalyzeClaim(c.Request.Context(), data)
	claimID := h.claims.SubmitClaim(data, analysis)
	c.JSON(202, gin.H{
		"claim_id": claimID,
		"status":   models.ClaimSubmitted,
		"analysis": analysis,
	})
}

func (h *ClaimHandler) GetClaimStatus(c *gin.Context) {
	id := c.Param("claim_id")
	claim, err := h.claims.GetClaimStatus(id)
	if err != nil {
		if errors.Is(err, models.ErrClaimNotFound) {
			c.JSON(404, gin.H{"error": "Claim not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, claim)
}

func (h *ClaimHandler) GetAnalytics(c *gin.Context) {
	c.JSON(200, h.claims.Analytics())
}
