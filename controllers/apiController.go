package controllers

import (
	"github.com/gin-gonic/gin"
	"medisight/handlers"
	"medisight/middlewares"
)

// SetupAPIRoutes registers the authenticated API surface plus the public
// pay-by-link route.
func SetupAPIRoutes(
	router *gin.Engine,
	bearerToken string,
	billingHandler *handlers.BillingHandler,
	claimHandler *handlers.ClaimHandler,
	notificationHandler *handlers.NotificationHandler,
	aiHandler *handlers.AIHandler,
	ehrHandler *handlers.EHRHandler,
) {
	api := router.Group("/api")
	api.Use(middlewares.ValidateBearerToken(bearerToken))
	{
		billing := api.Group("/billing")
		{
			billing.POST("/follow-up", billingHandler.ScheduleFollowUp)
			billing.GET("/follow-up/:follow_up_id", billingHandler.GetFollowUp)
			billing.POST("/payments/:invoice_id", billingHandler.ProcessPayment)
			billing.GET("/analytics", billingHandler.GetAnalytics)
		}

		insurance := api.Group("/insurance")
		{
			insurance.POST("/submit-claim", claimHandler.SubmitClaim)
			insurance.GET("/claim-status/:claim_id", claimHandler.GetClaimStatus)
			insurance.GET("/analytics", claimHandler.GetAnalytics)
		}

		notifications := api.Group("/notifications")
		{
			notifications.POST("/schedule-reminder", notificationHandler.ScheduleReminder)
			notifications.POST("/no-show/:appointment_id", notificationHandler.SendNoShowFollowUp)
			notifications.GET("/stats", notificationHandler.GetStats)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/query", aiHandler.Query)
			ai.POST("/analyze-claim", aiHandler.AnalyzeClaim)
		}

		ehr := api.Group("/ehr")
		{
			ehr.POST("/sync-patient", ehrHandler.SyncPatient)
			ehr.POST("/appointments", ehrHandler.CreateAppointment)
			ehr.GET("/systems", ehrHandler.GetSupportedSystems)
		}
	}

	// Patients pay from the link in their notice, no API token involved.
	router.POST("/pay/:invoice_id", middlewares.ValidatePaymentLink(), billingHandler.ProcessPayment)
}
