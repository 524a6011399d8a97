package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"medisight/cache"
	"medisight/config"
	"medisight/controllers"
	"medisight/handlers"
	"medisight/middlewares"
	"medisight/repositories"
	"medisight/services"
	"medisight/utils"
)

// SetupRoutes initializes the routes and middleware for the server.
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB, scheduler *utils.Scheduler) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://portal.medisight.example.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())

	// Repositories
	invoiceRepo := repositories.NewInvoiceRepository(cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	collectionsRepo := repositories.NewCollectionsRepository()
	paymentRepo := repositories.NewPaymentRepository()
	followUpRepo := repositories.NewFollowUpRepository()
	claimRepo := repositories.NewClaimRepository()

	// Services
	notificationService := services.NewNotificationService(appointmentRepo, scheduler, config, nil)
	followUpService := services.NewFollowUpService(followUpRepo, invoiceRepo, collectionsRepo, notificationService, scheduler, config.CourtesyCallDelay)
	paymentService := services.NewPaymentService(services.NewGatewayFromEnv(), paymentRepo, followUpRepo)
	aiService := services.NewAIService()
	claimService := services.NewClaimService(claimRepo, services.NewAvailityClient(), config.ClaimStageInterval)
	ehrService := services.NewEHRService(context.Background(), appointmentRepo)

	// Handlers
	billingHandler := handlers.NewBillingHandler(followUpService, paymentService)
	claimHandler := handlers.NewClaimHandler(claimService, aiService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, config.ReminderLeadTime)
	aiHandler := handlers.NewAIHandler(aiService)
	ehrHandler := handlers.NewEHRHandler(ehrService)

	controllers.SetupAPIRoutes(router, config.GetBearerToken(), billingHandler, claimHandler, notificationHandler, aiHandler, ehrHandler)
	controllers.SetupRootRoute(router, db, ehrService)

	return router
}
