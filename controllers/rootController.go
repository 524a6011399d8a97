package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"medisight/database"
	"medisight/services"
)

// SetupRootRoute registers the unauthenticated liveness endpoints.
func SetupRootRoute(router *gin.Engine, db *gorm.DB, ehr *services.EHRService) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Medisight Practice Automation",
			"status":  "operational",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		subsystems := gin.H{
			"database": "healthy",
			"redis":    "healthy",
			"ehr":      ehr.HealthCheck(),
		}
		status := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			subsystems["database"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
		if err := database.RedisClient.Ping(ctx).Err(); err != nil {
			subsystems["redis"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":     statusWord(status),
			"subsystems": subsystems,
			"checked_at": time.Now().Format(time.RFC3339),
		})
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}
