package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartroute/busops-backend/internal/services"
)

// TripGenerationHandler exposes the manual trigger and status of the
// recurring trip materialization run
type TripGenerationHandler struct {
	cronService *services.CronService
}

// NewTripGenerationHandler creates a new TripGenerationHandler
func NewTripGenerationHandler(cronService *services.CronService) *TripGenerationHandler {
	return &TripGenerationHandler{cronService: cronService}
}

// Run triggers a generation run immediately
// POST /api/v1/trip-generation/run
func (h *TripGenerationHandler) Run(c *gin.Context) {
	result, err := h.cronService.RunNow()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Trip generation run failed",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             fmt.Sprintf("Generated %d trips across %d schedules", result.TripsCreated, result.SchedulesProcessed),
		"schedules_processed": result.SchedulesProcessed,
		"trips_created":       result.TripsCreated,
		"trips_by_schedule":   result.TripsBySchedule,
	})
}

// Status returns the static generation configuration and job state
// GET /api/v1/trip-generation/status
func (h *TripGenerationHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.cronService.Status())
}
