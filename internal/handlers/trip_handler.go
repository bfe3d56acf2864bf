package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/database"
)

// TripHandler exposes read and cancel operations over materialized trips
type TripHandler struct {
	tripRepo *database.TripRepository
	logger   *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripRepo *database.TripRepository, logger *logrus.Logger) *TripHandler {
	return &TripHandler{tripRepo: tripRepo, logger: logger}
}

// ListByDateRange returns trips departing within [from, to]
// GET /api/v1/trips?from=2026-03-02&to=2026-03-09
func (h *TripHandler) ListByDateRange(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be in YYYY-MM-DD format"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be in YYYY-MM-DD format"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	// End bound is exclusive in the query; include the whole "to" day.
	trips, err := h.tripRepo.GetByDateRange(from, to.AddDate(0, 0, 1))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list trips")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// Get returns one trip
// GET /api/v1/trips/:tripId
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripRepo.GetByID(c.Param("tripId"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip"})
		return
	}

	c.JSON(http.StatusOK, trip)
}

// Delete soft-deletes a trip. The natural key becomes free again, so the next
// generation run will re-create the trip unless its schedule is off.
// DELETE /api/v1/trips/:tripId
func (h *TripHandler) Delete(c *gin.Context) {
	if err := h.tripRepo.SoftDelete(c.Param("tripId")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to delete trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}
