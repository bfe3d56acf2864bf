package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/database"
	"github.com/smartroute/busops-backend/internal/services"
)

// PricingHandler exposes the read-only price resolution endpoints
type PricingHandler struct {
	resolver *services.PricingResolver
	logger   *logrus.Logger
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(resolver *services.PricingResolver, logger *logrus.Logger) *PricingHandler {
	return &PricingHandler{resolver: resolver, logger: logger}
}

// ResolveForTrip returns the full template set for a trip, including
// transient quotes synthesized for uncovered seat-type/floor combinations
// GET /api/v1/trips/:tripId/pricing
func (h *PricingHandler) ResolveForTrip(c *gin.Context) {
	tripID := c.Param("tripId")

	templates, err := h.resolver.ResolveForTrip(tripID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("trip_id", tripID).Error("Failed to resolve trip pricing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve pricing"})
		return
	}

	transient := 0
	for i := range templates {
		if !templates[i].Persisted() {
			transient++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"trip_id":         tripID,
		"templates":       templates,
		"transient_count": transient,
	})
}

// ResolveForTripAndSeat returns the resolved price for one seat on one trip
// GET /api/v1/trips/:tripId/seats/:seatId/price
func (h *PricingHandler) ResolveForTripAndSeat(c *gin.Context) {
	tripID := c.Param("tripId")
	seatID := c.Param("seatId")

	template, err := h.resolver.ResolveForTripAndSeat(tripID, seatID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).WithFields(logrus.Fields{
			"trip_id": tripID,
			"seat_id": seatID,
		}).Error("Failed to resolve seat price")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip_id":   tripID,
		"seat_id":   seatID,
		"persisted": template.Persisted(),
		"template":  template,
	})
}
