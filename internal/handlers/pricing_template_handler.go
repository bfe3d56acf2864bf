package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/database"
	"github.com/smartroute/busops-backend/internal/models"
	"github.com/smartroute/busops-backend/internal/services"
)

// PricingTemplateHandler exposes admin CRUD over persisted price templates.
// Creation goes through the resolver's save path so the final price is always
// recomputed from the factors.
type PricingTemplateHandler struct {
	templateRepo *database.PricingTemplateRepository
	resolver     *services.PricingResolver
	logger       *logrus.Logger
}

// NewPricingTemplateHandler creates a new PricingTemplateHandler
func NewPricingTemplateHandler(
	templateRepo *database.PricingTemplateRepository,
	resolver *services.PricingResolver,
	logger *logrus.Logger,
) *PricingTemplateHandler {
	return &PricingTemplateHandler{
		templateRepo: templateRepo,
		resolver:     resolver,
		logger:       logger,
	}
}

// Create persists a template, including a transient quote a caller resolved
// earlier and decided to keep
// POST /api/v1/pricing-templates
func (h *PricingTemplateHandler) Create(c *gin.Context) {
	var req models.CreatePricingTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template := &models.PricingTemplate{
		RouteID:        req.RouteID,
		VehicleType:    req.VehicleType,
		SeatType:       req.SeatType,
		OccasionType:   models.OccasionType(req.OccasionType),
		BaseFare:       req.BaseFare,
		VehicleFactor:  req.VehicleFactor,
		SeatFactor:     req.SeatFactor,
		FloorFactor:    req.FloorFactor,
		OccasionFactor: req.OccasionFactor,
	}
	if req.ValidFrom != nil {
		from, _ := time.Parse("2006-01-02", *req.ValidFrom)
		template.ValidFrom = &from
	}
	if req.ValidTo != nil {
		to, _ := time.Parse("2006-01-02", *req.ValidTo)
		template.ValidTo = &to
	}

	if err := h.resolver.SaveTemplate(template); err != nil {
		h.logger.WithError(err).Error("Failed to create pricing template")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pricing template"})
		return
	}

	c.JSON(http.StatusCreated, template)
}

// Get returns one template
// GET /api/v1/pricing-templates/:id
func (h *PricingTemplateHandler) Get(c *gin.Context) {
	template, err := h.templateRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pricing template"})
		return
	}

	c.JSON(http.StatusOK, template)
}

// ListByRoute returns all templates for a route
// GET /api/v1/routes/:routeId/pricing-templates
func (h *PricingTemplateHandler) ListByRoute(c *gin.Context) {
	templates, err := h.templateRepo.ListByRoute(c.Param("routeId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pricing templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// Update replaces a template's pricing fields
// PUT /api/v1/pricing-templates/:id
func (h *PricingTemplateHandler) Update(c *gin.Context) {
	template, err := h.templateRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pricing template"})
		return
	}

	var req models.UpdatePricingTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applyTemplateUpdate(template, &req)
	template.FinalPrice = services.FinalPrice(
		&template.BaseFare,
		template.VehicleFactor, template.SeatFactor,
		template.FloorFactor, template.OccasionFactor,
	)

	if err := h.templateRepo.Update(template); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing template not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to update pricing template")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pricing template"})
		return
	}

	c.JSON(http.StatusOK, template)
}

// Patch applies a partial update. The final price is recomputed from the
// merged factors and written in the same statement.
// PATCH /api/v1/pricing-templates/:id
func (h *PricingTemplateHandler) Patch(c *gin.Context) {
	template, err := h.templateRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pricing template"})
		return
	}

	var req models.UpdatePricingTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.BaseFare != nil {
		fields["base_fare"] = *req.BaseFare
	}
	if req.VehicleFactor != nil {
		fields["vehicle_factor"] = *req.VehicleFactor
	}
	if req.SeatFactor != nil {
		fields["seat_factor"] = *req.SeatFactor
	}
	if req.FloorFactor != nil {
		fields["floor_factor"] = *req.FloorFactor
	}
	if req.OccasionFactor != nil {
		fields["occasion_factor"] = *req.OccasionFactor
	}
	if req.ValidFrom != nil {
		from, err := time.Parse("2006-01-02", *req.ValidFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid_from must be in YYYY-MM-DD format"})
			return
		}
		fields["valid_from"] = from
	}
	if req.ValidTo != nil {
		to, err := time.Parse("2006-01-02", *req.ValidTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid_to must be in YYYY-MM-DD format"})
			return
		}
		fields["valid_to"] = to
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	applyTemplateUpdate(template, &req)
	fields["final_price"] = services.FinalPrice(
		&template.BaseFare,
		template.VehicleFactor, template.SeatFactor,
		template.FloorFactor, template.OccasionFactor,
	)

	if err := h.templateRepo.PartialUpdate(template.ID, fields); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing template not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to patch pricing template")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pricing template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pricing template updated"})
}

// Delete soft-deletes a template
// DELETE /api/v1/pricing-templates/:id
func (h *PricingTemplateHandler) Delete(c *gin.Context) {
	if err := h.templateRepo.SoftDelete(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pricing template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pricing template deleted"})
}

func applyTemplateUpdate(template *models.PricingTemplate, req *models.UpdatePricingTemplateRequest) {
	if req.BaseFare != nil {
		template.BaseFare = *req.BaseFare
	}
	if req.VehicleFactor != nil {
		template.VehicleFactor = req.VehicleFactor
	}
	if req.SeatFactor != nil {
		template.SeatFactor = req.SeatFactor
	}
	if req.FloorFactor != nil {
		template.FloorFactor = req.FloorFactor
	}
	if req.OccasionFactor != nil {
		template.OccasionFactor = req.OccasionFactor
	}
	if req.ValidFrom != nil {
		if from, err := time.Parse("2006-01-02", *req.ValidFrom); err == nil {
			template.ValidFrom = &from
		}
	}
	if req.ValidTo != nil {
		if to, err := time.Parse("2006-01-02", *req.ValidTo); err == nil {
			template.ValidTo = &to
		}
	}
}
