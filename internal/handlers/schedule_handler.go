package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/database"
	"github.com/smartroute/busops-backend/internal/models"
)

// ScheduleHandler exposes the admin surface over recurrence rules. The trip
// generator only ever reads schedules; edits here take effect on the next
// generation run.
type ScheduleHandler struct {
	scheduleRepo *database.ScheduleRepository
	logger       *logrus.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleRepo *database.ScheduleRepository, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduleRepo: scheduleRepo, logger: logger}
}

// List returns schedules with pagination
// GET /api/v1/schedules?limit=50&offset=0
func (h *ScheduleHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	schedules, err := h.scheduleRepo.List(limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list schedules")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// Get returns one schedule
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.scheduleRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// Create creates a new recurrence rule
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule := &models.Schedule{
		Code:       req.Code,
		RouteID:    req.RouteID,
		OccasionID: req.OccasionID,
		DaysOfWeek: req.DaysOfWeek,
		IsActive:   true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if req.StartDate != nil {
		start, _ := time.Parse("2006-01-02", *req.StartDate)
		schedule.StartDate = &start
	}
	if req.EndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.EndDate)
		schedule.EndDate = &end
	}

	if err := h.scheduleRepo.Create(schedule); err != nil {
		h.logger.WithError(err).Error("Failed to create schedule")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// Update replaces a schedule's recurrence rule
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	schedule, err := h.scheduleRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule.RouteID = req.RouteID
	schedule.OccasionID = req.OccasionID
	schedule.DaysOfWeek = req.DaysOfWeek
	schedule.StartDate = nil
	schedule.EndDate = nil
	if req.StartDate != nil {
		start, _ := time.Parse("2006-01-02", *req.StartDate)
		schedule.StartDate = &start
	}
	if req.EndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.EndDate)
		schedule.EndDate = &end
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	if err := h.scheduleRepo.Update(schedule); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to update schedule")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// Delete deactivates a schedule; its already-materialized trips are kept
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.scheduleRepo.Deactivate(c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deactivated"})
}
