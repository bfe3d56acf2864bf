package services

import (
	"errors"

	"github.com/smartroute/busops-backend/internal/config"
	"github.com/smartroute/busops-backend/internal/models"
)

// ErrNoCapacity is returned when no vehicle, driver or attendant can be
// assigned to a trip draft.
var ErrNoCapacity = errors.New("no resources available for trip")

// ResourceAllocation holds the resources assigned to one trip draft
type ResourceAllocation struct {
	VehicleID   *string
	DriverID    *string
	AttendantID *string
}

// ResourceAllocator assigns a vehicle, driver and attendant to a trip draft.
// A real implementation would consult rosters and vehicle availability; the
// trip materializer only depends on this contract.
type ResourceAllocator interface {
	Allocate(trip *models.Trip) (*ResourceAllocation, error)
}

// StaticResourceAllocator assigns the same configured resources to every
// trip. It stands in until a rostering service exists; unset IDs are left
// nil so the admin flow can fill them later.
type StaticResourceAllocator struct {
	cfg config.ResourceConfig
}

// NewStaticResourceAllocator creates a new StaticResourceAllocator
func NewStaticResourceAllocator(cfg config.ResourceConfig) *StaticResourceAllocator {
	return &StaticResourceAllocator{cfg: cfg}
}

// Allocate returns the fixed configured resources for any trip
func (a *StaticResourceAllocator) Allocate(trip *models.Trip) (*ResourceAllocation, error) {
	allocation := &ResourceAllocation{}
	if a.cfg.DefaultVehicleID != "" {
		vehicleID := a.cfg.DefaultVehicleID
		allocation.VehicleID = &vehicleID
	}
	if a.cfg.DefaultDriverID != "" {
		driverID := a.cfg.DefaultDriverID
		allocation.DriverID = &driverID
	}
	if a.cfg.DefaultAttendantID != "" {
		attendantID := a.cfg.DefaultAttendantID
		allocation.AttendantID = &attendantID
	}
	return allocation, nil
}
