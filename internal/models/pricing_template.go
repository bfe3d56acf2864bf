package models

import (
	"errors"
	"time"
)

// PricingTemplate is a cached fare quote for a (route, vehicleType, seatType,
// occasion) combination. Templates come in two lifecycles: persisted rows
// loaded from the store (ID set), and transient quotes synthesized in memory
// by the pricing resolver (ID empty). Transient templates are never written
// implicitly; saving is an explicit caller action.
type PricingTemplate struct {
	ID             string       `json:"id,omitempty" db:"id"`
	RouteID        string       `json:"route_id" db:"route_id"`
	VehicleType    string       `json:"vehicle_type" db:"vehicle_type"`
	SeatType       string       `json:"seat_type" db:"seat_type"`
	OccasionType   OccasionType `json:"occasion_type" db:"occasion_type"`
	BaseFare       float64      `json:"base_fare" db:"base_fare"`
	VehicleFactor  *float64     `json:"vehicle_factor,omitempty" db:"vehicle_factor"`
	SeatFactor     *float64     `json:"seat_factor,omitempty" db:"seat_factor"`
	FloorFactor    *float64     `json:"floor_factor,omitempty" db:"floor_factor"`
	OccasionFactor *float64     `json:"occasion_factor,omitempty" db:"occasion_factor"`
	FinalPrice     float64      `json:"final_price" db:"final_price"`
	ValidFrom      *time.Time   `json:"valid_from,omitempty" db:"valid_from"`
	ValidTo        *time.Time   `json:"valid_to,omitempty" db:"valid_to"`
	IsDeleted      bool         `json:"is_deleted" db:"is_deleted"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// Persisted reports whether this template is backed by a stored row. Callers
// holding a transient template must save it before relying on it long-term.
func (t *PricingTemplate) Persisted() bool {
	return t.ID != ""
}

// FillNeutralFactors replaces unset factors with the neutral multiplier 1
func (t *PricingTemplate) FillNeutralFactors() {
	one := 1.0
	if t.VehicleFactor == nil {
		t.VehicleFactor = &one
	}
	if t.SeatFactor == nil {
		t.SeatFactor = &one
	}
	if t.FloorFactor == nil {
		t.FloorFactor = &one
	}
	if t.OccasionFactor == nil {
		t.OccasionFactor = &one
	}
}

// CreatePricingTemplateRequest is the admin payload for saving a template,
// including persisting a previously computed transient quote.
type CreatePricingTemplateRequest struct {
	RouteID        string   `json:"route_id" binding:"required"`
	VehicleType    string   `json:"vehicle_type" binding:"required"`
	SeatType       string   `json:"seat_type" binding:"required"`
	OccasionType   string   `json:"occasion_type" binding:"required"`
	BaseFare       float64  `json:"base_fare"`
	VehicleFactor  *float64 `json:"vehicle_factor,omitempty"`
	SeatFactor     *float64 `json:"seat_factor,omitempty"`
	FloorFactor    *float64 `json:"floor_factor,omitempty"`
	OccasionFactor *float64 `json:"occasion_factor,omitempty"`
	ValidFrom      *string  `json:"valid_from,omitempty"` // YYYY-MM-DD
	ValidTo        *string  `json:"valid_to,omitempty"`   // YYYY-MM-DD
}

// Validate validates the create pricing template request
func (r *CreatePricingTemplateRequest) Validate() error {
	if r.BaseFare < 0 {
		return errors.New("base_fare must not be negative")
	}
	for _, f := range []*float64{r.VehicleFactor, r.SeatFactor, r.FloorFactor, r.OccasionFactor} {
		if f != nil && *f < 0 {
			return errors.New("price factors must not be negative")
		}
	}
	if r.ValidFrom != nil {
		if _, err := time.Parse("2006-01-02", *r.ValidFrom); err != nil {
			return errors.New("valid_from must be in YYYY-MM-DD format")
		}
	}
	if r.ValidTo != nil {
		if _, err := time.Parse("2006-01-02", *r.ValidTo); err != nil {
			return errors.New("valid_to must be in YYYY-MM-DD format")
		}
	}
	return nil
}

// UpdatePricingTemplateRequest carries a partial update; nil fields are left
// unchanged by the repository.
type UpdatePricingTemplateRequest struct {
	BaseFare       *float64 `json:"base_fare,omitempty"`
	VehicleFactor  *float64 `json:"vehicle_factor,omitempty"`
	SeatFactor     *float64 `json:"seat_factor,omitempty"`
	FloorFactor    *float64 `json:"floor_factor,omitempty"`
	OccasionFactor *float64 `json:"occasion_factor,omitempty"`
	ValidFrom      *string  `json:"valid_from,omitempty"`
	ValidTo        *string  `json:"valid_to,omitempty"`
}
