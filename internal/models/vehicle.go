package models

import "time"

// Vehicle represents a bus in the fleet. PriceFactor multiplies into fares for
// every trip this vehicle runs; SeatMapID links the physical seat layout.
type Vehicle struct {
	ID          string    `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	VehicleType string    `json:"vehicle_type" db:"vehicle_type"`
	PriceFactor *float64  `json:"price_factor,omitempty" db:"price_factor"`
	SeatMapID   string    `json:"seat_map_id" db:"seat_map_id"`
	TotalSeats  int       `json:"total_seats" db:"total_seats"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
