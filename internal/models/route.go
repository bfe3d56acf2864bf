package models

import "time"

// Route represents a fixed bus route between two terminals
type Route struct {
	ID          string    `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Origin      string    `json:"origin" db:"origin"`
	Destination string    `json:"destination" db:"destination"`
	DistanceKM  float64   `json:"distance_km" db:"distance_km"`
	BaseFare    float64   `json:"base_fare" db:"base_fare"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
