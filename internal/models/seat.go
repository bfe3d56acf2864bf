package models

// Seat is one position in a seat map. PriceFactor overrides the seat-type
// factor when set; FloorNo links the seat to its floor's price factor.
type Seat struct {
	ID          string   `json:"id" db:"id"`
	SeatMapID   string   `json:"seat_map_id" db:"seat_map_id"`
	Code        string   `json:"code" db:"code"`
	SeatType    string   `json:"seat_type" db:"seat_type"`
	FloorNo     int      `json:"floor_no" db:"floor_no"`
	PriceFactor *float64 `json:"price_factor,omitempty" db:"price_factor"`
}
