package services

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/models"
)

type templateStore interface {
	FindByRouteVehicleOccasion(routeID, vehicleType string, occasionFactor float64) ([]models.PricingTemplate, error)
	FindByRouteVehicleSeatOccasion(routeID, vehicleType, seatType string, occasionFactor float64) ([]models.PricingTemplate, error)
	Create(template *models.PricingTemplate) error
}

type seatMapReader interface {
	GetSeatTypeFactors(seatMapID string) (map[string]float64, error)
	GetFloorFactors(seatMapID string) (map[int]float64, error)
}

type tripReader interface {
	GetByID(tripID string) (*models.Trip, error)
}

type seatReader interface {
	GetByID(seatID string) (*models.Seat, error)
}

type routeReader interface {
	GetByID(routeID string) (*models.Route, error)
}

type vehicleReader interface {
	GetByID(vehicleID string) (*models.Vehicle, error)
}

// PricingResolver resolves the price-template set for a trip, synthesizing
// transient quotes for combinations no persisted template covers. All resolve
// paths are read-only; a template is only ever written through SaveTemplate.
type PricingResolver struct {
	templates templateStore
	seatMaps  seatMapReader
	trips     tripReader
	seats     seatReader
	routes    routeReader
	vehicles  vehicleReader
	logger    *logrus.Logger
}

// NewPricingResolver creates a new PricingResolver
func NewPricingResolver(
	templates templateStore,
	seatMaps seatMapReader,
	trips tripReader,
	seats seatReader,
	routes routeReader,
	vehicles vehicleReader,
	logger *logrus.Logger,
) *PricingResolver {
	return &PricingResolver{
		templates: templates,
		seatMaps:  seatMaps,
		trips:     trips,
		seats:     seats,
		routes:    routes,
		vehicles:  vehicles,
		logger:    logger,
	}
}

// ResolveForTrip returns the full price-template set for a trip: persisted
// templates with their prices recomputed, plus transient templates
// synthesized for every (seatType, floor) combination of the vehicle's seat
// map that no persisted template already covers for that seat type.
// Transient templates carry no occasion type; it is assigned when an admin
// chooses to save one.
func (r *PricingResolver) ResolveForTrip(tripID string) ([]models.PricingTemplate, error) {
	trip, err := r.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.VehicleID == nil {
		return nil, fmt.Errorf("trip %s has no vehicle assigned", tripID)
	}
	vehicle, err := r.vehicles.GetByID(*trip.VehicleID)
	if err != nil {
		return nil, err
	}
	route, err := r.routes.GetByID(trip.RouteID)
	if err != nil {
		return nil, err
	}

	persisted, err := r.templates.FindByRouteVehicleOccasion(route.ID, vehicle.VehicleType, trip.OccasionFactor)
	if err != nil {
		return nil, err
	}

	covered := make(map[string]bool, len(persisted))
	resolved := make([]models.PricingTemplate, 0, len(persisted))
	for _, template := range persisted {
		template.FillNeutralFactors()
		template.FinalPrice = FinalPrice(
			&template.BaseFare,
			template.VehicleFactor, template.SeatFactor,
			template.FloorFactor, template.OccasionFactor,
		)
		covered[template.SeatType] = true
		resolved = append(resolved, template)
	}

	seatTypeFactors, err := r.seatMaps.GetSeatTypeFactors(vehicle.SeatMapID)
	if err != nil {
		return nil, err
	}
	floorFactors, err := r.seatMaps.GetFloorFactors(vehicle.SeatMapID)
	if err != nil {
		return nil, err
	}

	seatTypes := make([]string, 0, len(seatTypeFactors))
	for seatType := range seatTypeFactors {
		seatTypes = append(seatTypes, seatType)
	}
	sort.Strings(seatTypes)
	floors := make([]int, 0, len(floorFactors))
	for floorNo := range floorFactors {
		floors = append(floors, floorNo)
	}
	sort.Ints(floors)

	for _, seatType := range seatTypes {
		if covered[seatType] {
			continue
		}
		seatFactor := seatTypeFactors[seatType]
		for _, floorNo := range floors {
			floorFactor := floorFactors[floorNo]
			resolved = append(resolved, r.synthesize(
				route, vehicle, seatType, seatFactor, floorFactor, trip.OccasionFactor,
			))
		}
	}

	return resolved, nil
}

// ResolveForTripAndSeat resolves the price of one seat on one trip. An
// unknown trip or seat is a client-facing not-found, never a system fault.
// When persisted templates match, the first is returned as stored; otherwise
// a transient template is computed and returned without persisting it.
func (r *PricingResolver) ResolveForTripAndSeat(tripID, seatID string) (*models.PricingTemplate, error) {
	trip, err := r.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	seat, err := r.seats.GetByID(seatID)
	if err != nil {
		return nil, err
	}
	if trip.VehicleID == nil {
		return nil, fmt.Errorf("trip %s has no vehicle assigned", tripID)
	}
	vehicle, err := r.vehicles.GetByID(*trip.VehicleID)
	if err != nil {
		return nil, err
	}
	route, err := r.routes.GetByID(trip.RouteID)
	if err != nil {
		return nil, err
	}

	matches, err := r.templates.FindByRouteVehicleSeatOccasion(
		route.ID, vehicle.VehicleType, seat.SeatType, trip.OccasionFactor,
	)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return &matches[0], nil
	}

	seatFactor := 1.0
	if seat.PriceFactor != nil {
		seatFactor = *seat.PriceFactor
	}
	floorFactor := 1.0
	if floorFactors, err := r.seatMaps.GetFloorFactors(seat.SeatMapID); err != nil {
		return nil, err
	} else if factor, ok := floorFactors[seat.FloorNo]; ok {
		floorFactor = factor
	}

	template := r.synthesize(route, vehicle, seat.SeatType, seatFactor, floorFactor, trip.OccasionFactor)
	return &template, nil
}

// SaveTemplate is the explicit persistence path for a template, including a
// transient quote a caller decided to keep. Factors are normalized and the
// final price recomputed before the write so a stored price can never
// disagree with the formula.
func (r *PricingResolver) SaveTemplate(template *models.PricingTemplate) error {
	template.FillNeutralFactors()
	template.FinalPrice = FinalPrice(
		&template.BaseFare,
		template.VehicleFactor, template.SeatFactor,
		template.FloorFactor, template.OccasionFactor,
	)
	if err := r.templates.Create(template); err != nil {
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"template_id": template.ID,
		"route_id":    template.RouteID,
		"seat_type":   template.SeatType,
	}).Info("Pricing template saved")

	return nil
}

func (r *PricingResolver) synthesize(
	route *models.Route,
	vehicle *models.Vehicle,
	seatType string,
	seatFactor, floorFactor, occasionFactor float64,
) models.PricingTemplate {
	vehicleFactor := 1.0
	if vehicle.PriceFactor != nil {
		vehicleFactor = *vehicle.PriceFactor
	}

	template := models.PricingTemplate{
		RouteID:        route.ID,
		VehicleType:    vehicle.VehicleType,
		SeatType:       seatType,
		BaseFare:       route.BaseFare,
		VehicleFactor:  &vehicleFactor,
		SeatFactor:     &seatFactor,
		FloorFactor:    &floorFactor,
		OccasionFactor: &occasionFactor,
	}
	template.FinalPrice = FinalPrice(
		&template.BaseFare,
		template.VehicleFactor, template.SeatFactor,
		template.FloorFactor, template.OccasionFactor,
	)
	return template
}
