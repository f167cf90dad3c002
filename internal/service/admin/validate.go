package admin

import (
	"errors"
	"strings"

	"github.com/kirinyoku/airport-go/internal/domain"
)

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

func positiveID(field string, id int64) error {
	if id <= 0 {
		return ValidationError{Field: field, Reason: "must be a positive id"}
	}
	return nil
}

func validateAirplane(a domain.Airplane) error {
	errs := []error{
		required("name", a.Name),
		positiveID("airplane_type_id", a.AirplaneTypeID),
	}

	if a.Rows < 1 {
		errs = append(errs, ValidationError{Field: "rows", Reason: "must be at least 1"})
	}
	if a.SeatsInRow < 1 {
		errs = append(errs, ValidationError{Field: "seats_in_row", Reason: "must be at least 1"})
	}

	return errors.Join(errs...)
}

func validateRoute(r domain.Route) error {
	errs := []error{
		positiveID("source_id", r.SourceID),
		positiveID("destination_id", r.DestinationID),
	}

	if r.Distance < 0 {
		errs = append(errs, ValidationError{Field: "distance", Reason: "must not be negative"})
	}

	return errors.Join(errs...)
}

// validateFlight checks references and requires the arrival to come strictly
// after the departure.
func validateFlight(f domain.Flight) error {
	if err := errors.Join(
		positiveID("route_id", f.RouteID),
		positiveID("airplane_id", f.AirplaneID),
	); err != nil {
		return err
	}

	if f.DepartureTime.IsZero() || f.ArrivalTime.IsZero() {
		return ValidationError{Field: "departure_time", Reason: "departure and arrival are required"}
	}

	if !f.ArrivalTime.After(f.DepartureTime) {
		return ErrInvalidSchedule
	}

	return nil
}
