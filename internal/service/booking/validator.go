package booking

import (
	"errors"

	"github.com/kirinyoku/airport-go/internal/domain"
)

// ValidateSeat checks (row, seat) against the grid. Row and seat are both
// checked; when both are out of range the two errors are joined, row first.
func ValidateSeat(grid domain.SeatGrid, row, seat int) error {
	var errs []error

	if !grid.ContainsRow(row) {
		errs = append(errs, OutOfRangeError{Field: "row", Min: 1, Max: grid.Rows, Value: row})
	}

	if !grid.ContainsSeat(seat) {
		errs = append(errs, OutOfRangeError{Field: "seat", Min: 1, Max: grid.SeatsInRow, Value: seat})
	}

	return errors.Join(errs...)
}

// OutOfRangeErrors returns every OutOfRangeError found in err's tree.
func OutOfRangeErrors(err error) []OutOfRangeError {
	var out []OutOfRangeError
	collectOutOfRange(err, &out)
	return out
}

func collectOutOfRange(err error, out *[]OutOfRangeError) {
	if err == nil {
		return
	}

	if e, ok := err.(OutOfRangeError); ok {
		*out = append(*out, e)
		return
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			collectOutOfRange(e, out)
		}
	case interface{ Unwrap() error }:
		collectOutOfRange(u.Unwrap(), out)
	}
}

// Available derives the remaining seats of a flight from its occupancy.
func Available(occ domain.FlightOccupancy) (domain.FlightAvailability, error) {
	left := occ.Capacity - occ.Sold
	if left < 0 {
		return domain.FlightAvailability{}, InternalConsistencyError{
			FlightID: occ.FlightID,
			Capacity: occ.Capacity,
			Sold:     occ.Sold,
		}
	}

	return domain.FlightAvailability{FlightID: occ.FlightID, AvailableSeats: left}, nil
}
