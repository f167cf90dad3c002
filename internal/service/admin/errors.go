package admin

import (
	"errors"
	"fmt"
)

var (
	ErrCountryConflict      = errors.New("country already exists")
	ErrAirportConflict      = errors.New("airport already exists")
	ErrAirplaneTypeConflict = errors.New("airplane type already exists")
	ErrAirplaneConflict     = errors.New("airplane already exists")
	ErrReferenceNotFound    = errors.New("referenced entity not found")
	ErrFlightNotFound       = errors.New("flight not found")
	ErrInvalidSchedule      = errors.New("arrival time must be after departure time")
	ErrSeatsOutsideAirplane = errors.New("sold tickets do not fit the new airplane")
)

// ValidationError reports a field that failed input validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
