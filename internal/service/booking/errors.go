package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrEmptyBooking = errors.New("booking has no tickets")

// OutOfRangeError reports a row or seat outside the airplane's seat grid.
type OutOfRangeError struct {
	Field string
	Min   int
	Max   int
	Value int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// InvalidTicketError ties a validation failure to the position of the
// ticket request that caused it.
type InvalidTicketError struct {
	Index int
	Err   error
}

func (e InvalidTicketError) Error() string {
	return fmt.Sprintf("ticket %d: %v", e.Index, e.Err)
}

func (e InvalidTicketError) Unwrap() error {
	return e.Err
}

// ConflictError means the seat is already sold on the flight. Losing a race
// at the unique index reports the same error as the pre-insert check.
type ConflictError struct {
	FlightID int64
	Row      int
	Seat     int
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("seat row %d seat %d on flight %d is already taken", e.Row, e.Seat, e.FlightID)
}

type FlightNotFoundError struct {
	FlightID int64
}

func (e FlightNotFoundError) Error() string {
	return fmt.Sprintf("flight not found: %d", e.FlightID)
}

// InternalConsistencyError means more tickets are sold than the flight has
// seats. It is never corrected silently.
type InternalConsistencyError struct {
	FlightID int64
	Capacity int64
	Sold     int64
}

func (e InternalConsistencyError) Error() string {
	return fmt.Sprintf(
		"flight %d has %d tickets sold for %d seats",
		e.FlightID, e.Sold, e.Capacity,
	)
}

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}
