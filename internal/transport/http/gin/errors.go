package httpgin

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/airport-go/internal/service/admin"
	"github.com/kirinyoku/airport-go/internal/service/booking"
	"github.com/kirinyoku/airport-go/internal/service/orders"
	"github.com/kirinyoku/airport-go/internal/service/query"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		invalid     booking.InvalidTicketError
		oor         booking.OutOfRangeError
		conflict    booking.ConflictError
		flightNF    booking.FlightNotFoundError
		limited     booking.RateLimitedError
		consistency booking.InternalConsistencyError
		validation  admin.ValidationError
	)

	switch {
	// booking service
	case errors.Is(err, booking.ErrEmptyBooking):
		badRequest(c, "at least one ticket is required")
	case errors.As(err, &oor):
		prefix := ""
		if errors.As(err, &invalid) {
			prefix = fmt.Sprintf("tickets[%d].", invalid.Index)
		}

		var details []FieldError
		for _, e := range booking.OutOfRangeErrors(err) {
			details = append(details, FieldError{
				Field:   prefix + e.Field,
				Message: fmt.Sprintf("must be in range [%d, %d]", e.Min, e.Max),
			})
		}

		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "seat out of range", Details: details})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: conflict.Error()})
	case errors.As(err, &flightNF):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: flightNF.Error()})
	case errors.As(err, &limited):
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
	case errors.As(err, &consistency):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal consistency error"})

	// admin service
	case errors.As(err, &validation):
		var details []FieldError
		for _, e := range validationErrors(err) {
			details = append(details, FieldError{Field: e.Field, Message: e.Reason})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: details})
	case errors.Is(err, admin.ErrInvalidSchedule):
		badRequest(c, admin.ErrInvalidSchedule.Error())
	case errors.Is(err, admin.ErrCountryConflict),
		errors.Is(err, admin.ErrAirportConflict),
		errors.Is(err, admin.ErrAirplaneTypeConflict),
		errors.Is(err, admin.ErrAirplaneConflict),
		errors.Is(err, admin.ErrSeatsOutsideAirplane):
		c.JSON(http.StatusConflict, ErrorResponse{Error: rootMessage(err)})
	case errors.Is(err, admin.ErrReferenceNotFound),
		errors.Is(err, admin.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: rootMessage(err)})

	// query and orders services
	case errors.Is(err, query.ErrFlightNotFound),
		errors.Is(err, query.ErrAirplaneNotFound),
		errors.Is(err, query.ErrRouteNotFound),
		errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: rootMessage(err)})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// rootMessage returns the message of the innermost wrapped error, without
// the op prefixes added on the way up.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func validationErrors(err error) []admin.ValidationError {
	var out []admin.ValidationError

	switch e := err.(type) {
	case admin.ValidationError:
		return append(out, e)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			out = append(out, validationErrors(inner)...)
		}
	case interface{ Unwrap() error }:
		out = append(out, validationErrors(e.Unwrap())...)
	}

	return out
}
