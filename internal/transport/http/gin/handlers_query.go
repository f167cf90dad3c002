package httpgin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/airport-go/internal/domain"
)

// handleList serves a paginated listing.
//
// @Summary  List reference data
// @Param    page       query  int  false  "page number, 1-based"
// @Param    page_size  query  int  false  "page size (max 100)"
// @Router   /countries [get]
// @Router   /cities [get]
// @Router   /airports [get]
// @Router   /airplane-types [get]
// @Router   /crew [get]
// @Router   /routes [get]
func handleList[T any](list func(ctx context.Context, p domain.Page) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := list(c.Request.Context(), parsePage(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		if out == nil {
			out = []T{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  List airplanes
// @Param    name            query  string  false  "name contains (case-insensitive)"
// @Param    airplane_types  query  string  false  "comma separated airplane type ids"
// @Param    capacity_gte    query  int     false  "minimum capacity"
// @Param    page            query  int     false  "page number"
// @Param    page_size       query  int     false  "page size"
// @Success  200  {array}  domain.Airplane
// @Router   /airplanes [get]
func handleListAirplanes(q QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		typeIDs, ok := parseIDList(c.Query("airplane_types"))
		if !ok {
			badRequest(c, "invalid airplane_types")
			return
		}

		f := domain.AirplaneFilter{
			Name:        c.Query("name"),
			TypeIDs:     typeIDs,
			CapacityGTE: parseIntDefault(c.Query("capacity_gte"), 0),
		}

		out, err := q.ListAirplanes(c.Request.Context(), f, parsePage(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		if out == nil {
			out = []domain.Airplane{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Get airplane
// @Param    id  path  int  true  "Airplane ID"
// @Success  200  {object}  domain.Airplane
// @Failure  404  {object}  ErrorResponse
// @Router   /airplanes/{id} [get]
func handleGetAirplane(q QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		a, err := q.GetAirplane(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, a, "public, max-age=300", true)
	}
}

// @Summary  Get route with its flights
// @Param    id  path  int  true  "Route ID"
// @Success  200  {object}  domain.RouteWithFlights
// @Failure  404  {object}  ErrorResponse
// @Router   /routes/{id} [get]
func handleGetRoute(q QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		r, err := q.GetRoute(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		if r.Flights == nil {
			r.Flights = []domain.Flight{}
		}
		c.JSON(http.StatusOK, r)
	}
}

// @Summary  List flights
// @Param    airplanes  query  string  false  "comma separated airplane ids"
// @Param    routes     query  string  false  "comma separated route ids"
// @Param    date       query  string  false  "departure date, YYYY-MM-DD"
// @Param    page       query  int     false  "page number"
// @Param    page_size  query  int     false  "page size"
// @Success  200  {array}  domain.FlightSummary
// @Router   /flights [get]
func handleListFlights(q QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		airplanes, ok := parseIDList(c.Query("airplanes"))
		if !ok {
			badRequest(c, "invalid airplanes")
			return
		}
		routes, ok := parseIDList(c.Query("routes"))
		if !ok {
			badRequest(c, "invalid routes")
			return
		}

		f := domain.FlightFilter{AirplaneIDs: airplanes, RouteIDs: routes}
		if s := c.Query("date"); s != "" {
			d, err := time.Parse(time.DateOnly, s)
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD)")
				return
			}
			f.Date = &d
		}

		out, err := q.ListFlights(c.Request.Context(), f, parsePage(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		if out == nil {
			out = []domain.FlightSummary{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Get flight
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  domain.FlightDetail
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id} [get]
func handleGetFlight(q QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		f, err := q.GetFlight(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, f, "public, max-age=60", true)
	}
}

// @Summary  Get available seats of a flight
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  domain.FlightAvailability
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id}/availability [get]
func handleGetAvailability(q QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		av, err := q.FlightAvailability(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, av, "public, max-age=15", true)
	}
}
