package httpgin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/airport-go/internal/domain"
)

// createHandler binds a request of type R, converts it and responds 201 with
// the new id.
func createHandler[R any](create func(ctx context.Context, req R) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		id, err := create(c.Request.Context(), req)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  Create country
// @Param    req body  CreateNamedRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/countries [post]
func handleCreateCountry(svc AdminService) gin.HandlerFunc {
	return createHandler(func(ctx context.Context, req CreateNamedRequest) (int64, error) {
		return svc.CreateCountry(ctx, req.Name)
	})
}

// @Summary  Create city
// @Param    req body  CreateCityRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Failure  404 {object} ErrorResponse "country not found"
// @Router   /admin/cities [post]
func handleCreateCity(svc AdminService) gin.HandlerFunc {
	return createHandler(func(ctx context.Context, req CreateCityRequest) (int64, error) {
		return svc.CreateCity(ctx, domain.City{Name: req.Name, CountryID: req.CountryID})
	})
}

// @Summary  Create airport
// @Param    req body  CreateAirportRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Failure  404 {object} ErrorResponse "city not found"
// @Failure  409 {object} ErrorResponse
// @Router   /admin/airports [post]
func handleCreateAirport(svc AdminService) gin.HandlerFunc {
	return createHandler(func(ctx context.Context, req CreateAirportRequest) (int64, error) {
		return svc.CreateAirport(ctx, domain.Airport{
			Name:           req.Name,
			CityID:         req.CityID,
			ClosestBigCity: req.ClosestBigCity,
		})
	})
}

// @Summary  Create airplane type
// @Param    req body  CreateNamedRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/airplane-types [post]
func handleCreateAirplaneType(svc AdminService) gin.HandlerFunc {
	return createHandler(func(ctx context.Context, req CreateNamedRequest) (int64, error) {
		return svc.CreateAirplaneType(ctx, req.Name)
	})
}

// @Summary  Create airplane
// @Param    req body  CreateAirplaneRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse "airplane type not found"
// @Failure  409 {object} ErrorResponse
// @Router   /admin/airplanes [post]
func handleCreateAirplane(svc AdminService) gin.HandlerFunc {
	return createHandler(func(ctx context.Context, req CreateAirplaneRequest) (int64, error) {
		return svc.CreateAirplane(ctx, domain.Airplane{
			Name:           req.Name,
			Rows:           req.Rows,
			SeatsInRow:     req.SeatsInRow,
			AirplaneTypeID: req.AirplaneTypeID,
		})
	})
}

// @Summary  Create route
// @Param    req body  CreateRouteRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Failure  404 {object} ErrorResponse "airport not found"
// @Router   /admin/routes [post]
func handleCreateRoute(svc AdminService) gin.HandlerFunc {
	return createHandler(func(ctx context.Context, req CreateRouteRequest) (int64, error) {
		return svc.CreateRoute(ctx, domain.Route{
			SourceID:      req.SourceID,
			DestinationID: req.DestinationID,
			Distance:      req.Distance,
		})
	})
}

// @Summary  Create crew member
// @Param    req body  CreateCrewRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /admin/crew [post]
func handleCreateCrew(svc AdminService) gin.HandlerFunc {
	return createHandler(func(ctx context.Context, req CreateCrewRequest) (int64, error) {
		return svc.CreateCrew(ctx, domain.Crew{FirstName: req.FirstName, LastName: req.LastName})
	})
}

// @Summary  Create flight
// @Param    req body  FlightRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Failure  400 {object} ErrorResponse "invalid schedule"
// @Failure  404 {object} ErrorResponse "route, airplane or crew not found"
// @Router   /admin/flights [post]
func handleCreateFlight(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		f, err := req.toDomain(0)
		if err != nil {
			badRequest(c, "departure_time and arrival_time must be RFC3339")
			return
		}

		id, err := svc.CreateFlight(c.Request.Context(), f)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  Update flight
// @Param    id  path  int  true  "Flight ID"
// @Param    req body  FlightRequest true "payload"
// @Success  204
// @Failure  400 {object} ErrorResponse "invalid schedule"
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "sold seats outside the new airplane"
// @Router   /admin/flights/{id} [put]
func handleUpdateFlight(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req FlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		f, err := req.toDomain(id)
		if err != nil {
			badRequest(c, "departure_time and arrival_time must be RFC3339")
			return
		}

		if err := svc.UpdateFlight(c.Request.Context(), f); err != nil {
			respondErr(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
