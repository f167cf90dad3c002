package httpgin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type BookingService interface {
	Book(ctx context.Context, userID int64, reqs []domain.TicketRequest) (*domain.OrderWithTickets, error)
}

type QueryService interface {
	ListCountries(ctx context.Context, p domain.Page) ([]domain.Country, error)
	ListCities(ctx context.Context, p domain.Page) ([]domain.City, error)
	ListAirports(ctx context.Context, p domain.Page) ([]domain.Airport, error)
	ListAirplaneTypes(ctx context.Context, p domain.Page) ([]domain.AirplaneType, error)
	ListCrew(ctx context.Context, p domain.Page) ([]domain.Crew, error)
	ListAirplanes(ctx context.Context, f domain.AirplaneFilter, p domain.Page) ([]domain.Airplane, error)
	GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error)
	ListRoutes(ctx context.Context, p domain.Page) ([]domain.Route, error)
	GetRoute(ctx context.Context, id int64) (*domain.RouteWithFlights, error)
	ListFlights(ctx context.Context, f domain.FlightFilter, p domain.Page) ([]domain.FlightSummary, error)
	GetFlight(ctx context.Context, id int64) (*domain.FlightDetail, error)
	FlightAvailability(ctx context.Context, id int64) (domain.FlightAvailability, error)
}

type AdminService interface {
	CreateCountry(ctx context.Context, name string) (int64, error)
	CreateCity(ctx context.Context, c domain.City) (int64, error)
	CreateAirport(ctx context.Context, a domain.Airport) (int64, error)
	CreateAirplaneType(ctx context.Context, name string) (int64, error)
	CreateAirplane(ctx context.Context, a domain.Airplane) (int64, error)
	CreateRoute(ctx context.Context, r domain.Route) (int64, error)
	CreateCrew(ctx context.Context, c domain.Crew) (int64, error)
	CreateFlight(ctx context.Context, f domain.Flight) (int64, error)
	UpdateFlight(ctx context.Context, f domain.Flight) error
}

type OrderService interface {
	ListOrders(ctx context.Context, userID int64, p domain.Page) ([]domain.OrderWithTickets, error)
	GetOrderWithTickets(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.OrderWithTickets, error)
}

type IdempotencyStore interface {
	AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	SaveResult(ctx context.Context, key string, payload []byte) error
	GetResult(ctx context.Context, key string) ([]byte, bool, error)
	Release(ctx context.Context, key string) error
}

type Services struct {
	Booking BookingService
	Query   QueryService
	Admin   AdminService
	Orders  OrderService
}

func NewRouter(
	svcs Services,
	idem IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), MetricsMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// reference data
	r.GET("/countries", handleList(svcs.Query.ListCountries))
	r.GET("/cities", handleList(svcs.Query.ListCities))
	r.GET("/airports", handleList(svcs.Query.ListAirports))
	r.GET("/airplane-types", handleList(svcs.Query.ListAirplaneTypes))
	r.GET("/crew", handleList(svcs.Query.ListCrew))

	r.GET("/airplanes", handleListAirplanes(svcs.Query))
	r.GET("/airplanes/:id", handleGetAirplane(svcs.Query))
	r.GET("/routes", handleList(svcs.Query.ListRoutes))
	r.GET("/routes/:id", handleGetRoute(svcs.Query))

	r.GET("/flights", handleListFlights(svcs.Query))
	r.GET("/flights/:id", handleGetFlight(svcs.Query))
	r.GET("/flights/:id/availability", handleGetAvailability(svcs.Query))

	r.POST("/orders", handleCreateOrder(svcs.Booking, idem))
	r.GET("/orders", handleListOrders(svcs.Orders))
	r.GET("/orders/:id", handleGetOrder(svcs.Orders))

	// Authentication sits in front of this service; /admin is expected to be
	// restricted there.
	admin := r.Group("/admin")
	{
		admin.POST("/countries", handleCreateCountry(svcs.Admin))
		admin.POST("/cities", handleCreateCity(svcs.Admin))
		admin.POST("/airports", handleCreateAirport(svcs.Admin))
		admin.POST("/airplane-types", handleCreateAirplaneType(svcs.Admin))
		admin.POST("/airplanes", handleCreateAirplane(svcs.Admin))
		admin.POST("/routes", handleCreateRoute(svcs.Admin))
		admin.POST("/crew", handleCreateCrew(svcs.Admin))
		admin.POST("/flights", handleCreateFlight(svcs.Admin))
		admin.PUT("/flights/:id", handleUpdateFlight(svcs.Admin))
	}

	return r
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parsePage(c *gin.Context) domain.Page {
	return domain.NewPage(
		parseIntDefault(c.Query("page"), 1),
		parseIntDefault(c.Query("page_size"), domain.DefaultPageSize),
	)
}

// parseIDList parses a comma separated id list such as "1,2,3".
func parseIDList(s string) ([]int64, bool) {
	if s == "" {
		return nil, true
	}

	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, id)
	}

	return out, true
}

func parseUserID(c *gin.Context) (int64, bool) {
	v, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid user_id")
		return 0, false
	}
	return v, true
}
