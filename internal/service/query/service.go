package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/repository"
	redisrepo "github.com/kirinyoku/airport-go/internal/repository/redis"
	"github.com/kirinyoku/airport-go/internal/service/booking"
)

type Repository interface {
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
	GetFlightDetail(ctx context.Context, id int64) (*domain.FlightDetail, error)
}

// Availability computes the remaining seats of a flight.
type Availability interface {
	AvailableSeats(ctx context.Context, flightID int64) (domain.FlightAvailability, error)
}

type Config struct {
	FlightDetailTTL time.Duration
	AirplaneTTL     time.Duration
}

type Service struct {
	repo         Repository
	availability Availability
	cache        *redisrepo.Cache
	cfg          Config
}

// New builds the query service. With a nil cache every read goes to the
// repository.
func New(repo Repository, availability Availability, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.FlightDetailTTL <= 0 {
		cfg.FlightDetailTTL = 60 * time.Second
	}

	if cfg.AirplaneTTL <= 0 {
		cfg.AirplaneTTL = 5 * time.Minute
	}

	return &Service{
		repo:         repo,
		availability: availability,
		cache:        cache,
		cfg:          cfg,
	}
}

func cached[T any](
	ctx context.Context,
	s *Service,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if s.cache == nil {
		return loader(ctx)
	}
	return redisrepo.GetOrSetJSON(ctx, s.cache, key, ttl, loader)
}

func (s *Service) ListCountries(ctx context.Context, p domain.Page) ([]domain.Country, error) {
	const op = "service.query.ListCountries"

	out, err := s.repo.ListCountries(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) ListCities(ctx context.Context, p domain.Page) ([]domain.City, error) {
	const op = "service.query.ListCities"

	out, err := s.repo.ListCities(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) ListAirports(ctx context.Context, p domain.Page) ([]domain.Airport, error) {
	const op = "service.query.ListAirports"

	out, err := s.repo.ListAirports(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) ListAirplaneTypes(ctx context.Context, p domain.Page) ([]domain.AirplaneType, error) {
	const op = "service.query.ListAirplaneTypes"

	out, err := s.repo.ListAirplaneTypes(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) ListCrew(ctx context.Context, p domain.Page) ([]domain.Crew, error) {
	const op = "service.query.ListCrew"

	out, err := s.repo.ListCrew(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) ListAirplanes(
	ctx context.Context,
	f domain.AirplaneFilter,
	p domain.Page,
) ([]domain.Airplane, error) {
	const op = "service.query.ListAirplanes"

	out, err := s.repo.ListAirplanes(ctx, f, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// GetAirplane retrieves an airplane by its ID, utilizing a caching layer.
//
// Returns:
//   - error: query.ErrAirplaneNotFound if the airplane is not found.
func (s *Service) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	const op = "service.query.GetAirplane"

	a, err := cached(ctx, s, redisrepo.KeyAirplane(id), s.cfg.AirplaneTTL,
		func(ctx context.Context) (domain.Airplane, error) {
			a, err := s.repo.GetAirplane(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Airplane{}, ErrAirplaneNotFound
				}
				return domain.Airplane{}, err
			}
			return *a, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &a, nil
}

func (s *Service) ListRoutes(ctx context.Context, p domain.Page) ([]domain.Route, error) {
	const op = "service.query.ListRoutes"

	out, err := s.repo.ListRoutes(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// GetRoute retrieves a route with its scheduled flights.
//
// Returns:
//   - error: query.ErrRouteNotFound if the route is not found.
func (s *Service) GetRoute(ctx context.Context, id int64) (*domain.RouteWithFlights, error) {
	const op = "service.query.GetRoute"

	r, err := s.repo.GetRoute(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrRouteNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

// ListFlights lists flights with the seats still available on each.
//
// Returns:
//   - error: booking.InternalConsistencyError if a flight is oversold.
func (s *Service) ListFlights(
	ctx context.Context,
	f domain.FlightFilter,
	p domain.Page,
) ([]domain.FlightSummary, error) {
	const op = "service.query.ListFlights"

	if f.Date != nil {
		d := f.Date.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		f.Date = &day
	}

	flights, err := s.repo.ListFlights(ctx, f, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range flights {
		fs := &flights[i]

		av, err := booking.Available(domain.FlightOccupancy{
			FlightID: fs.ID,
			Capacity: fs.AirplaneCapacity,
			Sold:     fs.TicketsSold,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		fs.TicketsAvailable = av.AvailableSeats
		fs.DurationHours = fs.ArrivalTime.Sub(fs.DepartureTime).Hours()
	}

	return flights, nil
}

// GetFlight retrieves a flight detail view, utilizing a caching layer.
//
// Returns:
//   - error: query.ErrFlightNotFound if the flight is not found.
func (s *Service) GetFlight(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	const op = "service.query.GetFlight"

	fd, err := cached(ctx, s, redisrepo.KeyFlightDetail(id), s.cfg.FlightDetailTTL,
		func(ctx context.Context) (domain.FlightDetail, error) {
			fd, err := s.repo.GetFlightDetail(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.FlightDetail{}, ErrFlightNotFound
				}
				return domain.FlightDetail{}, err
			}
			return *fd, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &fd, nil
}

// FlightAvailability returns the remaining seats of a flight, counted at
// call time. It is not cached: a value loaded before a booking commits could
// be stored after the booking's invalidation ran.
//
// Returns:
//   - error: booking.FlightNotFoundError if the flight is not found.
//   - error: booking.InternalConsistencyError if the flight is oversold.
func (s *Service) FlightAvailability(ctx context.Context, id int64) (domain.FlightAvailability, error) {
	const op = "service.query.FlightAvailability"

	av, err := s.availability.AvailableSeats(ctx, id)
	if err != nil {
		return domain.FlightAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	return av, nil
}
