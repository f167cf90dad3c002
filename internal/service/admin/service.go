package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/repository"
	"github.com/kirinyoku/airport-go/internal/uow"
)

type Repository interface {
	CreateCountry(ctx context.Context, name string) (int64, error)
	CreateCity(ctx context.Context, c domain.City) (int64, error)
	CreateAirport(ctx context.Context, a domain.Airport) (int64, error)
	CreateAirplaneType(ctx context.Context, name string) (int64, error)
	CreateAirplane(ctx context.Context, a domain.Airplane) (int64, error)
	CreateRoute(ctx context.Context, r domain.Route) (int64, error)
	CreateCrew(ctx context.Context, c domain.Crew) (int64, error)
	CreateFlight(ctx context.Context, f domain.Flight) (int64, error)
	UpdateFlight(ctx context.Context, f domain.Flight) error
	CountTicketsOutsideGrid(ctx context.Context, flightID, airplaneID int64) (int64, error)
}

type Cache interface {
	InvalidateFlight(ctx context.Context, flightID int64) error
}

type Publisher interface {
	PublishFlightChanged(ctx context.Context, flightID int64) error
}

type Service struct {
	repo   Repository
	uow    *uow.UoW
	cache  Cache
	pubsub Publisher
}

// New builds the admin service. cache and pubsub may be nil.
func New(repo Repository, tx uow.TxRunner, cache Cache, pubsub Publisher) *Service {
	return &Service{
		repo:   repo,
		uow:    uow.NewUoW(tx),
		cache:  cache,
		pubsub: pubsub,
	}
}

func (s *Service) CreateCountry(ctx context.Context, name string) (int64, error) {
	const op = "service.admin.CreateCountry"

	if err := required("name", name); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateCountry(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, ErrCountryConflict))
	}

	return id, nil
}

func (s *Service) CreateCity(ctx context.Context, c domain.City) (int64, error) {
	const op = "service.admin.CreateCity"

	if err := errors.Join(required("name", c.Name), positiveID("country_id", c.CountryID)); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateCity(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, nil))
	}

	return id, nil
}

func (s *Service) CreateAirport(ctx context.Context, a domain.Airport) (int64, error) {
	const op = "service.admin.CreateAirport"

	if err := errors.Join(required("name", a.Name), positiveID("city_id", a.CityID)); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateAirport(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, ErrAirportConflict))
	}

	return id, nil
}

func (s *Service) CreateAirplaneType(ctx context.Context, name string) (int64, error) {
	const op = "service.admin.CreateAirplaneType"

	if err := required("name", name); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateAirplaneType(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, ErrAirplaneTypeConflict))
	}

	return id, nil
}

// CreateAirplane creates an airplane with a rows × seats_in_row seat grid.
//
// Returns:
//   - error: ValidationError if rows or seats_in_row is below 1.
//   - error: admin.ErrAirplaneConflict if the name is taken.
//   - error: admin.ErrReferenceNotFound if the airplane type does not exist.
func (s *Service) CreateAirplane(ctx context.Context, a domain.Airplane) (int64, error) {
	const op = "service.admin.CreateAirplane"

	if err := validateAirplane(a); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateAirplane(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, ErrAirplaneConflict))
	}

	return id, nil
}

// CreateRoute creates a route. Source and destination may be the same
// airport.
func (s *Service) CreateRoute(ctx context.Context, r domain.Route) (int64, error) {
	const op = "service.admin.CreateRoute"

	if err := validateRoute(r); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateRoute(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, nil))
	}

	return id, nil
}

func (s *Service) CreateCrew(ctx context.Context, c domain.Crew) (int64, error) {
	const op = "service.admin.CreateCrew"

	if err := errors.Join(required("first_name", c.FirstName), required("last_name", c.LastName)); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateCrew(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, nil))
	}

	return id, nil
}

// CreateFlight creates a flight and assigns its crew in one transaction.
//
// Returns:
//   - error: admin.ErrInvalidSchedule unless arrival is after departure.
//   - error: admin.ErrReferenceNotFound if the route, airplane or a crew
//     member does not exist.
func (s *Service) CreateFlight(ctx context.Context, f domain.Flight) (int64, error) {
	const op = "service.admin.CreateFlight"

	if err := validateFlight(f); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.repo.CreateFlight(ctx, f)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err, nil))
	}

	return id, nil
}

// UpdateFlight replaces the route, airplane, schedule and crew of a flight.
// Swapping the airplane is refused while sold tickets would fall outside the
// new seat grid.
//
// It runs at READ COMMITTED: the UPDATE waits for bookings holding the
// flight row, and the sold-seat count that follows takes a fresh snapshot
// that includes their tickets.
//
// Returns:
//   - error: admin.ErrFlightNotFound if the flight does not exist.
//   - error: admin.ErrInvalidSchedule unless arrival is after departure.
//   - error: admin.ErrSeatsOutsideAirplane if sold seats do not fit.
//   - error: admin.ErrReferenceNotFound for unknown route, airplane or crew.
func (s *Service) UpdateFlight(ctx context.Context, f domain.Flight) error {
	const op = "service.admin.UpdateFlight"

	if err := errors.Join(positiveID("id", f.ID), validateFlight(f)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.uow.DoWithOpts(ctx, &pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(
		ctx context.Context,
		after func(uow.AfterCommit),
	) error {
		if err := s.repo.UpdateFlight(ctx, f); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrFlightNotFound
			}
			return err
		}

		outside, err := s.repo.CountTicketsOutsideGrid(ctx, f.ID, f.AirplaneID)
		if err != nil {
			return err
		}
		if outside > 0 {
			return ErrSeatsOutsideAirplane
		}

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateFlight(ctx, f.ID)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishFlightChanged(ctx, f.ID)
			}
		})

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapRepoErr(err, nil))
	}

	return nil
}

// mapRepoErr turns repository sentinels into admin errors. conflict may be
// nil for entities without a unique key.
func mapRepoErr(err, conflict error) error {
	switch {
	case conflict != nil && errors.Is(err, repository.ErrConflict):
		return conflict
	case errors.Is(err, repository.ErrReference):
		return ErrReferenceNotFound
	default:
		return err
	}
}
