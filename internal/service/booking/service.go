package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/metrics"
	"github.com/kirinyoku/airport-go/internal/repository"
	"github.com/kirinyoku/airport-go/internal/uow"
)

// Repository is the storage the booking transaction runs against. Methods
// must use the transaction carried by ctx.
type Repository interface {
	FlightSeatGrid(ctx context.Context, flightID int64) (domain.SeatGrid, error)
	CreateOrder(ctx context.Context, userID int64) (domain.Order, error)
	SeatTaken(ctx context.Context, flightID int64, row, seat int) (bool, error)
	CreateTicket(ctx context.Context, orderID uuid.UUID, position int, req domain.TicketRequest) (domain.Ticket, error)
	FlightOccupancy(ctx context.Context, flightID int64) (domain.FlightOccupancy, error)
}

type Cache interface {
	InvalidateFlight(ctx context.Context, flightID int64) error
}

type Publisher interface {
	PublishFlightChanged(ctx context.Context, flightID int64) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o domain.OrderWithTickets) error
}

type Limiter interface {
	Allow(ctx context.Context, userID int64) (bool, time.Duration, error)
}

type Option func(*Service)

func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

func WithPublisher(p Publisher) Option { return func(s *Service) { s.pubsub = p } }

func WithEvents(e EventPublisher) Option { return func(s *Service) { s.events = e } }

func WithLimiter(l Limiter) Option { return func(s *Service) { s.limiter = l } }

type Service struct {
	repo    Repository
	uow     *uow.UoW
	cache   Cache
	pubsub  Publisher
	events  EventPublisher
	limiter Limiter
}

func New(repo Repository, tx uow.TxRunner, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		uow:  uow.NewUoW(tx),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Book creates an order with one ticket per request, all or nothing.
// Requests are validated and inserted in the given order, so a seat
// requested twice in one booking conflicts with itself.
//
// Parameters:
//   - ctx: request-scoped context.
//   - userID: owner of the new order.
//   - reqs: desired (flight, row, seat) triples; must not be empty.
//
// Returns:
//   - *domain.OrderWithTickets: the order and its tickets in request order.
//   - error: ErrEmptyBooking if reqs is empty.
//   - error: InvalidTicketError wrapping OutOfRangeError for seats off the grid.
//   - error: ConflictError if a seat is already sold.
//   - error: FlightNotFoundError if a flight does not exist.
//   - error: RateLimitedError if the user books too often.
func (s *Service) Book(
	ctx context.Context,
	userID int64,
	reqs []domain.TicketRequest,
) (_ *domain.OrderWithTickets, err error) {
	const op = "service.booking.Book"

	defer func() {
		metrics.ObserveBooking(outcome(err), len(reqs))
	}()

	if len(reqs) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyBooking)
	}

	if s.limiter != nil {
		ok, retry, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, RateLimitedError{RetryAfter: retry})
		}
	}

	var out domain.OrderWithTickets

	err = s.uow.DoWithOpts(ctx, &pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(
		ctx context.Context,
		after func(uow.AfterCommit),
	) error {
		order, err := s.repo.CreateOrder(ctx, userID)
		if err != nil {
			return err
		}

		tickets, err := s.createTickets(ctx, order.ID, reqs)
		if err != nil {
			return err
		}

		out = domain.OrderWithTickets{Order: order, Tickets: tickets}

		booked := out
		after(func(ctx context.Context) {
			s.afterBooking(ctx, booked)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

func (s *Service) createTickets(
	ctx context.Context,
	orderID uuid.UUID,
	reqs []domain.TicketRequest,
) ([]domain.Ticket, error) {
	grids := make(map[int64]domain.SeatGrid)
	tickets := make([]domain.Ticket, 0, len(reqs))

	for i, req := range reqs {
		grid, ok := grids[req.FlightID]
		if !ok {
			g, err := s.repo.FlightSeatGrid(ctx, req.FlightID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, FlightNotFoundError{FlightID: req.FlightID}
				}
				return nil, err
			}

			grid = g
			grids[req.FlightID] = g
		}

		if err := ValidateSeat(grid, req.Row, req.Seat); err != nil {
			return nil, InvalidTicketError{Index: i, Err: err}
		}

		conflict := ConflictError{FlightID: req.FlightID, Row: req.Row, Seat: req.Seat}

		taken, err := s.repo.SeatTaken(ctx, req.FlightID, req.Row, req.Seat)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, conflict
		}

		t, err := s.repo.CreateTicket(ctx, orderID, i, req)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrConflict):
				return nil, conflict
			case errors.Is(err, repository.ErrReference):
				return nil, FlightNotFoundError{FlightID: req.FlightID}
			}
			return nil, err
		}

		tickets = append(tickets, t)
	}

	return tickets, nil
}

func (s *Service) afterBooking(ctx context.Context, o domain.OrderWithTickets) {
	seen := make(map[int64]struct{}, len(o.Tickets))
	for _, t := range o.Tickets {
		if _, ok := seen[t.FlightID]; ok {
			continue
		}
		seen[t.FlightID] = struct{}{}

		if s.cache != nil {
			_ = s.cache.InvalidateFlight(ctx, t.FlightID)
		}
		if s.pubsub != nil {
			_ = s.pubsub.PublishFlightChanged(ctx, t.FlightID)
		}
	}

	if s.events != nil {
		_ = s.events.PublishOrderCreated(ctx, o)
	}
}

// AvailableSeats reports the seats of a flight not yet sold. The value is a
// snapshot; it reserves nothing.
//
// Returns:
//   - error: FlightNotFoundError if the flight does not exist.
//   - error: InternalConsistencyError if more tickets are sold than seats exist.
func (s *Service) AvailableSeats(ctx context.Context, flightID int64) (domain.FlightAvailability, error) {
	const op = "service.booking.AvailableSeats"

	occ, err := s.repo.FlightOccupancy(ctx, flightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.FlightAvailability{}, fmt.Errorf("%s: %w", op, FlightNotFoundError{FlightID: flightID})
		}
		return domain.FlightAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	av, err := Available(occ)
	if err != nil {
		return domain.FlightAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	return av, nil
}

func outcome(err error) string {
	var (
		oor      OutOfRangeError
		conflict ConflictError
		notFound FlightNotFoundError
		limited  RateLimitedError
	)

	switch {
	case err == nil:
		return metrics.OutcomeBooked
	case errors.Is(err, ErrEmptyBooking):
		return metrics.OutcomeEmpty
	case errors.As(err, &oor):
		return metrics.OutcomeInvalidSeat
	case errors.As(err, &conflict):
		return metrics.OutcomeConflict
	case errors.As(err, &notFound):
		return metrics.OutcomeFlightNotFound
	case errors.As(err, &limited):
		return metrics.OutcomeRateLimited
	default:
		return metrics.OutcomeError
	}
}
