package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/repository"
	postgresrepo "github.com/kirinyoku/airport-go/internal/repository/postgres"
)

type seatKey struct {
	flightID  int64
	row, seat int
}

type memTx struct {
	orders  []domain.Order
	tickets []domain.Ticket
	claimed []seatKey
}

type memTxKey struct{}

// memStore is an in-memory Repository and TxRunner. Seats are claimed at
// insert time like a unique index: a second claim on the same key fails
// with repository.ErrConflict until the first transaction rolls back.
type memStore struct {
	mu      sync.Mutex
	grids   map[int64]domain.SeatGrid
	owners  map[seatKey]*memTx
	orders  []domain.Order
	tickets []domain.Ticket
	sold    map[int64]int64

	// deadlocks makes the next n CreateTicket calls fail with 40P01.
	deadlocks int
	attempts  int
}

func newMemStore() *memStore {
	return &memStore{
		grids:  make(map[int64]domain.SeatGrid),
		owners: make(map[seatKey]*memTx),
		sold:   make(map[int64]int64),
	}
}

func (m *memStore) addFlight(id int64, rows, seats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[id] = domain.SeatGrid{Rows: rows, SeatsInRow: seats}
}

func (m *memStore) RunTx(ctx context.Context, _ *pgx.TxOptions, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		m.mu.Lock()
		m.attempts++
		m.mu.Unlock()

		tx := &memTx{}
		err = fn(context.WithValue(ctx, memTxKey{}, tx))

		m.mu.Lock()
		if err != nil {
			for _, k := range tx.claimed {
				delete(m.owners, k)
			}
		} else {
			m.orders = append(m.orders, tx.orders...)
			m.tickets = append(m.tickets, tx.tickets...)
			for _, t := range tx.tickets {
				m.sold[t.FlightID]++
			}
			for _, k := range tx.claimed {
				m.owners[k] = nil
			}
		}
		m.mu.Unlock()

		if err == nil || !postgresrepo.IsRetryable(err) {
			return err
		}
	}
	return err
}

func txOf(ctx context.Context) *memTx {
	tx, _ := ctx.Value(memTxKey{}).(*memTx)
	return tx
}

func (m *memStore) FlightSeatGrid(_ context.Context, flightID int64) (domain.SeatGrid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.grids[flightID]
	if !ok {
		return domain.SeatGrid{}, fmt.Errorf("mem: %w", repository.ErrNotFound)
	}
	return g, nil
}

func (m *memStore) CreateOrder(ctx context.Context, userID int64) (domain.Order, error) {
	o := domain.Order{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	tx := txOf(ctx)
	tx.orders = append(tx.orders, o)
	return o, nil
}

// SeatTaken sees committed tickets and the caller's own inserts only.
func (m *memStore) SeatTaken(ctx context.Context, flightID int64, row, seat int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner, ok := m.owners[seatKey{flightID, row, seat}]
	if !ok {
		return false, nil
	}
	return owner == nil || owner == txOf(ctx), nil
}

func (m *memStore) CreateTicket(
	ctx context.Context,
	orderID uuid.UUID,
	_ int,
	req domain.TicketRequest,
) (domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deadlocks > 0 {
		m.deadlocks--
		return domain.Ticket{}, &pgconn.PgError{Code: "40P01"}
	}

	if _, ok := m.grids[req.FlightID]; !ok {
		return domain.Ticket{}, fmt.Errorf("mem: %w", repository.ErrReference)
	}

	k := seatKey{req.FlightID, req.Row, req.Seat}
	if _, ok := m.owners[k]; ok {
		return domain.Ticket{}, fmt.Errorf("mem: %w: tickets_flight_seat_key", repository.ErrConflict)
	}

	tx := txOf(ctx)
	m.owners[k] = tx
	tx.claimed = append(tx.claimed, k)

	t := domain.Ticket{
		ID:       uuid.New(),
		OrderID:  orderID,
		FlightID: req.FlightID,
		Row:      req.Row,
		Seat:     req.Seat,
	}
	tx.tickets = append(tx.tickets, t)

	return t, nil
}

func (m *memStore) FlightOccupancy(_ context.Context, flightID int64) (domain.FlightOccupancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.grids[flightID]
	if !ok {
		return domain.FlightOccupancy{}, fmt.Errorf("mem: %w", repository.ErrNotFound)
	}

	return domain.FlightOccupancy{
		FlightID: flightID,
		Capacity: int64(g.Capacity()),
		Sold:     m.sold[flightID],
	}, nil
}

func (m *memStore) ticketCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickets)
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}
