package postgresrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/airport-go/internal/domain"
)

// BookingRepo persists orders and their tickets. All methods run inside the
// transaction carried by ctx when there is one.
type BookingRepo struct {
	pool *pgxpool.Pool
}

// FlightSeatGrid returns the seat grid of the airplane assigned to a flight.
// The flight row is share-locked so the airplane cannot be swapped while a
// booking transaction is validating seats against it.
//
// Lock and grid are read by separate statements. Waiting on a concurrent
// airplane swap, the lock returns the updated flight row and the grid query
// then reads the new airplane. A join would re-check the old airplane row
// against the new airplane_id and find nothing.
//
// Returns:
//   - domain.SeatGrid: rows and seats per row of the flight's airplane.
//   - error: repository.ErrNotFound if the flight does not exist.
func (r *BookingRepo) FlightSeatGrid(ctx context.Context, flightID int64) (domain.SeatGrid, error) {
	const op = "postgresrepo.BookingRepo.FlightSeatGrid"

	db := handle(ctx, r.pool)

	var airplaneID int64
	if err := db.QueryRow(ctx,
		`SELECT airplane_id FROM flights WHERE id = $1 FOR SHARE`,
		flightID,
	).Scan(&airplaneID); err != nil {
		return domain.SeatGrid{}, wrapDBErr(op, err)
	}

	var g domain.SeatGrid
	if err := db.QueryRow(ctx,
		`SELECT rows, seats_in_row FROM airplanes WHERE id = $1`,
		airplaneID,
	).Scan(&g.Rows, &g.SeatsInRow); err != nil {
		return domain.SeatGrid{}, wrapDBErr(op, err)
	}

	return g, nil
}

// CreateOrder inserts a new order owned by userID. created_at is assigned by
// the database and never updated afterwards.
func (r *BookingRepo) CreateOrder(ctx context.Context, userID int64) (domain.Order, error) {
	const op = "postgresrepo.BookingRepo.CreateOrder"

	o := domain.Order{ID: uuid.New(), UserID: userID}
	err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO orders(id, user_id)
		 VALUES ($1, $2)
		 RETURNING created_at`,
		o.ID, o.UserID,
	).Scan(&o.CreatedAt)
	if err != nil {
		return domain.Order{}, wrapDBErr(op, err)
	}

	return o, nil
}

// SeatTaken reports whether a ticket already holds (row, seat) on the flight.
// Inside a transaction it also sees tickets inserted earlier in it.
func (r *BookingRepo) SeatTaken(ctx context.Context, flightID int64, row, seat int) (bool, error) {
	const op = "postgresrepo.BookingRepo.SeatTaken"

	var taken bool
	err := handle(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (
		 	SELECT 1 FROM tickets
		 	WHERE flight_id = $1 AND seat_row = $2 AND seat_number = $3
		 )`,
		flightID, row, seat,
	).Scan(&taken)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return taken, nil
}

// CreateTicket inserts a ticket into an order. position keeps the tickets of
// an order in the order they were requested.
//
// Returns:
//   - error: repository.ErrConflict if the seat is already sold on the flight.
//   - error: repository.ErrReference if the flight or order does not exist.
func (r *BookingRepo) CreateTicket(
	ctx context.Context,
	orderID uuid.UUID,
	position int,
	req domain.TicketRequest,
) (domain.Ticket, error) {
	const op = "postgresrepo.BookingRepo.CreateTicket"

	t := domain.Ticket{
		ID:       uuid.New(),
		OrderID:  orderID,
		FlightID: req.FlightID,
		Row:      req.Row,
		Seat:     req.Seat,
	}

	_, err := handle(ctx, r.pool).Exec(ctx,
		`INSERT INTO tickets(id, order_id, flight_id, seat_row, seat_number, position)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.OrderID, t.FlightID, t.Row, t.Seat, position,
	)
	if err != nil {
		return domain.Ticket{}, wrapDBErr(op, err)
	}

	return t, nil
}

// FlightOccupancy returns the capacity of the flight's airplane and the
// number of tickets sold for it.
//
// Returns:
//   - error: repository.ErrNotFound if the flight does not exist.
func (r *BookingRepo) FlightOccupancy(ctx context.Context, flightID int64) (domain.FlightOccupancy, error) {
	const op = "postgresrepo.BookingRepo.FlightOccupancy"

	occ := domain.FlightOccupancy{FlightID: flightID}
	err := handle(ctx, r.pool).QueryRow(ctx,
		`SELECT a.rows::bigint * a.seats_in_row,
		 	(SELECT count(*) FROM tickets t WHERE t.flight_id = f.id)
		 FROM flights f
		 JOIN airplanes a ON a.id = f.airplane_id
		 WHERE f.id = $1`,
		flightID,
	).Scan(&occ.Capacity, &occ.Sold)
	if err != nil {
		return domain.FlightOccupancy{}, wrapDBErr(op, err)
	}

	return occ, nil
}
