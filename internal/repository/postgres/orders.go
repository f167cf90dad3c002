package postgresrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/airport-go/internal/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

// ListByUser returns the orders of a user, newest first, each with its
// tickets in booking order.
func (r *OrderRepo) ListByUser(
	ctx context.Context,
	userID int64,
	p domain.Page,
) ([]domain.OrderWithTickets, error) {
	const op = "postgresrepo.OrderRepo.ListByUser"

	db := handle(ctx, r.pool)

	rows, err := db.Query(ctx,
		`SELECT id, user_id, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		userID, p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		var o domain.Order
		err := row.Scan(&o.ID, &o.UserID, &o.CreatedAt)
		return o, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out := make([]domain.OrderWithTickets, len(orders))
	if len(orders) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		out[i] = domain.OrderWithTickets{Order: o, Tickets: []domain.Ticket{}}
	}

	rows, err = db.Query(ctx,
		`SELECT id, order_id, flight_id, seat_row, seat_number
		 FROM tickets
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, position`,
		ids,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	tickets, err := pgx.CollectRows(rows, scanTicket)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	for _, t := range tickets {
		i := index[t.OrderID]
		out[i].Tickets = append(out[i].Tickets, t)
	}

	return out, nil
}

// GetWithTickets retrieves an order owned by userID with its tickets in the
// order they were booked. An order of another user is reported as not found.
//
// Returns:
//   - error: repository.ErrNotFound if the order is not found.
func (r *OrderRepo) GetWithTickets(
	ctx context.Context,
	userID int64,
	orderID uuid.UUID,
) (*domain.OrderWithTickets, error) {
	const op = "postgresrepo.OrderRepo.GetWithTickets"

	db := handle(ctx, r.pool)

	var out domain.OrderWithTickets
	err := db.QueryRow(ctx,
		`SELECT id, user_id, created_at
		 FROM orders
		 WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	).Scan(&out.Order.ID, &out.Order.UserID, &out.Order.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT id, order_id, flight_id, seat_row, seat_number
		 FROM tickets
		 WHERE order_id = $1
		 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out.Tickets, err = pgx.CollectRows(rows, scanTicket)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func scanTicket(row pgx.CollectableRow) (domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.OrderID, &t.FlightID, &t.Row, &t.Seat)
	return t, err
}
