package kafka

import (
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/airport-go/internal/domain"
)

const TypeOrderCreated = "order_created"

type TicketPayload struct {
	ID       uuid.UUID `json:"id"`
	FlightID int64     `json:"flight_id"`
	Row      int       `json:"row"`
	Seat     int       `json:"seat"`
}

// OrderCreatedEvent is published once per committed booking.
type OrderCreatedEvent struct {
	Type      string          `json:"type"`
	OrderID   uuid.UUID       `json:"order_id"`
	UserID    int64           `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Tickets   []TicketPayload `json:"tickets"`
}

func NewOrderCreatedEvent(o domain.OrderWithTickets) OrderCreatedEvent {
	ev := OrderCreatedEvent{
		Type:      TypeOrderCreated,
		OrderID:   o.Order.ID,
		UserID:    o.Order.UserID,
		CreatedAt: o.Order.CreatedAt,
		Tickets:   make([]TicketPayload, 0, len(o.Tickets)),
	}

	for _, t := range o.Tickets {
		ev.Tickets = append(ev.Tickets, TicketPayload{
			ID:       t.ID,
			FlightID: t.FlightID,
			Row:      t.Row,
			Seat:     t.Seat,
		})
	}

	return ev
}
