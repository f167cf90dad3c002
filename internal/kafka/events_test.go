package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCreatedEvent(t *testing.T) {
	orderID := uuid.New()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ev := NewOrderCreatedEvent(domain.OrderWithTickets{
		Order: domain.Order{ID: orderID, UserID: 42, CreatedAt: created},
		Tickets: []domain.Ticket{
			{ID: uuid.New(), OrderID: orderID, FlightID: 1, Row: 2, Seat: 3},
			{ID: uuid.New(), OrderID: orderID, FlightID: 1, Row: 2, Seat: 4},
		},
	})

	assert.Equal(t, TypeOrderCreated, ev.Type)
	assert.Equal(t, orderID, ev.OrderID)
	assert.Equal(t, int64(42), ev.UserID)
	require.Len(t, ev.Tickets, 2)
	assert.Equal(t, 4, ev.Tickets[1].Seat)
}

func TestDecodeOrderCreated(t *testing.T) {
	ev := NewOrderCreatedEvent(domain.OrderWithTickets{
		Order: domain.Order{ID: uuid.New(), UserID: 1},
	})
	b, err := json.Marshal(ev)
	require.NoError(t, err)

	got, err := decodeOrderCreated(b)
	require.NoError(t, err)
	assert.Equal(t, ev.OrderID, got.OrderID)

	_, err = decodeOrderCreated([]byte(`{"type":"something_else"}`))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = decodeOrderCreated([]byte(`{`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}
