package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type invalidatorMock struct{ mock.Mock }

func (m *invalidatorMock) InvalidateFlight(ctx context.Context, flightID int64) error {
	return m.Called(ctx, flightID).Error(0)
}

func TestOnFlightChanged(t *testing.T) {
	t.Run("deletes flight detail", func(t *testing.T) {
		cache := &invalidatorMock{}
		cache.On("InvalidateFlight", mock.Anything, int64(7)).Return(nil).Once()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		onFlightChanged(cache, logger)(context.Background(), 7)

		cache.AssertExpectations(t)
		assert.Empty(t, buf.String())
	})

	t.Run("logs redis failure", func(t *testing.T) {
		cache := &invalidatorMock{}
		cache.On("InvalidateFlight", mock.Anything, int64(7)).Return(errors.New("connection refused")).Once()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		assert.NotPanics(t, func() {
			onFlightChanged(cache, logger)(context.Background(), 7)
		})

		cache.AssertExpectations(t)
		assert.Contains(t, buf.String(), "failed to invalidate flight cache")
		assert.Contains(t, buf.String(), "flight_id=7")
		assert.Contains(t, buf.String(), "connection refused")
	})
}
