package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) CreateCountry(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CreateCity(ctx context.Context, c domain.City) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CreateAirport(ctx context.Context, a domain.Airport) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CreateAirplaneType(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CreateAirplane(ctx context.Context, a domain.Airplane) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CreateRoute(ctx context.Context, r domain.Route) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CreateCrew(ctx context.Context, c domain.Crew) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CreateFlight(ctx context.Context, f domain.Flight) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) UpdateFlight(ctx context.Context, f domain.Flight) error {
	return m.Called(ctx, f).Error(0)
}

func (m *repoMock) CountTicketsOutsideGrid(ctx context.Context, flightID, airplaneID int64) (int64, error) {
	args := m.Called(ctx, flightID, airplaneID)
	return args.Get(0).(int64), args.Error(1)
}

type cacheMock struct{ mock.Mock }

func (m *cacheMock) InvalidateFlight(ctx context.Context, flightID int64) error {
	return m.Called(ctx, flightID).Error(0)
}

// directRunner runs fn once without a real transaction.
type directRunner struct{}

func (directRunner) RunTx(ctx context.Context, _ *pgx.TxOptions, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingRunner runs fn once and keeps the options it was given.
type recordingRunner struct {
	opts *pgx.TxOptions
}

func (r *recordingRunner) RunTx(ctx context.Context, opts *pgx.TxOptions, fn func(ctx context.Context) error) error {
	r.opts = opts
	return fn(ctx)
}

func validFlight() domain.Flight {
	dep := time.Date(2026, 6, 22, 8, 0, 0, 0, time.UTC)
	return domain.Flight{
		ID:            3,
		RouteID:       1,
		AirplaneID:    2,
		DepartureTime: dep,
		ArrivalTime:   dep.Add(150 * time.Minute),
		CrewIDs:       []int64{1, 2},
	}
}

func TestValidateFlight_Schedule(t *testing.T) {
	f := validFlight()
	assert.NoError(t, validateFlight(f))

	f.ArrivalTime = f.DepartureTime
	assert.ErrorIs(t, validateFlight(f), ErrInvalidSchedule)

	f.ArrivalTime = f.DepartureTime.Add(-time.Hour)
	assert.ErrorIs(t, validateFlight(f), ErrInvalidSchedule)
	assert.Equal(t, -1.0, f.Duration())
}

func TestCreateAirplane_Validation(t *testing.T) {
	repo := &repoMock{}
	svc := New(repo, directRunner{}, nil, nil)

	_, err := svc.CreateAirplane(context.Background(), domain.Airplane{Name: "A320", Rows: 0, SeatsInRow: 0, AirplaneTypeID: 1})

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "rows")
	assert.Contains(t, err.Error(), "seats_in_row")
	repo.AssertNotCalled(t, "CreateAirplane", mock.Anything, mock.Anything)
}

func TestCreate_MapsRepositoryErrors(t *testing.T) {
	repo := &repoMock{}
	repo.On("CreateCountry", mock.Anything, "Ukraine").
		Return(int64(0), fmt.Errorf("x: %w", repository.ErrConflict))
	repo.On("CreateCity", mock.Anything, domain.City{Name: "Kyiv", CountryID: 9}).
		Return(int64(0), fmt.Errorf("x: %w", repository.ErrReference))
	repo.On("CreateAirplaneType", mock.Anything, "Boeing").
		Return(int64(4), nil)

	svc := New(repo, directRunner{}, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateCountry(ctx, "Ukraine")
	assert.ErrorIs(t, err, ErrCountryConflict)

	_, err = svc.CreateCity(ctx, domain.City{Name: "Kyiv", CountryID: 9})
	assert.ErrorIs(t, err, ErrReferenceNotFound)

	id, err := svc.CreateAirplaneType(ctx, "Boeing")
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	repo.AssertExpectations(t)
}

func TestCreateRoute_SameSourceAndDestination(t *testing.T) {
	r := domain.Route{SourceID: 5, DestinationID: 5, Distance: 0}

	repo := &repoMock{}
	repo.On("CreateRoute", mock.Anything, r).Return(int64(1), nil)

	id, err := New(repo, directRunner{}, nil, nil).CreateRoute(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = New(repo, directRunner{}, nil, nil).CreateRoute(context.Background(), domain.Route{SourceID: 1, DestinationID: 2, Distance: -1})
	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUpdateFlight(t *testing.T) {
	f := validFlight()

	t.Run("invalidates cache after commit", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("UpdateFlight", mock.Anything, f).Return(nil)
		repo.On("CountTicketsOutsideGrid", mock.Anything, f.ID, f.AirplaneID).Return(int64(0), nil)

		cache := &cacheMock{}
		cache.On("InvalidateFlight", mock.Anything, f.ID).Return(nil).Once()

		require.NoError(t, New(repo, directRunner{}, cache, nil).UpdateFlight(context.Background(), f))
		cache.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("UpdateFlight", mock.Anything, f).Return(fmt.Errorf("x: %w", repository.ErrNotFound))

		err := New(repo, directRunner{}, nil, nil).UpdateFlight(context.Background(), f)
		assert.ErrorIs(t, err, ErrFlightNotFound)
	})

	t.Run("sold seats outside new airplane", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("UpdateFlight", mock.Anything, f).Return(nil)
		repo.On("CountTicketsOutsideGrid", mock.Anything, f.ID, f.AirplaneID).Return(int64(2), nil)

		cache := &cacheMock{}

		err := New(repo, directRunner{}, cache, nil).UpdateFlight(context.Background(), f)
		assert.ErrorIs(t, err, ErrSeatsOutsideAirplane)
		cache.AssertNotCalled(t, "InvalidateFlight", mock.Anything, mock.Anything)
	})

	t.Run("unknown crew", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("UpdateFlight", mock.Anything, f).Return(fmt.Errorf("x: %w", repository.ErrReference))

		err := New(repo, directRunner{}, nil, nil).UpdateFlight(context.Background(), f)
		assert.ErrorIs(t, err, ErrReferenceNotFound)
		assert.False(t, errors.Is(err, ErrFlightNotFound))
	})

	t.Run("counts sold seats after taking the flight row at read committed", func(t *testing.T) {
		var calls []string

		repo := &repoMock{}
		repo.On("UpdateFlight", mock.Anything, f).
			Run(func(mock.Arguments) { calls = append(calls, "update") }).
			Return(nil)
		repo.On("CountTicketsOutsideGrid", mock.Anything, f.ID, f.AirplaneID).
			Run(func(mock.Arguments) { calls = append(calls, "count") }).
			Return(int64(0), nil)

		runner := &recordingRunner{}
		require.NoError(t, New(repo, runner, nil, nil).UpdateFlight(context.Background(), f))

		require.NotNil(t, runner.opts)
		assert.Equal(t, pgx.ReadCommitted, runner.opts.IsoLevel)
		assert.Equal(t, []string{"update", "count"}, calls)
	})
}
