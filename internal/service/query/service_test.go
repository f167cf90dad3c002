package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/repository"
	redisrepo "github.com/kirinyoku/airport-go/internal/repository/redis"
	"github.com/kirinyoku/airport-go/internal/service/booking"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) ListCountries(ctx context.Context, p domain.Page) ([]domain.Country, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *repoMock) ListCities(ctx context.Context, p domain.Page) ([]domain.City, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.City), args.Error(1)
}

func (m *repoMock) ListAirports(ctx context.Context, p domain.Page) ([]domain.Airport, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *repoMock) ListAirplaneTypes(ctx context.Context, p domain.Page) ([]domain.AirplaneType, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.AirplaneType), args.Error(1)
}

func (m *repoMock) ListCrew(ctx context.Context, p domain.Page) ([]domain.Crew, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.Crew), args.Error(1)
}

func (m *repoMock) ListAirplanes(ctx context.Context, f domain.AirplaneFilter, p domain.Page) ([]domain.Airplane, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *repoMock) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Airplane)
	return a, args.Error(1)
}

func (m *repoMock) ListRoutes(ctx context.Context, p domain.Page) ([]domain.Route, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *repoMock) GetRoute(ctx context.Context, id int64) (*domain.RouteWithFlights, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.RouteWithFlights)
	return r, args.Error(1)
}

func (m *repoMock) ListFlights(ctx context.Context, f domain.FlightFilter, p domain.Page) ([]domain.FlightSummary, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]domain.FlightSummary), args.Error(1)
}

func (m *repoMock) GetFlightDetail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	args := m.Called(ctx, id)
	fd, _ := args.Get(0).(*domain.FlightDetail)
	return fd, args.Error(1)
}

type availabilityMock struct{ mock.Mock }

func (m *availabilityMock) AvailableSeats(ctx context.Context, flightID int64) (domain.FlightAvailability, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(domain.FlightAvailability), args.Error(1)
}

func TestListFlights_DerivesAvailability(t *testing.T) {
	dep := time.Date(2026, 6, 22, 8, 0, 0, 0, time.UTC)
	page := domain.NewPage(1, 10)

	repo := &repoMock{}
	repo.On("ListFlights", mock.Anything, mock.MatchedBy(func(f domain.FlightFilter) bool {
		return f.Date != nil && f.Date.Equal(time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC))
	}), page).Return([]domain.FlightSummary{
		{ID: 1, AirplaneCapacity: 50, TicketsSold: 3, DepartureTime: dep, ArrivalTime: dep.Add(2 * time.Hour)},
		{ID: 2, AirplaneCapacity: 4, TicketsSold: 4, DepartureTime: dep, ArrivalTime: dep.Add(30 * time.Minute)},
	}, nil)

	svc := New(repo, nil, nil, Config{})

	date := time.Date(2026, 6, 22, 17, 30, 0, 0, time.UTC)
	got, err := svc.ListFlights(context.Background(), domain.FlightFilter{Date: &date}, page)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(47), got[0].TicketsAvailable)
	assert.Equal(t, 2.0, got[0].DurationHours)
	assert.Equal(t, int64(0), got[1].TicketsAvailable)
	assert.Equal(t, 0.5, got[1].DurationHours)
	repo.AssertExpectations(t)
}

func TestListFlights_Oversold(t *testing.T) {
	repo := &repoMock{}
	repo.On("ListFlights", mock.Anything, domain.FlightFilter{}, mock.Anything).Return([]domain.FlightSummary{
		{ID: 9, AirplaneCapacity: 4, TicketsSold: 6},
	}, nil)

	_, err := New(repo, nil, nil, Config{}).ListFlights(context.Background(), domain.FlightFilter{}, domain.NewPage(1, 10))

	var ice booking.InternalConsistencyError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, int64(9), ice.FlightID)
}

func TestGetters_NotFound(t *testing.T) {
	notFound := fmt.Errorf("x: %w", repository.ErrNotFound)

	repo := &repoMock{}
	repo.On("GetFlightDetail", mock.Anything, int64(1)).Return(nil, notFound)
	repo.On("GetAirplane", mock.Anything, int64(2)).Return(nil, notFound)
	repo.On("GetRoute", mock.Anything, int64(3)).Return(nil, notFound)

	svc := New(repo, nil, nil, Config{})
	ctx := context.Background()

	_, err := svc.GetFlight(ctx, 1)
	assert.ErrorIs(t, err, ErrFlightNotFound)

	_, err = svc.GetAirplane(ctx, 2)
	assert.ErrorIs(t, err, ErrAirplaneNotFound)

	_, err = svc.GetRoute(ctx, 3)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestFlightAvailability(t *testing.T) {
	av := &availabilityMock{}
	av.On("AvailableSeats", mock.Anything, int64(5)).
		Return(domain.FlightAvailability{FlightID: 5, AvailableSeats: 47}, nil)
	av.On("AvailableSeats", mock.Anything, int64(6)).
		Return(domain.FlightAvailability{}, booking.FlightNotFoundError{FlightID: 6})

	svc := New(&repoMock{}, av, nil, Config{})

	got, err := svc.FlightAvailability(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(47), got.AvailableSeats)

	_, err = svc.FlightAvailability(context.Background(), 6)
	var nf booking.FlightNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestFlightAvailability_ReflectsBookingImmediately(t *testing.T) {
	av := &availabilityMock{}
	av.On("AvailableSeats", mock.Anything, int64(5)).
		Return(domain.FlightAvailability{FlightID: 5, AvailableSeats: 50}, nil).Once()
	av.On("AvailableSeats", mock.Anything, int64(5)).
		Return(domain.FlightAvailability{FlightID: 5, AvailableSeats: 49}, nil).Once()

	// The client is never dialled: availability must not go through the cache.
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := New(&repoMock{}, av, redisrepo.NewCache(rdb), Config{})

	got, err := svc.FlightAvailability(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.AvailableSeats)

	got, err = svc.FlightAvailability(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(49), got.AvailableSeats)

	av.AssertNumberOfCalls(t, "AvailableSeats", 2)
}
