package service

import (
	"github.com/kirinyoku/airport-go/internal/kafka"
	postgresrepo "github.com/kirinyoku/airport-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/airport-go/internal/repository/redis"
	"github.com/kirinyoku/airport-go/internal/service/admin"
	"github.com/kirinyoku/airport-go/internal/service/booking"
	"github.com/kirinyoku/airport-go/internal/service/orders"
	"github.com/kirinyoku/airport-go/internal/service/query"
)

type Services struct {
	Booking *booking.Service
	Query   *query.Service
	Admin   *admin.Service
	Orders  *orders.Service
}

type Config struct {
	Query query.Config
}

// NewServices wires the services to their stores. producer may be nil when
// event publishing is disabled.
func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.FlightsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	producer *kafka.Producer,
	cfg Config,
) *Services {
	opts := []booking.Option{
		booking.WithCache(cache),
		booking.WithPublisher(pubsub),
		booking.WithLimiter(limiter),
	}
	if producer != nil {
		opts = append(opts, booking.WithEvents(producer))
	}

	bookingSvc := booking.New(store.Booking(), store, opts...)

	return &Services{
		Booking: bookingSvc,
		Query:   query.New(store.Query(), bookingSvc, cache, cfg.Query),
		Admin:   admin.New(store.Admin(), store, cache, pubsub),
		Orders:  orders.New(store.Orders()),
	}
}
