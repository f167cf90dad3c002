package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/repository"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64, p domain.Page) ([]domain.OrderWithTickets, error)
	GetWithTickets(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.OrderWithTickets, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListOrders returns a page of the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID int64, p domain.Page) ([]domain.OrderWithTickets, error) {
	const op = "service.orders.ListOrders"

	out, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// GetOrderWithTickets retrieves an order along with its associated tickets.
//
// Parameters:
//   - ctx: request-scoped context.
//   - userID: owner of the order; orders of other users are not visible.
//   - orderID: ID of the order to retrieve.
//
// Returns:
//   - error: orders.ErrOrderNotFound if the order is not found.
func (s *Service) GetOrderWithTickets(
	ctx context.Context,
	userID int64,
	orderID uuid.UUID,
) (*domain.OrderWithTickets, error) {
	const op = "service.orders.GetOrderWithTickets"

	o, err := s.repo.GetWithTickets(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}
