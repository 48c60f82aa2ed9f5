package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("checkout: order not found")
	ErrEmptyCart     = errors.New("checkout: cart is empty, nothing to checkout")
)

// Repository defines the order persistence operations the checkout
// service needs. Consumers define this interface, not the Postgres
// implementation.
type Repository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Close() error
}
