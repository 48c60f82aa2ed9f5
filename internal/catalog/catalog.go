// Package catalog supplies product snapshots to the storefront. The
// cart and wishlist freeze whatever the catalog hands them at mutation
// time; nothing here is consulted afterwards.
package catalog

import (
	"context"
	"errors"

	"github.com/closette/storefront/internal/domain"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("catalog: product not found")

// Repository defines read operations over the product catalog.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}
