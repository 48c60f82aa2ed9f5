package catalog

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/closette/storefront/internal/domain"
)

// MemoryRepository implements Repository over a fixed product list.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[int64]int
}

// NewMemoryRepository creates a repository holding the given products.
func NewMemoryRepository(products ...domain.Product) *MemoryRepository {
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &MemoryRepository{products: products, byID: byID}
}

func (r *MemoryRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[id]
	if !exists {
		return nil, ErrNotFound
	}
	p := r.products[idx]
	return &p, nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

// SeedProducts returns the demo catalog the storefront binary serves.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:       1,
			Name:     "Oxford Shirt",
			Price:    price("49.90"),
			ImageURL: "/images/oxford-shirt.jpg",
			Variants: []domain.SizeVariant{
				{Size: domain.SizeS, Quantity: 12},
				{Size: domain.SizeM, Quantity: 20},
				{Size: domain.SizeL, Quantity: 7},
				{Size: domain.SizeXL, Quantity: 0},
			},
		},
		{
			ID:       2,
			Name:     "Slim Chinos",
			Price:    price("69.00"),
			OnOffer:  true,
			ImageURL: "/images/slim-chinos.jpg",
			Variants: []domain.SizeVariant{
				{Size: domain.SizeS, Quantity: 5},
				{Size: domain.SizeM, Quantity: 9},
				{Size: domain.SizeL, Quantity: 3},
			},
		},
		{
			ID:       3,
			Name:     "Wrap Dress",
			Price:    price("89.90"),
			ImageURL: "/images/wrap-dress.jpg",
			Variants: []domain.SizeVariant{
				{Size: domain.SizeXS, Quantity: 2},
				{Size: domain.SizeS, Quantity: 6},
				{Size: domain.SizeM, Quantity: 4, Price: pricePtr("84.90")},
			},
		},
		{
			ID:       4,
			Name:     "Wool Overcoat",
			Price:    price("249.00"),
			OnOffer:  true,
			ImageURL: "/images/wool-overcoat.jpg",
			Variants: []domain.SizeVariant{
				{Size: domain.SizeM, Quantity: 2},
				{Size: domain.SizeL, Quantity: 1},
			},
		},
		{
			// Unsized accessory, stock untracked.
			ID:       5,
			Name:     "Canvas Tote",
			Price:    price("24.50"),
			ImageURL: "/images/canvas-tote.jpg",
		},
	}
}
