package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/closette/storefront/internal/cart"
	"github.com/closette/storefront/internal/pricing"
)

// Service places orders from the current cart.
type Service struct {
	cart *cart.Store
	repo Repository
	log  *zap.Logger
}

// NewService creates a checkout service over the shared cart store.
func NewService(cartStore *cart.Store, repo Repository, log *zap.Logger) *Service {
	return &Service{
		cart: cartStore,
		repo: repo,
		log:  log,
	}
}

// PlaceOrder snapshots the cart into an order, inserts it, and clears
// the cart. An empty cart is rejected with ErrEmptyCart before any
// write happens.
func (s *Service) PlaceOrder(ctx context.Context, customer Customer) (*Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, OrderItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.EffectivePrice(item),
		})
	}

	now := time.Now()
	order := &Order{
		ID:        uuid.New(),
		Customer:  customer,
		Total:     s.cart.Total(),
		Currency:  "USD",
		Status:    OrderStatusConfirmed,
		Items:     orderItems,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	// The order exists; a failure to empty the cart is an inconvenience,
	// not a lost sale.
	if err := s.cart.Clear(ctx); err != nil {
		s.log.Warn("clear cart after checkout", zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	return order, nil
}
