// Package checkout turns the current cart into an order record: one
// insert into the relational store, then the cart is cleared. There is
// no payment, reservation, or fulfillment flow behind it.
package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/closette/storefront/internal/domain"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// OrderItem is one cart line item frozen into an order, priced at the
// effective unit price charged at checkout time.
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        domain.Size     `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Customer is the shopper's delivery details collected at checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Order is the record written at checkout.
type Order struct {
	ID        uuid.UUID
	Customer  Customer
	Total     decimal.Decimal
	Currency  string
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
