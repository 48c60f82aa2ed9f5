// Package pricing computes the price actually charged for a line item:
// size-variant overrides first, then the storewide offer discount.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/closette/storefront/internal/domain"
)

// DiscountPercent is the flat storewide discount applied to products
// flagged as on offer.
const DiscountPercent = 20

var discountFactor = decimal.NewFromInt(100 - DiscountPercent).Div(decimal.NewFromInt(100))

// FinalPrice applies the offer discount to a base price. Prices that are
// zero or negative, and products not on offer, pass through unchanged.
func FinalPrice(base decimal.Decimal, onOffer bool) decimal.Decimal {
	if !onOffer || base.Sign() <= 0 {
		return base
	}
	return base.Mul(discountFactor)
}

// EffectivePrice resolves the unit price for a line item: the matching
// size variant's override when there is one, the product base price
// otherwise, then the offer discount on top.
func EffectivePrice(item domain.CartItem) decimal.Decimal {
	base := item.Product.Price
	if v := item.Product.Variant(item.Size); v != nil && v.Price != nil {
		base = *v.Price
	}
	return FinalPrice(base, item.Product.OnOffer)
}

// EffectiveStock resolves the available stock for a line item. With a
// matching size variant it is that variant's quantity; otherwise the sum
// of all variants' quantities (zero when the product has no variants).
// A missing variant is a handled case, never an error.
func EffectiveStock(item domain.CartItem) int {
	if v := item.Product.Variant(item.Size); v != nil {
		return v.Quantity
	}
	return item.Product.TotalStock()
}
