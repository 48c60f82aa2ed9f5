package domain

import "time"

// LineKey identifies a cart line item: one product in one selected size.
// Size is empty for unsized products.
type LineKey struct {
	ProductID int64
	Size      Size
}

// CartItem is one row in the cart. Product is the snapshot frozen at the
// moment the item was added.
type CartItem struct {
	Product  Product   `json:"product"`
	Size     Size      `json:"size,omitempty"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Key returns the line item's identity.
func (i CartItem) Key() LineKey {
	return LineKey{ProductID: i.Product.ID, Size: i.Size}
}
