package domain

import "time"

// WishlistItem is a saved product. Product is frozen at the moment the
// entry was added, same as for cart line items.
type WishlistItem struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}
