package domain

import "github.com/shopspring/decimal"

// Size is a garment size label. The empty string means the product
// is not sized (accessories, gift cards).
type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// SizeVariant holds per-size stock and an optional price override.
// A nil Price means the product base price applies.
type SizeVariant struct {
	Size     Size             `json:"size"`
	Quantity int              `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// Product is a catalog snapshot. Once captured into a cart line item or
// wishlist entry it is frozen: later catalog changes never flow into
// stored copies.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	OnOffer  bool            `json:"on_offer"`
	ImageURL string          `json:"image_url,omitempty"`
	Variants []SizeVariant   `json:"variants,omitempty"`
}

// Variant returns the variant matching the size label exactly
// (case-sensitive), or nil when no variant matches.
func (p Product) Variant(size Size) *SizeVariant {
	for i := range p.Variants {
		if p.Variants[i].Size == size {
			return &p.Variants[i]
		}
	}
	return nil
}

// TotalStock sums the quantities of all size variants.
func (p Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Quantity
	}
	return total
}
