package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/closette/storefront/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		onOffer bool
		want    string
	}{
		{"not on offer", "50", false, "50"},
		{"on offer", "50", true, "40"},
		{"on offer fractional", "39.99", true, "31.992"},
		{"zero price on offer", "0", true, "0"},
		{"negative price on offer", "-10", true, "-10"},
		{"zero price not on offer", "0", false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinalPrice(dec(tt.base), tt.onOffer)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestFinalPrice_DiscountedIsAlwaysLower(t *testing.T) {
	for _, base := range []string{"0.01", "1", "19.99", "50", "1999.95"} {
		price := FinalPrice(dec(base), true)
		assert.True(t, price.LessThan(dec(base)), "discounted %s should be below %s", price, base)
	}
}

func itemWithVariants(size domain.Size) domain.CartItem {
	override := dec("45")
	return domain.CartItem{
		Product: domain.Product{
			ID:    1,
			Name:  "Linen Shirt",
			Price: dec("50"),
			Variants: []domain.SizeVariant{
				{Size: domain.SizeS, Quantity: 3},
				{Size: domain.SizeM, Quantity: 5, Price: &override},
				{Size: domain.SizeL, Quantity: 0},
			},
		},
		Size:     size,
		Quantity: 1,
	}
}

func TestEffectivePrice_VariantOverride(t *testing.T) {
	got := EffectivePrice(itemWithVariants(domain.SizeM))
	assert.True(t, dec("45").Equal(got), "got %s", got)
}

func TestEffectivePrice_VariantWithoutOverrideFallsBackToBase(t *testing.T) {
	got := EffectivePrice(itemWithVariants(domain.SizeS))
	assert.True(t, dec("50").Equal(got), "got %s", got)
}

func TestEffectivePrice_NoMatchingVariant(t *testing.T) {
	got := EffectivePrice(itemWithVariants(domain.SizeXL))
	assert.True(t, dec("50").Equal(got), "got %s", got)
}

func TestEffectivePrice_OverrideIsDiscounted(t *testing.T) {
	item := itemWithVariants(domain.SizeM)
	item.Product.OnOffer = true
	got := EffectivePrice(item)
	assert.True(t, dec("36").Equal(got), "got %s", got) // 45 * 0.8
}

func TestEffectiveStock(t *testing.T) {
	tests := []struct {
		name string
		size domain.Size
		want int
	}{
		{"matching variant", domain.SizeS, 3},
		{"sold out variant", domain.SizeL, 0},
		{"no matching variant sums all", domain.SizeXL, 8},
		{"no size selected sums all", "", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStock(itemWithVariants(tt.size)))
		})
	}
}

func TestEffectiveStock_NoVariants(t *testing.T) {
	item := domain.CartItem{
		Product:  domain.Product{ID: 2, Name: "Tote Bag", Price: dec("25")},
		Quantity: 1,
	}
	assert.Equal(t, 0, EffectiveStock(item))
}
