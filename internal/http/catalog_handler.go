package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/closette/storefront/internal/catalog"
	"github.com/closette/storefront/internal/domain"
	"github.com/closette/storefront/internal/pricing"
)

type CatalogHandler struct {
	catalog catalog.Repository
}

func NewCatalogHandler(cat catalog.Repository) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

type VariantDTO struct {
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Price    *string `json:"price,omitempty"`
}

type ProductDTO struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Price      string       `json:"price"`
	FinalPrice string       `json:"final_price"`
	OnOffer    bool         `json:"on_offer"`
	ImageURL   string       `json:"image_url,omitempty"`
	Variants   []VariantDTO `json:"variants,omitempty"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, productDTO(p))
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.catalog.GetByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, productDTO(*product))
}

func productDTO(p domain.Product) ProductDTO {
	dto := ProductDTO{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price.StringFixed(2),
		FinalPrice: pricing.FinalPrice(p.Price, p.OnOffer).StringFixed(2),
		OnOffer:    p.OnOffer,
		ImageURL:   p.ImageURL,
	}
	for _, v := range p.Variants {
		variant := VariantDTO{
			Size:     string(v.Size),
			Quantity: v.Quantity,
		}
		if v.Price != nil {
			s := v.Price.StringFixed(2)
			variant.Price = &s
		}
		dto.Variants = append(dto.Variants, variant)
	}
	return dto
}
