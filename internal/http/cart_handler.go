package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/closette/storefront/internal/cart"
	"github.com/closette/storefront/internal/catalog"
	"github.com/closette/storefront/internal/domain"
	"github.com/closette/storefront/internal/pricing"
)

// maxLineQuantity caps a single line item's quantity at the API edge.
const maxLineQuantity = 99

type CartHandler struct {
	store   *cart.Store
	catalog catalog.Repository
}

func NewCartHandler(store *cart.Store, cat catalog.Repository) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: cat,
	}
}

type AddItemRequestDTO struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

type CartItemDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	OnOffer   bool   `json:"on_offer"`
	ImageURL  string `json:"image_url,omitempty"`
}

type CartResponseDTO struct {
	Items []CartItemDTO `json:"items"`
	Total string        `json:"total"`
	Count int           `json:"count"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	product, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	if err := h.store.Add(r.Context(), *product, domain.Size(req.Size), req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	if err := h.store.UpdateQuantity(r.Context(), productID, domain.Size(req.Size), req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	size := domain.Size(r.URL.Query().Get("size"))
	if err := h.store.Remove(r.Context(), productID, size); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	items := h.store.Items()
	dto := CartResponseDTO{
		Items: make([]CartItemDTO, 0, len(items)),
		Total: h.store.Total().StringFixed(2),
		Count: h.store.Count(),
	}

	for _, item := range items {
		unit := pricing.EffectivePrice(item)
		dto.Items = append(dto.Items, CartItemDTO{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Size:      string(item.Size),
			Quantity:  item.Quantity,
			UnitPrice: unit.StringFixed(2),
			LineTotal: unit.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
			OnOffer:   item.Product.OnOffer,
			ImageURL:  item.Product.ImageURL,
		})
	}
	return dto
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", "not enough stock for the requested quantity")
	case errors.Is(err, cart.ErrNotLoaded):
		respondError(w, http.StatusServiceUnavailable, "not_ready", "cart is not loaded yet")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
