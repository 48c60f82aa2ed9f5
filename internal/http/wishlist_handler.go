package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/closette/storefront/internal/catalog"
	"github.com/closette/storefront/internal/wishlist"
)

type WishlistHandler struct {
	store   *wishlist.Store
	catalog catalog.Repository
}

func NewWishlistHandler(store *wishlist.Store, cat catalog.Repository) *WishlistHandler {
	return &WishlistHandler{
		store:   store,
		catalog: cat,
	}
}

type WishlistItemDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	OnOffer   bool   `json:"on_offer"`
	ImageURL  string `json:"image_url,omitempty"`
	Stock     int    `json:"stock"`
}

type WishlistResponseDTO struct {
	Items []WishlistItemDTO `json:"items"`
	Count int               `json:"count"`
}

type ToggleResponseDTO struct {
	Added bool `json:"added"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.wishlistResponse())
}

// Toggle saves the product, or removes it when already saved, and tells
// the caller which of the two happened.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.catalog.GetByID(r.Context(), productID)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	added, err := h.store.Toggle(r.Context(), *product)
	if err != nil {
		handleWishlistError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ToggleResponseDTO{Added: added})
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.store.Remove(r.Context(), productID); err != nil {
		handleWishlistError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.wishlistResponse())
}

func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		handleWishlistError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.wishlistResponse())
}

func (h *WishlistHandler) wishlistResponse() WishlistResponseDTO {
	items := h.store.Items()
	dto := WishlistResponseDTO{
		Items: make([]WishlistItemDTO, 0, len(items)),
		Count: h.store.Count(),
	}

	for _, item := range items {
		dto.Items = append(dto.Items, WishlistItemDTO{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price.StringFixed(2),
			OnOffer:   item.Product.OnOffer,
			ImageURL:  item.Product.ImageURL,
			Stock:     item.Product.TotalStock(),
		})
	}
	return dto
}

func handleWishlistError(w http.ResponseWriter, err error) {
	if errors.Is(err, wishlist.ErrNotLoaded) {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "wishlist is not loaded yet")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
}
