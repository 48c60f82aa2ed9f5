package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/closette/storefront/internal/checkout"
)

type CheckoutHandler struct {
	service *checkout.Service
}

// NewCheckoutHandler wraps the checkout service. service may be nil
// when no order database is configured; checkout then reports itself
// unavailable instead of panicking.
func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type CheckoutRequestDTO struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
}

type CheckoutResponseDTO struct {
	OrderID  string `json:"order_id"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		respondError(w, http.StatusServiceUnavailable, "checkout_unavailable", "checkout is not configured")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Email = strings.TrimSpace(req.Email)
	if req.CustomerName == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer", "customer_name and email are required")
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), checkout.Customer{
		Name:    req.CustomerName,
		Email:   req.Email,
		Address: req.Address,
	})
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty, nothing to checkout")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to place order")
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:  order.ID.String(),
		Total:    order.Total.StringFixed(2),
		Currency: order.Currency,
	})
}
