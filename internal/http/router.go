package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter wires all handlers under /api.
func NewRouter(log *zap.Logger, cartH *CartHandler, wishlistH *WishlistHandler, catalogH *CatalogHandler, checkoutH *CheckoutHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogH.ListProducts)
		r.Get("/products/{product_id}", catalogH.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.ClearCart)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{product_id}", cartH.UpdateQuantity)
			r.Delete("/items/{product_id}", cartH.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistH.GetWishlist)
			r.Delete("/", wishlistH.ClearWishlist)
			r.Post("/{product_id}", wishlistH.Toggle)
			r.Delete("/{product_id}", wishlistH.RemoveItem)
		})

		r.Post("/checkout", checkoutH.PlaceOrder)
	})

	return r
}
