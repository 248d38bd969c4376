package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/puffingood/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины.
// metrics монтируется на /metrics, если не nil. Экспортер сам сжимает ответ,
// поэтому /metrics обслуживается без GzipMiddleware.
func (h *Handler) SetupRouter(metrics http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.With(custommiddleware.GzipMiddleware).Route("/api", func(r chi.Router) {
		r.Post("/user/register", h.Register)
		r.Post("/user/login", h.Login)
		r.Post("/user/logout", h.Logout)

		r.Get("/menu", h.GetMenu)
		r.Get("/menu/categories", h.GetCategories)
		r.Get("/delivery-fee", h.GetDeliveryFee)
		r.Post("/cart/quote", h.QuoteCart)
		r.Get("/orders/track/{number}", h.TrackOrder)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/user/profile", h.GetProfile)
			r.Put("/user/profile", h.UpdateProfile)

			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddCartItem)
			r.Put("/cart/items/{index}", h.UpdateCartItem)
			r.Delete("/cart/items/{index}", h.RemoveCartItem)

			r.Post("/orders", h.PlaceOrder)
			r.Get("/orders", h.GetOrders)
			r.Get("/orders/{id}", h.GetOrder)

			r.Route("/admin", func(r chi.Router) {
				r.Use(custommiddleware.RequireAdmin(h.service, h.logger))

				r.Post("/foods", h.CreateFood)
				r.Put("/foods/{id}", h.UpdateFood)
				r.Delete("/foods/{id}", h.DeleteFood)

				r.Get("/orders", h.ListOrders)
				r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
				r.Get("/summary", h.GetSummary)

				r.Get("/users", h.ListUsers)
				r.Patch("/users/{id}/role", h.SetUserRole)

				r.Get("/settings", h.GetSettings)
				r.Put("/settings", h.UpdateSettings)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
