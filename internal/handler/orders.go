package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/puffingood/internal/middleware"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/service"
	"github.com/mmeshcher/puffingood/internal/validation"
)

// PlaceOrder оформляет заказ текущего пользователя.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	var req service.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, err, "place order error", zap.String("userID", userID))
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetOrders возвращает историю заказов текущего пользователя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	orders, err := h.service.ListUserOrders(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "get orders error", zap.String("userID", userID))
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	orderID := chi.URLParam(r, "id")
	order, err := h.service.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		h.writeError(w, err, "get order error", zap.String("userID", userID), zap.String("order", orderID))
		return
	}

	writeJSON(w, http.StatusOK, order)
}

type trackResponse struct {
	TrackingNumber string            `json:"trackingNumber"`
	Status         model.OrderStatus `json:"status"`
	City           string            `json:"city"`
	CreatedAt      string            `json:"createdAt"`
}

// TrackOrder возвращает статус заказа по номеру отслеживания.
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if len(number) != validation.TrackingNumberLength || !validation.IsValidTrackingNumber(number) {
		writeStatus(w, http.StatusUnprocessableEntity)
		return
	}

	order, err := h.service.TrackOrder(r.Context(), number)
	if err != nil {
		h.writeError(w, err, "track order error", zap.String("number", number))
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{
		TrackingNumber: order.TrackingNumber,
		Status:         order.Status,
		City:           order.City,
		CreatedAt:      order.CreatedAt.Format(time.RFC3339),
	})
}
