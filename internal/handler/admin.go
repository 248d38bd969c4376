package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/puffingood/internal/middleware"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/summary"
)

// CreateFood добавляет позицию меню.
func (h *Handler) CreateFood(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var f model.Food
	if err := decodeJSON(r, &f); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateFood(r.Context(), actorID, f)
	if err != nil {
		h.writeError(w, err, "create food error", zap.String("actor", actorID))
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateFood перезаписывает позицию меню.
func (h *Handler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var f model.Food
	if err := decodeJSON(r, &f); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}
	f.ID = chi.URLParam(r, "id")

	updated, err := h.service.UpdateFood(r.Context(), actorID, f)
	if err != nil {
		h.writeError(w, err, "update food error", zap.String("food", f.ID))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteFood удаляет позицию меню.
func (h *Handler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteFood(r.Context(), id); err != nil {
		h.writeError(w, err, "delete food error", zap.String("food", id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOrders возвращает все заказы.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, err, "list orders error")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateOrderStatus переводит заказ в новый статус.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), actorID, orderID, req.Status)
	if err != nil {
		h.writeError(w, err, "update order status error", zap.String("order", orderID))
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetSummary возвращает сводку по заказам за последние days суток.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	days := summary.DefaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeStatus(w, http.StatusBadRequest)
			return
		}
		days = n
	}

	s, err := h.service.Summary(r.Context(), days)
	if err != nil {
		h.writeError(w, err, "order summary error", zap.Int("days", days))
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// ListUsers возвращает всех пользователей.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err, "list users error")
		return
	}
	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

type roleRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// SetUserRole выдаёт или снимает права администратора.
func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	if err := h.service.SetUserRole(r.Context(), userID, req.IsAdmin); err != nil {
		h.writeError(w, err, "set user role error", zap.String("userID", userID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSettings возвращает настройки доставки.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, err, "get settings error")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings сохраняет настройки доставки.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var settings model.AdminSettings
	if err := decodeJSON(r, &settings); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateSettings(r.Context(), actorID, settings); err != nil {
		h.writeError(w, err, "update settings error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
