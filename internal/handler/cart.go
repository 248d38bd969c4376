package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/puffingood/internal/middleware"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/pricing"
	"github.com/mmeshcher/puffingood/internal/service"
)

type cartResponse struct {
	Items []model.LineItem `json:"items"`
	pricing.Quote
}

func newCartResponse(items []model.LineItem, q pricing.Quote) cartResponse {
	if items == nil {
		items = []model.LineItem{}
	}
	return cartResponse{Items: items, Quote: q}
}

type quoteRequest struct {
	Items []service.ItemRequest `json:"items"`
}

// QuoteCart рассчитывает стоимость переданных позиций без сохранения корзины.
func (h *Handler) QuoteCart(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	items, quote, err := h.service.Quote(r.Context(), req.Items)
	if err != nil {
		h.writeError(w, err, "quote cart error")
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(items, quote))
}

// GetCart возвращает корзину текущего пользователя с итоговыми суммами.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	c, quote, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "get cart error", zap.String("userID", userID))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c.Items, quote))
}

// AddCartItem добавляет блюдо в корзину текущего пользователя.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	var req service.ItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	c, err := h.service.AddToCart(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, err, "add cart item error", zap.String("userID", userID), zap.String("food", req.FoodID))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c.Items, pricing.Price(c.Items)))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem изменяет количество в позиции корзины.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	c, err := h.service.UpdateCartItem(r.Context(), userID, index, req.Quantity)
	if err != nil {
		h.writeError(w, err, "update cart item error", zap.String("userID", userID), zap.Int("index", index))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c.Items, pricing.Price(c.Items)))
}

// RemoveCartItem удаляет позицию корзины.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	c, err := h.service.RemoveCartItem(r.Context(), userID, index)
	if err != nil {
		h.writeError(w, err, "remove cart item error", zap.String("userID", userID), zap.Int("index", index))
		return
	}

	writeJSON(w, http.StatusOK, newCartResponse(c.Items, pricing.Price(c.Items)))
}

// ClearCart очищает корзину текущего пользователя.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	if err := h.service.ClearCart(r.Context(), userID); err != nil {
		h.writeError(w, err, "clear cart error", zap.String("userID", userID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
