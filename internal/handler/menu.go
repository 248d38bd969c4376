package handler

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/puffingood/internal/menu"
)

// GetMenu возвращает доступные блюда с фильтром по параметрам search и category.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = menu.AllCategories
	}

	foods, err := h.service.ListMenu(r.Context(), r.URL.Query().Get("search"), category)
	if err != nil {
		h.writeError(w, err, "list menu error")
		return
	}

	writeJSON(w, http.StatusOK, foods)
}

// GetCategories возвращает список категорий меню.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.writeError(w, err, "list categories error")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

type deliveryFeeResponse struct {
	City      string          `json:"city"`
	Fee       decimal.Decimal `json:"fee"`
	Available bool            `json:"available"`
}

// GetDeliveryFee возвращает стоимость доставки в город из параметра city.
func (h *Handler) GetDeliveryFee(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	fee, ok, err := h.service.DeliveryFee(r.Context(), city)
	if err != nil {
		h.writeError(w, err, "delivery fee error", zap.String("city", city))
		return
	}

	writeJSON(w, http.StatusOK, deliveryFeeResponse{City: city, Fee: fee, Available: ok})
}
