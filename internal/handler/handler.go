// Package handler содержит HTTP-обработчики API витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/puffingood/internal/cart"
	"github.com/mmeshcher/puffingood/internal/middleware"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/pricing"
	"github.com/mmeshcher/puffingood/internal/repository"
	"github.com/mmeshcher/puffingood/internal/service"
	"github.com/mmeshcher/puffingood/internal/summary"
	"github.com/mmeshcher/puffingood/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, email, password string) (string, error)
	AuthenticateUser(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, p model.Profile, isMarketing bool) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetUserRole(ctx context.Context, userID string, isAdmin bool) error

	ListMenu(ctx context.Context, query, category string) ([]model.Food, error)
	Categories(ctx context.Context) ([]string, error)
	CreateFood(ctx context.Context, actorID string, f model.Food) (*model.Food, error)
	UpdateFood(ctx context.Context, actorID string, f model.Food) (*model.Food, error)
	DeleteFood(ctx context.Context, id string) error

	GetCart(ctx context.Context, userID string) (model.Cart, pricing.Quote, error)
	AddToCart(ctx context.Context, userID string, req service.ItemRequest) (model.Cart, error)
	UpdateCartItem(ctx context.Context, userID string, index, quantity int) (model.Cart, error)
	RemoveCartItem(ctx context.Context, userID string, index int) (model.Cart, error)
	ClearCart(ctx context.Context, userID string) error
	Quote(ctx context.Context, reqs []service.ItemRequest) ([]model.LineItem, pricing.Quote, error)

	PlaceOrder(ctx context.Context, userID string, req service.CheckoutRequest) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]model.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
	TrackOrder(ctx context.Context, number string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, actorID, orderID string, status model.OrderStatus) (*model.Order, error)
	Summary(ctx context.Context, windowDays int) (summary.Summary, error)

	GetSettings(ctx context.Context) (*model.AdminSettings, error)
	UpdateSettings(ctx context.Context, actorID string, settings model.AdminSettings) error
	DeliveryFee(ctx context.Context, city string) (decimal.Decimal, bool, error)
}

// Handler реализует HTTP-обработчики API витрины.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeStatus(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// writeError переводит ошибку сервиса в HTTP-ответ. Неизвестные ошибки логируются.
func (h *Handler) writeError(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verrs})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeStatus(w, http.StatusUnauthorized)
	case errors.Is(err, repository.ErrUserExists),
		errors.Is(err, service.ErrInvalidTransition):
		writeStatus(w, http.StatusConflict)
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrFoodNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrSettingsNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		writeStatus(w, http.StatusNotFound)
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrFoodUnavailable),
		errors.Is(err, service.ErrAddonUnavailable),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, repository.ErrAmountOutOfRange):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidWindow):
		writeStatus(w, http.StatusBadRequest)
	default:
		h.logger.Error(msg, append(fields, zap.Error(err))...)
		writeStatus(w, http.StatusInternalServerError)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userIDResponse struct {
	ID string `json:"id"`
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	userID, err := h.service.RegisterUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err, "register user error")
		return
	}

	h.authMiddleware.SetAuthCookie(w, userID)
	writeJSON(w, http.StatusOK, userIDResponse{ID: userID})
}

// Login выполняет аутентификацию пользователя и устанавливает cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	userID, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err, "login user error")
		return
	}

	h.authMiddleware.SetAuthCookie(w, userID)
	writeJSON(w, http.StatusOK, userIDResponse{ID: userID})
}

// Logout удаляет cookie авторизации.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusOK)
}

// GetProfile возвращает данные текущего пользователя.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	u, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "get profile error", zap.String("userID", userID))
		return
	}

	writeJSON(w, http.StatusOK, u)
}

type profileRequest struct {
	model.Profile
	IsMarketing bool `json:"isMarketing"`
}

// UpdateProfile обновляет контактные данные текущего пользователя.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateProfile(r.Context(), userID, req.Profile, req.IsMarketing); err != nil {
		h.writeError(w, err, "update profile error", zap.String("userID", userID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
