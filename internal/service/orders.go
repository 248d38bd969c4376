package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/puffingood/internal/events"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/pricing"
	"github.com/mmeshcher/puffingood/internal/repository"
	"github.com/mmeshcher/puffingood/internal/summary"
	"github.com/mmeshcher/puffingood/internal/validation"
)

// Ошибки оформления и обработки заказов.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrInvalidWindow     = errors.New("window must be between 0 and 36500 days")
)

// allowedFrom перечисляет статусы, из которых допускается переход в ключевой статус.
var allowedFrom = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusProcessing: {model.OrderStatusPending},
	model.OrderStatusCompleted:  {model.OrderStatusProcessing},
	model.OrderStatusCancelled:  {model.OrderStatusPending, model.OrderStatusProcessing},
}

// CheckoutRequest содержит данные оформления заказа. Если Items пуст, используется корзина.
type CheckoutRequest struct {
	Items    []ItemRequest         `json:"items"`
	Delivery model.DeliveryDetails `json:"delivery"`
}

// PlaceOrder оформляет заказ по корзине или переданным позициям.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req CheckoutRequest) (*model.Order, error) {
	if err := validation.DeliveryDetails(req.Delivery); err != nil {
		return nil, err
	}

	reqs := req.Items
	fromCart := len(reqs) == 0
	if fromCart {
		c, err := s.loadCart(ctx, userID)
		if err != nil {
			return nil, err
		}
		reqs = toRequests(c.Items)
	}
	if len(reqs) == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.resolveItems(ctx, reqs)
	if err != nil {
		return nil, err
	}

	quote := pricing.Price(items)

	order, err := s.repo.CreateOrder(ctx, model.Order{
		UserID:         userID,
		Items:          items,
		Status:         model.OrderStatusPending,
		Total:          decimal.NewNullDecimal(quote.GrandTotal),
		DeliveryFee:    quote.DeliveryFee,
		City:           req.Delivery.City,
		TrackingNumber: newTrackingNumber(),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if fromCart {
		if err := s.ClearCart(ctx, userID); err != nil {
			s.logger.Warn("clear cart after checkout", zap.Error(err), zap.String("userID", userID))
		}
	}

	s.metrics.OrderPlaced(ctx, *order)

	if err := s.publisher.Publish(ctx, events.TopicOrderPlaced, order.ID, events.NewOrderPlaced(*order)); err != nil {
		s.logger.Error("publish order placed", zap.Error(err), zap.String("order", order.ID))
	}

	return order, nil
}

// newTrackingNumber возвращает 12-значный номер отслеживания с контрольной цифрой Луна.
func newTrackingNumber() string {
	id := uuid.New()
	digits := make([]byte, 0, validation.TrackingNumberLength)
	for i := 0; i < validation.TrackingNumberLength-1; i++ {
		digits = append(digits, '0'+id[i]%10)
	}
	return string(append(digits, validation.LuhnCheckDigit(string(digits))))
}

// ListUserOrders возвращает историю заказов пользователя.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]model.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

// GetOrder возвращает заказ, если его запрашивает владелец или администратор.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID == userID {
		return o, nil
	}

	isAdmin, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

// TrackOrder возвращает заказ по номеру отслеживания.
func (s *Service) TrackOrder(ctx context.Context, number string) (*model.Order, error) {
	return s.repo.GetOrderByTrackingNumber(ctx, number)
}

// ListOrders возвращает все заказы.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListOrders(ctx)
}

// UpdateOrderStatus переводит заказ в новый статус от имени администратора.
func (s *Service) UpdateOrderStatus(ctx context.Context, actorID, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	from, ok := allowedFrom[status]
	if !ok {
		return nil, ErrInvalidTransition
	}

	o, err := s.repo.UpdateOrderStatus(ctx, orderID, from, status)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		return nil, err
	}

	event := events.OrderStatusChanged{
		OrderID:   o.ID,
		Status:    o.Status,
		ChangedBy: s.actorEmail(ctx, actorID),
		ChangedAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderStatusChanged, o.ID, event); err != nil {
		s.logger.Error("publish order status changed", zap.Error(err), zap.String("order", o.ID))
	}

	return o, nil
}

// Summary рассчитывает сводку по заказам за последние windowDays суток.
func (s *Service) Summary(ctx context.Context, windowDays int) (summary.Summary, error) {
	if windowDays < 0 || windowDays > summary.MaxWindowDays {
		return summary.Summary{}, ErrInvalidWindow
	}

	now := s.now()
	orders, err := s.repo.ListOrdersSince(ctx, summary.Cutoff(now, windowDays))
	if err != nil {
		return summary.Summary{}, err
	}

	return summary.Summarize(orders, windowDays, now), nil
}

// StartSummaryRefresh периодически пересчитывает сводку за windowDays суток и передаёт её в метрики.
// Блокируется до отмены контекста.
func (s *Service) StartSummaryRefresh(ctx context.Context, windowDays int, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.refreshSummary(ctx, windowDays)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) refreshSummary(ctx context.Context, windowDays int) {
	sum, err := s.Summary(ctx, windowDays)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("refresh summary", zap.Error(err))
		}
		return
	}
	s.metrics.Update(sum)
}
