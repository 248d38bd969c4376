package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmeshcher/puffingood/internal/cart"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/pricing"
)

const cartTTL = 7 * 24 * time.Hour

func (s *Service) cartKey(userID string) string {
	return s.cache.GenerateKey("cart", userID)
}

func (s *Service) loadCart(ctx context.Context, userID string) (model.Cart, error) {
	raw, ok, err := s.cache.Get(ctx, s.cartKey(userID))
	if err != nil {
		return model.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	return decodeCart(raw, ok)
}

func decodeCart(raw string, found bool) (model.Cart, error) {
	if !found {
		return model.Cart{Items: []model.LineItem{}}, nil
	}

	var c model.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return model.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []model.LineItem{}
	}
	return c, nil
}

// updateCart атомарно применяет fn к корзине пользователя. Пустая корзина удаляется.
// Ошибки fn возвращаются без обёртки.
func (s *Service) updateCart(ctx context.Context, userID string, fn func(model.Cart) (model.Cart, error)) (model.Cart, error) {
	var updated model.Cart
	var fnErr error

	err := s.cache.Update(ctx, s.cartKey(userID), cartTTL, func(raw string, found bool) (string, error) {
		c, err := decodeCart(raw, found)
		if err != nil {
			return "", err
		}

		c, fnErr = fn(c)
		if fnErr != nil {
			return "", fnErr
		}
		updated = c

		if len(c.Items) == 0 {
			return "", nil
		}
		data, err := json.Marshal(c)
		if err != nil {
			return "", fmt.Errorf("encode cart: %w", err)
		}
		return string(data), nil
	})
	if fnErr != nil {
		return model.Cart{}, fnErr
	}
	if err != nil {
		return model.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return updated, nil
}

// GetCart возвращает корзину пользователя и её стоимость.
func (s *Service) GetCart(ctx context.Context, userID string) (model.Cart, pricing.Quote, error) {
	c, err := s.loadCart(ctx, userID)
	if err != nil {
		return model.Cart{}, pricing.Quote{}, err
	}
	return c, pricing.Price(c.Items), nil
}

// AddToCart добавляет блюдо в корзину с ценами из текущего меню.
func (s *Service) AddToCart(ctx context.Context, userID string, req ItemRequest) (model.Cart, error) {
	items, err := s.resolveItems(ctx, []ItemRequest{req})
	if err != nil {
		return model.Cart{}, err
	}

	return s.updateCart(ctx, userID, func(c model.Cart) (model.Cart, error) {
		return cart.AddItem(c, items[0])
	})
}

// UpdateCartItem задаёт количество для позиции корзины; ноль удаляет позицию.
func (s *Service) UpdateCartItem(ctx context.Context, userID string, index, quantity int) (model.Cart, error) {
	return s.updateCart(ctx, userID, func(c model.Cart) (model.Cart, error) {
		return cart.UpdateQuantity(c, index, quantity)
	})
}

// RemoveCartItem удаляет позицию корзины.
func (s *Service) RemoveCartItem(ctx context.Context, userID string, index int) (model.Cart, error) {
	return s.updateCart(ctx, userID, func(c model.Cart) (model.Cart, error) {
		return cart.RemoveItem(c, index)
	})
}

// ClearCart очищает корзину пользователя.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, s.cartKey(userID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Quote рассчитывает стоимость произвольного набора позиций по ценам меню.
func (s *Service) Quote(ctx context.Context, reqs []ItemRequest) ([]model.LineItem, pricing.Quote, error) {
	items, err := s.resolveItems(ctx, reqs)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return items, pricing.Price(items), nil
}
