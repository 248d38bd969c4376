package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/puffingood/internal/menu"
	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/validation"
)

const menuCacheTTL = 5 * time.Minute

// Ошибки разбора позиций корзины.
var (
	ErrFoodUnavailable  = errors.New("food is not available")
	ErrAddonUnavailable = errors.New("addon is not available")
)

// ItemRequest описывает позицию, которую покупатель хочет добавить в корзину или заказ.
type ItemRequest struct {
	FoodID   string   `json:"foodId"`
	Quantity int      `json:"quantity"`
	Addons   []string `json:"addons"`
}

func (s *Service) menuKey() string {
	return s.cache.GenerateKey("menu", "all")
}

// Menu возвращает полное меню, используя кэш.
func (s *Service) Menu(ctx context.Context) ([]model.Food, error) {
	key := s.menuKey()

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("menu cache read", zap.Error(err))
	} else if ok {
		var foods []model.Food
		decodeErr := json.Unmarshal([]byte(raw), &foods)
		if decodeErr == nil {
			return foods, nil
		}
		s.logger.Warn("menu cache decode", zap.Error(decodeErr))
	}

	foods, err := s.repo.ListFoods(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(foods); err == nil {
		if err := s.cache.Set(ctx, key, string(data), menuCacheTTL); err != nil {
			s.logger.Warn("menu cache write", zap.Error(err))
		}
	}

	return foods, nil
}

func (s *Service) invalidateMenu(ctx context.Context) {
	if err := s.cache.Delete(ctx, s.menuKey()); err != nil {
		s.logger.Warn("menu cache invalidate", zap.Error(err))
	}
}

// ListMenu возвращает доступные блюда с фильтром по поиску и категории.
func (s *Service) ListMenu(ctx context.Context, query, category string) ([]model.Food, error) {
	foods, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Filter(foods, query, category), nil
}

// Categories возвращает категории доступных блюд.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	foods, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Categories(menu.Filter(foods, "", menu.AllCategories)), nil
}

// CreateFood добавляет позицию меню от имени администратора.
func (s *Service) CreateFood(ctx context.Context, actorID string, f model.Food) (*model.Food, error) {
	if err := validation.Food(f); err != nil {
		return nil, err
	}

	actor := s.actorEmail(ctx, actorID)
	f.CreatedBy = actor
	f.UpdatedBy = actor

	res, err := s.repo.CreateFood(ctx, f)
	if err != nil {
		return nil, err
	}

	s.invalidateMenu(ctx)
	return res, nil
}

// UpdateFood перезаписывает позицию меню от имени администратора.
func (s *Service) UpdateFood(ctx context.Context, actorID string, f model.Food) (*model.Food, error) {
	if err := validation.Food(f); err != nil {
		return nil, err
	}

	f.UpdatedBy = s.actorEmail(ctx, actorID)

	res, err := s.repo.UpdateFood(ctx, f)
	if err != nil {
		return nil, err
	}

	s.invalidateMenu(ctx)
	return res, nil
}

// DeleteFood удаляет позицию меню.
func (s *Service) DeleteFood(ctx context.Context, id string) error {
	if err := s.repo.DeleteFood(ctx, id); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

// resolveItems превращает запросы покупателя в позиции с ценами из текущего меню.
func (s *Service) resolveItems(ctx context.Context, reqs []ItemRequest) ([]model.LineItem, error) {
	foods, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}

	items := make([]model.LineItem, 0, len(reqs))
	for _, req := range reqs {
		item, err := resolveItem(byID, req)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func resolveItem(foods map[string]model.Food, req ItemRequest) (model.LineItem, error) {
	if err := validation.Quantity(req.Quantity); err != nil {
		return model.LineItem{}, err
	}

	f, ok := foods[req.FoodID]
	if !ok || !f.IsAvailable {
		return model.LineItem{}, ErrFoodUnavailable
	}

	item := model.LineItem{
		FoodID:    f.ID,
		Name:      f.Name,
		UnitPrice: f.Price,
		Quantity:  req.Quantity,
		Addons:    make([]model.LineItemAddon, 0, len(req.Addons)),
	}

	for _, name := range req.Addons {
		a, ok := f.FindAddon(name)
		if !ok || !a.IsAvailable {
			return model.LineItem{}, ErrAddonUnavailable
		}
		item.Addons = append(item.Addons, model.LineItemAddon{Name: a.Name, Price: a.Price})
	}

	return item, nil
}

func toRequests(items []model.LineItem) []ItemRequest {
	reqs := make([]ItemRequest, 0, len(items))
	for _, it := range items {
		names := make([]string, 0, len(it.Addons))
		for _, a := range it.Addons {
			names = append(names, a.Name)
		}
		reqs = append(reqs, ItemRequest{FoodID: it.FoodID, Quantity: it.Quantity, Addons: names})
	}
	return reqs
}
