package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/pricing"
	"github.com/mmeshcher/puffingood/internal/repository"
)

// GetSettings возвращает настройки доставки.
func (s *Service) GetSettings(ctx context.Context) (*model.AdminSettings, error) {
	return s.repo.GetAdminSettings(ctx)
}

// UpdateSettings сохраняет настройки доставки от имени администратора.
func (s *Service) UpdateSettings(ctx context.Context, actorID string, settings model.AdminSettings) error {
	settings.UpdatedBy = s.actorEmail(ctx, actorID)
	return s.repo.SaveAdminSettings(ctx, settings)
}

// DeliveryFee возвращает стоимость доставки в город и признак доступности доставки.
func (s *Service) DeliveryFee(ctx context.Context, city string) (decimal.Decimal, bool, error) {
	settings, err := s.repo.GetAdminSettings(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrSettingsNotFound) {
			return decimal.Zero, false, err
		}
		settings = nil
	}

	fee, ok := pricing.CityFee(settings, city)
	return fee, ok, nil
}
