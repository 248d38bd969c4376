package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/puffingood/internal/model"
)

// GetAdminSettings возвращает настройки доставки.
func (r *PostgresRepository) GetAdminSettings(ctx context.Context) (*model.AdminSettings, error) {
	var (
		s                model.AdminSettings
		galwayFee        int64
		outsideGalwayFee int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT is_galway, is_outside_galway, is_discount, discount_code, galway_fee, outside_galway_fee,
		        galway_delivery_time, outside_galway_delivery_time, updated_at, updated_by
		 FROM admin_settings WHERE id = 1`,
	).Scan(
		&s.IsGalway, &s.IsOutsideGalway, &s.IsDiscount, &s.DiscountCode, &galwayFee, &outsideGalwayFee,
		&s.GalwayDeliveryTime, &s.OutsideGalwayDeliveryTime, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get admin settings: %w", err)
	}

	s.GalwayFee = fromCents(galwayFee)
	s.OutsideGalwayFee = fromCents(outsideGalwayFee)

	return &s, nil
}

// SaveAdminSettings создаёт или перезаписывает настройки доставки.
func (r *PostgresRepository) SaveAdminSettings(ctx context.Context, s model.AdminSettings) error {
	galwayFee, err := toCents(s.GalwayFee)
	if err != nil {
		return err
	}
	outsideFee, err := toCents(s.OutsideGalwayFee)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO admin_settings (id, is_galway, is_outside_galway, is_discount, discount_code,
		     galway_fee, outside_galway_fee, galway_delivery_time, outside_galway_delivery_time, updated_by)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     is_galway = EXCLUDED.is_galway,
		     is_outside_galway = EXCLUDED.is_outside_galway,
		     is_discount = EXCLUDED.is_discount,
		     discount_code = EXCLUDED.discount_code,
		     galway_fee = EXCLUDED.galway_fee,
		     outside_galway_fee = EXCLUDED.outside_galway_fee,
		     galway_delivery_time = EXCLUDED.galway_delivery_time,
		     outside_galway_delivery_time = EXCLUDED.outside_galway_delivery_time,
		     updated_by = EXCLUDED.updated_by,
		     updated_at = NOW()`,
		s.IsGalway, s.IsOutsideGalway, s.IsDiscount, s.DiscountCode,
		galwayFee, outsideFee,
		s.GalwayDeliveryTime, s.OutsideGalwayDeliveryTime, s.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("save admin settings: %w", err)
	}
	return nil
}
