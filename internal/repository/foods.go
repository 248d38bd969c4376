package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/puffingood/internal/model"
)

const foodColumns = `id::text, name, description, price, image_path, category, is_available,
	addons, created_at, created_by, updated_at, updated_by`

func scanFood(row pgx.Row) (*model.Food, error) {
	var (
		f          model.Food
		priceCents int64
		addons     []byte
	)
	err := row.Scan(
		&f.ID, &f.Name, &f.Description, &priceCents, &f.ImagePath, &f.Category, &f.IsAvailable,
		&addons, &f.CreatedAt, &f.CreatedBy, &f.UpdatedAt, &f.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	f.Price = fromCents(priceCents)
	if err := json.Unmarshal(addons, &f.Addons); err != nil {
		return nil, fmt.Errorf("decode addons: %w", err)
	}
	if f.Addons == nil {
		f.Addons = []model.Addon{}
	}

	return &f, nil
}

func encodeAddons(addons []model.Addon) ([]byte, error) {
	if addons == nil {
		addons = []model.Addon{}
	}
	data, err := json.Marshal(addons)
	if err != nil {
		return nil, fmt.Errorf("encode addons: %w", err)
	}
	return data, nil
}

// CreateFood сохраняет новую позицию меню и возвращает её с присвоенным идентификатором.
func (r *PostgresRepository) CreateFood(ctx context.Context, f model.Food) (*model.Food, error) {
	addons, err := encodeAddons(f.Addons)
	if err != nil {
		return nil, err
	}

	price, err := toCents(f.Price)
	if err != nil {
		return nil, err
	}

	res, err := scanFood(r.pool.QueryRow(ctx,
		`INSERT INTO foods (id, name, description, price, image_path, category, is_available, addons, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		 RETURNING `+foodColumns,
		uuid.New(), f.Name, f.Description, price, f.ImagePath, f.Category, f.IsAvailable, addons, f.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("insert food: %w", err)
	}
	return res, nil
}

// ListFoods возвращает всё меню, новые позиции первыми.
func (r *PostgresRepository) ListFoods(ctx context.Context) ([]model.Food, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+foodColumns+` FROM foods ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select foods: %w", err)
	}
	defer rows.Close()

	res := []model.Food{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		res = append(res, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetFood возвращает позицию меню по идентификатору.
func (r *PostgresRepository) GetFood(ctx context.Context, id string) (*model.Food, error) {
	fid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrFoodNotFound
	}

	f, err := scanFood(r.pool.QueryRow(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, fid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("get food: %w", err)
	}
	return f, nil
}

// UpdateFood перезаписывает позицию меню.
func (r *PostgresRepository) UpdateFood(ctx context.Context, f model.Food) (*model.Food, error) {
	fid, err := uuid.Parse(f.ID)
	if err != nil {
		return nil, ErrFoodNotFound
	}

	addons, err := encodeAddons(f.Addons)
	if err != nil {
		return nil, err
	}

	price, err := toCents(f.Price)
	if err != nil {
		return nil, err
	}

	res, err := scanFood(r.pool.QueryRow(ctx,
		`UPDATE foods
		 SET name = $2, description = $3, price = $4, image_path = $5, category = $6,
		     is_available = $7, addons = $8, updated_by = $9, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+foodColumns,
		fid, f.Name, f.Description, price, f.ImagePath, f.Category, f.IsAvailable, addons, f.UpdatedBy,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("update food: %w", err)
	}
	return res, nil
}

// DeleteFood удаляет позицию меню.
func (r *PostgresRepository) DeleteFood(ctx context.Context, id string) error {
	fid, err := uuid.Parse(id)
	if err != nil {
		return ErrFoodNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM foods WHERE id = $1`, fid)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFoodNotFound
	}
	return nil
}
