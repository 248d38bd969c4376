package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/puffingood/internal/model"
)

const orderColumns = `id::text, user_id::text, items, status, total, delivery_fee, city, tracking_number, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o           model.Order
		items       []byte
		status      string
		totalCents  *int64
		deliveryFee int64
	)
	err := row.Scan(&o.ID, &o.UserID, &items, &status, &totalCents, &deliveryFee, &o.City, &o.TrackingNumber, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	o.Status = model.OrderStatus(status)
	if totalCents != nil {
		o.Total = decimal.NewNullDecimal(fromCents(*totalCents))
	}
	o.DeliveryFee = fromCents(deliveryFee)

	return &o, nil
}

func (r *PostgresRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	res := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		res = append(res, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateOrder сохраняет заказ и возвращает его с идентификатором и временем создания.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o model.Order) (*model.Order, error) {
	uid, err := uuid.Parse(o.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	var total *int64
	if o.Total.Valid {
		v, err := toCents(o.Total.Decimal)
		if err != nil {
			return nil, err
		}
		total = &v
	}

	fee, err := toCents(o.DeliveryFee)
	if err != nil {
		return nil, err
	}

	res, err := scanOrder(r.pool.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, items, status, total, delivery_fee, city, tracking_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+orderColumns,
		uuid.New(), uid, items, string(o.Status), total, fee, o.City, o.TrackingNumber,
	))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return res, nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return []model.Order{}, nil
	}
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		uid,
	)
}

// ListOrders возвращает все заказы, новые первыми.
func (r *PostgresRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// ListOrdersSince возвращает заказы, созданные не раньше since.
func (r *PostgresRepository) ListOrdersSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE created_at >= $1 ORDER BY created_at DESC`,
		since,
	)
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, oid)
}

// GetOrderByTrackingNumber возвращает заказ по номеру отслеживания.
func (r *PostgresRepository) GetOrderByTrackingNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE tracking_number = $1`, number)
}

func (r *PostgresRepository) getOrder(ctx context.Context, query string, arg any) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// UpdateOrderStatus переводит заказ в статус to, если его текущий статус входит в from.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id string, from []model.OrderStatus, to model.OrderStatus) (*model.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}

	var res *model.Order
	err = r.withRetry(ctx, func() error {
		tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var current string
		err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, oid).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		permitted := false
		for _, s := range allowed {
			if s == current {
				permitted = true
				break
			}
		}
		if !permitted {
			return fmt.Errorf("%w: %s -> %s", ErrStatusConflict, current, to)
		}

		o, err := scanOrder(tx.QueryRow(ctx,
			`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+orderColumns,
			oid, string(to),
		))
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		res = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
