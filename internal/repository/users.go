package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/puffingood/internal/model"
)

const userColumns = `id::text, email, password_hash, is_admin, is_marketing,
	name, phone, address, city, state, zip_code, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.IsMarketing,
		&u.Profile.Name, &u.Profile.Phone, &u.Profile.Address,
		&u.Profile.City, &u.Profile.State, &u.Profile.ZipCode, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser создаёт нового пользователя и возвращает его идентификатор.
func (r *PostgresRepository) CreateUser(ctx context.Context, email string, passwordHash []byte) (string, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		id, email, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return id.String(), nil
}

// GetUserByEmail возвращает пользователя по email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		uid,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var res []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		res = append(res, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateUserRole выдаёт или снимает права администратора.
func (r *PostgresRepository) UpdateUserRole(ctx context.Context, id string, isAdmin bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1`,
		uid, isAdmin,
	)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUserProfile обновляет контактные данные и согласие на рассылку.
func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, id string, p model.Profile, isMarketing bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET name = $2, phone = $3, address = $4, city = $5, state = $6, zip_code = $7,
		     is_marketing = $8, updated_at = NOW()
		 WHERE id = $1`,
		uid, p.Name, p.Phone, p.Address, p.City, p.State, p.ZipCode, isMarketing,
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
