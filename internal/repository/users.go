package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/bittietasks/platform/internal/domain"
)

const userColumns = `id, email, phone, display_name, subscription_tier, balance::text, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var balance string
	err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.DisplayName, &u.Tier, &balance, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Balance, err = parseDecimal(balance)
	return u, err
}

type CreateUserParams struct {
	Email       string
	Phone       string
	DisplayName string
}

func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error) {
	const q = `
INSERT INTO users (email, phone, display_name)
VALUES ($1, $2, $3)
RETURNING ` + userColumns + `;
`
	u, err := scanUser(s.db.QueryRow(ctx, q, arg.Email, arg.Phone, arg.DisplayName))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.User{}, domain.ErrEmailTaken
	}
	return u, err
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1;
`
	u, err := scanUser(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, err
}

func (s *Store) GetUserForUpdate(ctx context.Context, id int64) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
FOR UPDATE;
`
	u, err := scanUser(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, err
}

// UpdateUserBalance applies a signed delta and returns the new balance.
func (s *Store) UpdateUserBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	const q = `
UPDATE users
SET balance = balance + $2::numeric,
    updated_at = now()
WHERE id = $1
RETURNING balance::text;
`
	var balance string
	if err := s.db.QueryRow(ctx, q, id, delta.String()).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, err
	}
	return parseDecimal(balance)
}

func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	const q = `
INSERT INTO sessions (token, user_id, expires_at)
VALUES ($1, $2, $3);
`
	_, err := s.db.Exec(ctx, q, token, userID, expiresAt)
	return err
}

// GetUserBySessionToken resolves a bearer token to its user, honoring expiry.
func (s *Store) GetUserBySessionToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	const q = `
SELECT u.id, u.email, u.phone, u.display_name, u.subscription_tier, u.balance::text, u.is_admin, u.created_at, u.updated_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token = $1
  AND s.expires_at > $2;
`
	u, err := scanUser(s.db.QueryRow(ctx, q, token, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrSessionNotFound
	}
	return u, err
}
