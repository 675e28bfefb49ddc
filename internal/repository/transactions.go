package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bittietasks/platform/internal/domain"
)

type CreateTransactionParams struct {
	UserID      *int64
	Amount      decimal.Decimal
	TxType      domain.TxType
	Description string
}

func (s *Store) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	const q = `
INSERT INTO transactions (user_id, amount, tx_type, description)
VALUES ($1, $2::numeric, $3, $4)
RETURNING id;
`
	var id int64
	err := s.db.QueryRow(ctx, q, arg.UserID, arg.Amount.String(), arg.TxType, arg.Description).Scan(&id)
	return id, err
}
