package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxTypeDebit  TxType = "debit"
	TxTypeCredit TxType = "credit"
)

// Transaction is a ledger row; every balance mutation writes one in the
// same database transaction.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      *int64          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	TxType      TxType          `json:"tx_type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
