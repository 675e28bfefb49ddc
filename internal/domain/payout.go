package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout is the record produced by the simulated transfer path. There is no
// real payout rail behind it; the transfer id is generated locally.
type Payout struct {
	TransferID       string          `json:"transfer_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	EstimatedArrival time.Time       `json:"estimated_arrival"`
	Method           string          `json:"method"`
	Fee              decimal.Decimal `json:"fee"`
	NetAmount        decimal.Decimal `json:"net_amount"`
}
