package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LocationType string

const (
	LocationHome      LocationType = "home"
	LocationCommunity LocationType = "community"
	LocationOnline    LocationType = "online"
)

// TaskDefinition is seeded reference data; read-only at runtime.
type TaskDefinition struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	Reward                decimal.Decimal `json:"reward"`
	DailyLimit            int             `json:"daily_limit"`
	CompletionWindowHours int             `json:"completion_window_hours"`
	LocationType          LocationType    `json:"location_type"`
	CreatedAt             time.Time       `json:"created_at"`
}
