package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPro     SubscriptionTier = "pro"
	TierPremium SubscriptionTier = "premium"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierPremium:
		return true
	}
	return false
}

type User struct {
	ID          int64            `json:"id"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	DisplayName string           `json:"display_name"`
	Tier        SubscriptionTier `json:"subscription_tier"`
	Balance     decimal.Decimal  `json:"balance"`
	IsAdmin     bool             `json:"is_admin"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
