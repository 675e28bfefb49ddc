package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bittietasks/platform/internal/config"
	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/repository"
)

type PayoutService struct {
	store *repository.Store
	cfg   *config.Config
}

func NewPayoutService(store *repository.Store, cfg *config.Config) *PayoutService {
	return &PayoutService{store: store, cfg: cfg}
}

// FeeBreakdown splits a gross reward into platform fee, processing fee and
// the net amount paid out.
type FeeBreakdown struct {
	Platform   decimal.Decimal
	Processing decimal.Decimal
	Net        decimal.Decimal
}

// ComputeFees applies the tier's platform percentage and the processing
// percentage to a gross amount. Fees round to cents; net = gross - fees.
func ComputeFees(gross decimal.Decimal, platformPercent, processingPercent float64) FeeBreakdown {
	hundred := decimal.NewFromInt(100)
	platform := gross.Mul(decimal.NewFromFloat(platformPercent)).Div(hundred).Round(2)
	processing := gross.Mul(decimal.NewFromFloat(processingPercent)).Div(hundred).Round(2)
	return FeeBreakdown{
		Platform:   platform,
		Processing: processing,
		Net:        gross.Sub(platform).Sub(processing),
	}
}

// PlatformFeePercent picks the tier's fee percentage from config.
func PlatformFeePercent(cfg *config.Config, tier domain.SubscriptionTier) float64 {
	switch tier {
	case domain.TierPremium:
		return cfg.FeePercentPremium
	case domain.TierPro:
		return cfg.FeePercentPro
	default:
		return cfg.FeePercentFree
	}
}

type PayoutRequest struct {
	UserID         int64
	TaskID         string
	VerificationID int64
	Amount         decimal.Decimal
	BankAccount    string
}

// Simulate produces a payout record for the simulated transfer path. No real
// payout rail is involved; the transfer id is generated here.
func (s *PayoutService) Simulate(ctx context.Context, req PayoutRequest, now time.Time) (domain.Payout, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.Payout{}, domain.ErrInvalidAmount
	}

	if _, err := s.store.GetTask(ctx, req.TaskID); err != nil {
		return domain.Payout{}, err
	}
	user, err := s.store.GetUserByID(ctx, req.UserID)
	if err != nil {
		return domain.Payout{}, err
	}

	fees := ComputeFees(req.Amount, PlatformFeePercent(s.cfg, user.Tier), s.cfg.ProcessingPercent)

	return domain.Payout{
		TransferID:       "sim_" + uuid.NewString(),
		Amount:           req.Amount,
		Currency:         config.PayoutCurrency,
		Status:           "processing",
		EstimatedArrival: now.Add(config.PayoutArrivalDelay),
		Method:           config.PayoutMethod,
		Fee:              fees.Platform.Add(fees.Processing),
		NetAmount:        fees.Net,
	}, nil
}
