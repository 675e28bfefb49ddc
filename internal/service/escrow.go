package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bittietasks/platform/internal/config"
	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/notify"
	"github.com/bittietasks/platform/internal/repository"
)

type EscrowService struct {
	db       *pgxpool.Pool
	store    *repository.Store
	cfg      *config.Config
	notifier *notify.Notifier
}

func NewEscrowService(db *pgxpool.Pool, store *repository.Store, cfg *config.Config, notifier *notify.Notifier) *EscrowService {
	return &EscrowService{db: db, store: store, cfg: cfg, notifier: notifier}
}

// Release marks an escrowed payment as released and credits the net payout
// to the participant, with a ledger row, in one transaction. Guarded on
// payment_status: a replay finds nothing releasable and returns
// ErrEscrowNotReady.
func (s *EscrowService) Release(ctx context.Context, participationID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	p, ok, err := qtx.ReleaseEscrow(ctx, participationID)
	if err != nil {
		return fmt.Errorf("release escrow: %w", err)
	}
	if !ok {
		return domain.ErrEscrowNotReady
	}

	task, err := qtx.GetTask(ctx, p.TaskID)
	if err != nil {
		return err
	}
	user, err := qtx.GetUserForUpdate(ctx, p.UserID)
	if err != nil {
		return err
	}

	fees := ComputeFees(task.Reward, PlatformFeePercent(s.cfg, user.Tier), s.cfg.ProcessingPercent)

	if _, err := qtx.UpdateUserBalance(ctx, user.ID, fees.Net); err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	_, err = qtx.CreateTransaction(ctx, repository.CreateTransactionParams{
		UserID:      &user.ID,
		Amount:      fees.Net,
		TxType:      domain.TxTypeCredit,
		Description: fmt.Sprintf("Task payout: %s", task.Title),
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.notifier.PayoutReleased(user.ID, fees.Net)
	return nil
}

// Process handles an outbox event. A redelivered release event whose escrow
// is already released counts as delivered.
func (s *EscrowService) Process(ctx context.Context, ev domain.OutboxEvent) error {
	switch ev.Type {
	case domain.EventEscrowRelease:
		var pl domain.EscrowReleasePayload
		if err := json.Unmarshal(ev.Payload, &pl); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		if err := s.Release(ctx, pl.ParticipationID); err != nil {
			if errors.Is(err, domain.ErrEscrowNotReady) {
				return nil
			}
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}
