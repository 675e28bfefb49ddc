package outbox

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/bittietasks/platform/internal/domain"
)

var ErrNoWork = errors.New("no due events")

type Repository interface {
	ClaimNextDue(ctx context.Context, now time.Time) (domain.OutboxEvent, bool, error)
	MarkDelivered(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, lastErr string, nextAttemptAt time.Time) error
}

type Processor interface {
	Process(ctx context.Context, ev domain.OutboxEvent) error
}

type Deps struct {
	Repo      Repository
	Processor Processor
	Backoff   BackoffConfig
	RNG       *rand.Rand
	Now       func() time.Time
}

// ProcessOnce claims at most one due event and delivers it. A failed
// delivery is rescheduled with backoff; the claim itself is never retried
// in-line.
func ProcessOnce(ctx context.Context, deps Deps) (bool, error) {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Backoff.BaseDelay == 0 && deps.Backoff.MaxDelay == 0 {
		deps.Backoff = DefaultBackoff()
	}

	ev, ok, err := deps.Repo.ClaimNextDue(ctx, deps.Now())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNoWork
	}

	if err := deps.Processor.Process(ctx, ev); err != nil {
		next := NextAttemptAt(deps.Now(), ev.Attempts, deps.Backoff, deps.RNG)
		_ = deps.Repo.MarkFailed(ctx, ev.ID, err.Error(), next)
		return true, err
	}

	if err := deps.Repo.MarkDelivered(ctx, ev.ID); err != nil {
		return true, err
	}
	return true, nil
}

type WorkerConfig struct {
	Interval  time.Duration // base polling interval
	Burst     int           // max events per tick
	IdleDelay time.Duration // sleep when no work
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Interval:  500 * time.Millisecond,
		Burst:     5,
		IdleDelay: 800 * time.Millisecond,
	}
}

// Run delivers outbox events until ctx is canceled.
func Run(ctx context.Context, deps Deps, cfg WorkerConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 500 * time.Millisecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = 800 * time.Millisecond
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	slog.Info("outbox worker started", "interval", cfg.Interval, "burst", cfg.Burst)

	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox worker stopping", "reason", ctx.Err())
			return

		case <-ticker.C:
			processedAny := false

			for i := 0; i < cfg.Burst; i++ {
				claimed, err := ProcessOnce(ctx, deps)
				if err != nil {
					if errors.Is(err, ErrNoWork) {
						break
					}
					slog.Error("outbox delivery failed", "error", err)
					continue
				}
				if claimed {
					processedAny = true
				}
			}

			if !processedAny {
				select {
				case <-ctx.Done():
					return
				case <-time.After(cfg.IdleDelay):
				}
			}
		}
	}
}
