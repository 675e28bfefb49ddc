package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bittietasks/platform/internal/config"
	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/repository"
)

type DeadlineService struct {
	db    *pgxpool.Pool
	store *repository.Store
}

func NewDeadlineService(db *pgxpool.Pool, store *repository.Store) *DeadlineService {
	return &DeadlineService{db: db, store: store}
}

type ExpiredTask struct {
	ID           int64     `json:"id"`
	TaskID       string    `json:"task_id"`
	UserID       int64     `json:"user_id"`
	WasDeadline  time.Time `json:"was_deadline"`
	HoursOverdue int       `json:"hours_overdue"`
}

type ExpireResult struct {
	Count   int
	Expired []ExpiredTask
}

// Extend pushes the caller's deadline out by twelve hours. One extension per
// participation, ever; a lapsed deadline cannot be extended.
func (s *DeadlineService) Extend(ctx context.Context, taskID string, userID int64, now time.Time) (domain.Participation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	p, err := qtx.GetActiveParticipationForUpdate(ctx, taskID, userID)
	if err != nil {
		return domain.Participation{}, err
	}
	if p.DeadlineExtended {
		return domain.Participation{}, domain.ErrAlreadyExtended
	}
	if p.Deadline == nil || now.After(*p.Deadline) {
		return domain.Participation{}, domain.ErrDeadlinePassed
	}

	updated, err := qtx.ExtendDeadline(ctx, p.ID, p.Deadline.Add(config.DeadlineExtension), now)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("extend deadline: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Participation{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// ExpireOverdue sweeps overdue participations into the expired state.
// Idempotent: a second run selects nothing.
func (s *DeadlineService) ExpireOverdue(ctx context.Context, now time.Time) (ExpireResult, error) {
	rows, err := s.store.ExpireOverdue(ctx, now)
	if err != nil {
		return ExpireResult{}, fmt.Errorf("expire overdue: %w", err)
	}
	return toExpireResult(rows, now), nil
}

// PreviewOverdue reports what ExpireOverdue would do, without mutating.
func (s *DeadlineService) PreviewOverdue(ctx context.Context, now time.Time) (ExpireResult, error) {
	rows, err := s.store.ListOverdue(ctx, now)
	if err != nil {
		return ExpireResult{}, fmt.Errorf("list overdue: %w", err)
	}
	return toExpireResult(rows, now), nil
}

func toExpireResult(rows []repository.OverdueRow, now time.Time) ExpireResult {
	res := ExpireResult{Count: len(rows), Expired: make([]ExpiredTask, 0, len(rows))}
	for _, r := range rows {
		res.Expired = append(res.Expired, ExpiredTask{
			ID:           r.ID,
			TaskID:       r.TaskID,
			UserID:       r.UserID,
			WasDeadline:  r.WasDeadline,
			HoursOverdue: hoursOverdue(now, r.WasDeadline),
		})
	}
	return res
}

func hoursOverdue(now, deadline time.Time) int {
	return int(math.Round(now.Sub(deadline).Hours()))
}
