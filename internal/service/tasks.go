package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bittietasks/platform/internal/config"
	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/repository"
)

type TaskService struct {
	db    *pgxpool.Pool
	store *repository.Store
}

func NewTaskService(db *pgxpool.Pool, store *repository.Store) *TaskService {
	return &TaskService{db: db, store: store}
}

// Availability reports how many slots a task has left today.
type Availability struct {
	TaskID              string    `json:"task_id"`
	Available           bool      `json:"available"`
	DailyCompleted      int       `json:"daily_completed"`
	DailyLimit          int       `json:"daily_limit"`
	RemainingSlots      int       `json:"remaining_slots"`
	ResetTime           time.Time `json:"reset_time"`
	CompletionTimeHours int       `json:"completion_time_hours"`
}

func (s *TaskService) List(ctx context.Context) ([]domain.TaskDefinition, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Availability is a pure read; the admission decision itself happens under a
// row lock in Join, so this result is advisory.
func (s *TaskService) Availability(ctx context.Context, taskID string, now time.Time) (Availability, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return Availability{}, err
	}

	start, end := dayWindow(now)
	completed, err := s.store.CountCompletedBetween(ctx, taskID, start, end)
	if err != nil {
		return Availability{}, fmt.Errorf("count completed: %w", err)
	}

	limit := effectiveDailyLimit(task)
	remaining := limit - completed
	if remaining < 0 {
		remaining = 0
	}

	return Availability{
		TaskID:              task.ID,
		Available:           remaining > 0,
		DailyCompleted:      completed,
		DailyLimit:          limit,
		RemainingSlots:      remaining,
		ResetTime:           end,
		CompletionTimeHours: effectiveWindowHours(task),
	}, nil
}

// Join admits a user to a task. The task row is locked for the span of the
// cap check and the insert, so two concurrent joins serialize and the daily
// cap holds.
func (s *TaskService) Join(ctx context.Context, taskID string, userID int64, now time.Time) (domain.Participation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	task, err := qtx.GetTaskForUpdate(ctx, taskID)
	if err != nil {
		return domain.Participation{}, err
	}

	if _, err := qtx.GetLiveParticipation(ctx, taskID, userID); err == nil {
		return domain.Participation{}, domain.ErrAlreadyJoined
	} else if !errors.Is(err, domain.ErrParticipationNotFound) {
		return domain.Participation{}, fmt.Errorf("check live participation: %w", err)
	}

	start, end := dayWindow(now)
	completed, err := qtx.CountCompletedBetween(ctx, taskID, start, end)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("count completed: %w", err)
	}
	if completed >= effectiveDailyLimit(task) {
		return domain.Participation{}, domain.ErrDailyCapReached
	}

	p, err := qtx.CreateParticipation(ctx, repository.CreateParticipationParams{
		TaskID:   taskID,
		UserID:   userID,
		Deadline: now.Add(completionWindow(task)),
	})
	if err != nil {
		return domain.Participation{}, fmt.Errorf("create participation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Participation{}, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

// dayWindow returns midnight-to-midnight around now, in now's location.
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

func effectiveDailyLimit(t domain.TaskDefinition) int {
	if t.DailyLimit > 0 {
		return t.DailyLimit
	}
	return config.DefaultDailyLimit
}

func effectiveWindowHours(t domain.TaskDefinition) int {
	if t.CompletionWindowHours > 0 {
		return t.CompletionWindowHours
	}
	return config.DefaultCompletionWindowHours
}

func completionWindow(t domain.TaskDefinition) time.Duration {
	return time.Duration(effectiveWindowHours(t)) * time.Hour
}
