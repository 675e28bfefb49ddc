package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bittietasks/platform/internal/domain"
)

const taskColumns = `id, title, description, reward::text, daily_limit, completion_window_hours, location_type, created_at`

func scanTask(row pgx.Row) (domain.TaskDefinition, error) {
	var t domain.TaskDefinition
	var reward string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &reward, &t.DailyLimit, &t.CompletionWindowHours, &t.LocationType, &t.CreatedAt)
	if err != nil {
		return domain.TaskDefinition{}, err
	}
	t.Reward, err = parseDecimal(reward)
	return t, err
}

func (s *Store) GetTask(ctx context.Context, id string) (domain.TaskDefinition, error) {
	const q = `
SELECT ` + taskColumns + `
FROM task_definitions
WHERE id = $1;
`
	t, err := scanTask(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TaskDefinition{}, domain.ErrTaskNotFound
	}
	return t, err
}

// GetTaskForUpdate locks the task row; join admission counts against the
// daily cap under this lock so concurrent joins cannot overshoot it.
func (s *Store) GetTaskForUpdate(ctx context.Context, id string) (domain.TaskDefinition, error) {
	const q = `
SELECT ` + taskColumns + `
FROM task_definitions
WHERE id = $1
FOR UPDATE;
`
	t, err := scanTask(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TaskDefinition{}, domain.ErrTaskNotFound
	}
	return t, err
}

func (s *Store) ListTasks(ctx context.Context) ([]domain.TaskDefinition, error) {
	const q = `
SELECT ` + taskColumns + `
FROM task_definitions
ORDER BY id;
`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.TaskDefinition
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CountCompletedBetween counts completed participations of a task inside
// [start, end). The availability window is one local calendar day.
func (s *Store) CountCompletedBetween(ctx context.Context, taskID string, start, end time.Time) (int, error) {
	const q = `
SELECT count(*)
FROM participations
WHERE task_id = $1
  AND status = 'completed'
  AND completed_at >= $2
  AND completed_at < $3;
`
	var n int
	err := s.db.QueryRow(ctx, q, taskID, start, end).Scan(&n)
	return n, err
}
