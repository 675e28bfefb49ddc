package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bittietasks/platform/internal/domain"
)

const participationColumns = `id, task_id, user_id, status, payment_status, joined_at, deadline, completed_at, deadline_extended, extension_requested_at`

func scanParticipation(row pgx.Row) (domain.Participation, error) {
	var p domain.Participation
	err := row.Scan(&p.ID, &p.TaskID, &p.UserID, &p.Status, &p.PaymentStatus, &p.JoinedAt, &p.Deadline, &p.CompletedAt, &p.DeadlineExtended, &p.ExtensionRequestedAt)
	return p, err
}

type CreateParticipationParams struct {
	TaskID   string
	UserID   int64
	Deadline time.Time
}

func (s *Store) CreateParticipation(ctx context.Context, arg CreateParticipationParams) (domain.Participation, error) {
	const q = `
INSERT INTO participations (task_id, user_id, status, payment_status, deadline)
VALUES ($1, $2, 'active', 'pending', $3)
RETURNING ` + participationColumns + `;
`
	return scanParticipation(s.db.QueryRow(ctx, q, arg.TaskID, arg.UserID, arg.Deadline))
}

func (s *Store) GetParticipation(ctx context.Context, id int64) (domain.Participation, error) {
	const q = `
SELECT ` + participationColumns + `
FROM participations
WHERE id = $1;
`
	p, err := scanParticipation(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participation{}, domain.ErrParticipationNotFound
	}
	return p, err
}

// GetLiveParticipation returns the caller's undecided attempt at a task.
func (s *Store) GetLiveParticipation(ctx context.Context, taskID string, userID int64) (domain.Participation, error) {
	const q = `
SELECT ` + participationColumns + `
FROM participations
WHERE task_id = $1
  AND user_id = $2
  AND status IN ('active', 'pending_verification', 'auto_approved')
ORDER BY joined_at DESC
LIMIT 1;
`
	p, err := scanParticipation(s.db.QueryRow(ctx, q, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participation{}, domain.ErrParticipationNotFound
	}
	return p, err
}

// GetActiveParticipationForUpdate locks the caller's active attempt for the
// extend-deadline flow.
func (s *Store) GetActiveParticipationForUpdate(ctx context.Context, taskID string, userID int64) (domain.Participation, error) {
	const q = `
SELECT ` + participationColumns + `
FROM participations
WHERE task_id = $1
  AND user_id = $2
  AND status = 'active'
ORDER BY joined_at DESC
LIMIT 1
FOR UPDATE;
`
	p, err := scanParticipation(s.db.QueryRow(ctx, q, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participation{}, domain.ErrParticipationNotFound
	}
	return p, err
}

func (s *Store) ExtendDeadline(ctx context.Context, id int64, newDeadline, requestedAt time.Time) (domain.Participation, error) {
	const q = `
UPDATE participations
SET deadline = $2,
    deadline_extended = TRUE,
    extension_requested_at = $3
WHERE id = $1
RETURNING ` + participationColumns + `;
`
	return scanParticipation(s.db.QueryRow(ctx, q, id, newDeadline, requestedAt))
}

// MarkSubmitted moves an active attempt to pending_verification and escrows
// the reward. Guarded on status so a replayed submission does not reapply.
func (s *Store) MarkSubmitted(ctx context.Context, id int64) (domain.Participation, bool, error) {
	const q = `
UPDATE participations
SET status = 'pending_verification',
    payment_status = 'escrowed'
WHERE id = $1
  AND status = 'active'
RETURNING ` + participationColumns + `;
`
	p, err := scanParticipation(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participation{}, false, nil
	}
	if err != nil {
		return domain.Participation{}, false, err
	}
	return p, true, nil
}

// CompleteParticipation moves a submitted attempt to completed and readies
// the escrow. Guarded on status: an expired or already-decided attempt
// matches zero rows and returns ok=false instead of leaving the terminal
// state.
func (s *Store) CompleteParticipation(ctx context.Context, id int64, completedAt time.Time) (domain.Participation, bool, error) {
	const q = `
UPDATE participations
SET status = 'completed',
    payment_status = 'ready_for_release',
    completed_at = $2
WHERE id = $1
  AND status IN ('pending_verification', 'auto_approved')
RETURNING ` + participationColumns + `;
`
	p, err := scanParticipation(s.db.QueryRow(ctx, q, id, completedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participation{}, false, nil
	}
	if err != nil {
		return domain.Participation{}, false, err
	}
	return p, true, nil
}

// FailParticipation carries the same status guard as CompleteParticipation.
func (s *Store) FailParticipation(ctx context.Context, id int64) (domain.Participation, bool, error) {
	const q = `
UPDATE participations
SET status = 'verification_failed',
    payment_status = 'held_for_review'
WHERE id = $1
  AND status IN ('pending_verification', 'auto_approved')
RETURNING ` + participationColumns + `;
`
	p, err := scanParticipation(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participation{}, false, nil
	}
	if err != nil {
		return domain.Participation{}, false, err
	}
	return p, true, nil
}

// OverdueRow carries the deadline a participation held before expiry.
type OverdueRow struct {
	ID          int64
	TaskID      string
	UserID      int64
	WasDeadline time.Time
}

// ExpireOverdue transitions every overdue participation to expired in one
// statement, clearing deadline and completed_at. Re-running selects nothing:
// expired rows no longer match the status filter.
func (s *Store) ExpireOverdue(ctx context.Context, now time.Time) ([]OverdueRow, error) {
	const q = `
WITH overdue AS (
    SELECT id, deadline
    FROM participations
    WHERE status IN ('active', 'auto_approved', 'pending_verification')
      AND deadline IS NOT NULL
      AND deadline < $1
    FOR UPDATE
)
UPDATE participations p
SET status = 'expired',
    deadline = NULL,
    completed_at = NULL
FROM overdue o
WHERE p.id = o.id
RETURNING p.id, p.task_id, p.user_id, o.deadline;
`
	rows, err := s.db.Query(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOverdue(rows)
}

// ListOverdue is the dry-run counterpart of ExpireOverdue.
func (s *Store) ListOverdue(ctx context.Context, now time.Time) ([]OverdueRow, error) {
	const q = `
SELECT id, task_id, user_id, deadline
FROM participations
WHERE status IN ('active', 'auto_approved', 'pending_verification')
  AND deadline IS NOT NULL
  AND deadline < $1
ORDER BY deadline;
`
	rows, err := s.db.Query(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOverdue(rows)
}

func collectOverdue(rows pgx.Rows) ([]OverdueRow, error) {
	var out []OverdueRow
	for rows.Next() {
		var r OverdueRow
		if err := rows.Scan(&r.ID, &r.TaskID, &r.UserID, &r.WasDeadline); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReleaseEscrow flips ready_for_release to released. Returns false when the
// participation is not in a releasable state, which a redelivered outbox
// event treats as already done.
func (s *Store) ReleaseEscrow(ctx context.Context, id int64) (domain.Participation, bool, error) {
	const q = `
UPDATE participations
SET payment_status = 'released'
WHERE id = $1
  AND payment_status = 'ready_for_release'
RETURNING ` + participationColumns + `;
`
	p, err := scanParticipation(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Participation{}, false, nil
	}
	if err != nil {
		return domain.Participation{}, false, err
	}
	return p, true, nil
}
