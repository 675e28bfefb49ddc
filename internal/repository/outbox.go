package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bittietasks/platform/internal/domain"
)

// EnqueueOutbox records a side effect in the same transaction as the state
// change that caused it.
func (s *Store) EnqueueOutbox(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}
	const q = `
INSERT INTO outbox_events (event_type, payload)
VALUES ($1, $2);
`
	_, err = s.db.Exec(ctx, q, eventType, body)
	return err
}

// processingLease bounds how long a claimed event stays invisible. A worker
// that crashes mid-delivery leaves its event in processing; once the lease
// lapses the event is claimable again.
const processingLease = 5 * time.Minute

// ClaimNextDue atomically claims one due event and marks it processing,
// pushing next_attempt_at out by the lease. Returns ok=false when nothing
// is due.
func (s *Store) ClaimNextDue(ctx context.Context, now time.Time) (domain.OutboxEvent, bool, error) {
	const q = `
UPDATE outbox_events
SET status = 'processing',
    attempts = attempts + 1,
    next_attempt_at = $2
WHERE id = (
    SELECT id
    FROM outbox_events
    WHERE status IN ('pending', 'failed', 'processing')
      AND next_attempt_at <= $1
    ORDER BY created_at
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
RETURNING id, event_type, payload, status, attempts, next_attempt_at, last_error, created_at;
`
	var ev domain.OutboxEvent
	err := s.db.QueryRow(ctx, q, now, now.Add(processingLease).UTC()).Scan(&ev.ID, &ev.Type, &ev.Payload, &ev.Status, &ev.Attempts, &ev.NextAttemptAt, &ev.LastError, &ev.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OutboxEvent{}, false, nil
	}
	if err != nil {
		return domain.OutboxEvent{}, false, err
	}
	return ev, true, nil
}

func (s *Store) MarkDelivered(ctx context.Context, id int64) error {
	const q = `
UPDATE outbox_events
SET status = 'delivered',
    last_error = NULL
WHERE id = $1;
`
	_, err := s.db.Exec(ctx, q, id)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id int64, lastErr string, nextAttemptAt time.Time) error {
	const q = `
UPDATE outbox_events
SET status = 'failed',
    last_error = $2,
    next_attempt_at = $3
WHERE id = $1;
`
	_, err := s.db.Exec(ctx, q, id, lastErr, nextAttemptAt.UTC())
	return err
}
