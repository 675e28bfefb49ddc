package domain

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxDelivered  OutboxStatus = "delivered"
	OutboxFailed     OutboxStatus = "failed"
)

const EventEscrowRelease = "escrow.release"

// OutboxEvent is a durable side effect enqueued in the same transaction as
// the state change that caused it, delivered at least once by the worker.
type OutboxEvent struct {
	ID            int64
	Type          string
	Payload       json.RawMessage
	Status        OutboxStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     *string
	CreatedAt     time.Time
}

// EscrowReleasePayload is the payload of an EventEscrowRelease event.
type EscrowReleasePayload struct {
	ParticipationID int64 `json:"participation_id"`
}
