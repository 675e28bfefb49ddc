package domain

import "time"

type ParticipationStatus string

const (
	ParticipationActive              ParticipationStatus = "active"
	ParticipationPendingVerification ParticipationStatus = "pending_verification"
	ParticipationAutoApproved        ParticipationStatus = "auto_approved"
	ParticipationCompleted           ParticipationStatus = "completed"
	ParticipationVerificationFailed  ParticipationStatus = "verification_failed"
	ParticipationExpired             ParticipationStatus = "expired"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentEscrowed      PaymentStatus = "escrowed"
	PaymentReadyRelease  PaymentStatus = "ready_for_release"
	PaymentReleased      PaymentStatus = "released"
	PaymentHeldForReview PaymentStatus = "held_for_review"
)

// Participation is one user's attempt at one task. Expiry is a status
// transition, never a row removal; a new attempt after expiry is a new row.
type Participation struct {
	ID                   int64               `json:"id"`
	TaskID               string              `json:"task_id"`
	UserID               int64               `json:"user_id"`
	Status               ParticipationStatus `json:"status"`
	PaymentStatus        PaymentStatus       `json:"payment_status"`
	JoinedAt             time.Time           `json:"joined_at"`
	Deadline             *time.Time          `json:"deadline"`
	CompletedAt          *time.Time          `json:"completed_at"`
	DeadlineExtended     bool                `json:"deadline_extended"`
	ExtensionRequestedAt *time.Time          `json:"extension_requested_at"`
}

// Terminal reports whether no further status transition is allowed.
func (p *Participation) Terminal() bool {
	return p.Status == ParticipationCompleted || p.Status == ParticipationExpired
}
