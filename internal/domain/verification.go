package domain

import "time"

type VerificationStatus string

const (
	VerificationPendingReview VerificationStatus = "pending_review"
	VerificationApproved      VerificationStatus = "approved"
	VerificationRejected      VerificationStatus = "rejected"
)

type VerificationType string

const (
	VerificationTypeAIPhoto VerificationType = "ai_photo"
	VerificationTypeManual  VerificationType = "manual"
)

// Verification is a reviewable completion claim. It is decided at most once:
// the review update is guarded on status = pending_review.
type Verification struct {
	ID              int64              `json:"id"`
	ParticipationID int64              `json:"participation_id"`
	TaskID          string             `json:"task_id"`
	UserID          int64              `json:"user_id"`
	Status          VerificationStatus `json:"status"`
	Type            VerificationType   `json:"verification_type"`
	ProofURL        string             `json:"proof_url"`
	AdminNotes      string             `json:"admin_notes"`
	ReviewedAt      *time.Time         `json:"reviewed_at"`
	ReviewedBy      *int64             `json:"reviewed_by"`
	CreatedAt       time.Time          `json:"created_at"`
}
