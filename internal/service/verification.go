package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/notify"
	"github.com/bittietasks/platform/internal/repository"
)

type VerificationService struct {
	db       *pgxpool.Pool
	store    *repository.Store
	notifier *notify.Notifier
}

func NewVerificationService(db *pgxpool.Pool, store *repository.Store, notifier *notify.Notifier) *VerificationService {
	return &VerificationService{db: db, store: store, notifier: notifier}
}

// Submit records a completion claim for review and escrows the reward.
func (s *VerificationService) Submit(ctx context.Context, taskID string, userID int64, vtype domain.VerificationType, proofURL string) (domain.Verification, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Verification{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	p, err := qtx.GetLiveParticipation(ctx, taskID, userID)
	if err != nil {
		return domain.Verification{}, err
	}

	if _, ok, err := qtx.MarkSubmitted(ctx, p.ID); err != nil {
		return domain.Verification{}, fmt.Errorf("mark submitted: %w", err)
	} else if !ok {
		return domain.Verification{}, domain.ErrNotSubmittable
	}

	v, err := qtx.CreateVerification(ctx, repository.CreateVerificationParams{
		ParticipationID: p.ID,
		TaskID:          taskID,
		UserID:          userID,
		Type:            vtype,
		ProofURL:        proofURL,
	})
	if err != nil {
		return domain.Verification{}, fmt.Errorf("create verification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Verification{}, fmt.Errorf("commit: %w", err)
	}
	return v, nil
}

// Approve commits the decision, the participation consequences and the
// escrow-release outbox event in one transaction. The outbox worker delivers
// the release; approval never waits on it.
func (s *VerificationService) Approve(ctx context.Context, id, reviewerID int64, notes string, now time.Time) (domain.Verification, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Verification{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	v, ok, err := qtx.ReviewVerification(ctx, id, domain.VerificationApproved, notes, reviewerID, now)
	if err != nil {
		return domain.Verification{}, fmt.Errorf("review verification: %w", err)
	}
	if !ok {
		if _, err := qtx.GetVerification(ctx, id); err != nil {
			return domain.Verification{}, err
		}
		return domain.Verification{}, domain.ErrAlreadyReviewed
	}

	p, err := qtx.GetParticipation(ctx, v.ParticipationID)
	if err != nil {
		return domain.Verification{}, err
	}
	wasEscrowed := p.PaymentStatus == domain.PaymentEscrowed

	if _, done, err := qtx.CompleteParticipation(ctx, p.ID, now); err != nil {
		return domain.Verification{}, fmt.Errorf("complete participation: %w", err)
	} else if !done {
		// the expiry sweep got there first; expired is terminal
		return domain.Verification{}, domain.ErrParticipationNotPending
	}

	if wasEscrowed {
		err := qtx.EnqueueOutbox(ctx, domain.EventEscrowRelease, domain.EscrowReleasePayload{ParticipationID: p.ID})
		if err != nil {
			return domain.Verification{}, fmt.Errorf("enqueue escrow release: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Verification{}, fmt.Errorf("commit: %w", err)
	}

	s.notifier.VerificationDecided(v.ID, v.TaskID, domain.VerificationApproved)
	return v, nil
}

// Reject requires a reason and leaves the payment held for review so the
// participant can resubmit.
func (s *VerificationService) Reject(ctx context.Context, id, reviewerID int64, notes string, now time.Time) (domain.Verification, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Verification{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.store.WithTx(tx)

	v, ok, err := qtx.ReviewVerification(ctx, id, domain.VerificationRejected, notes, reviewerID, now)
	if err != nil {
		return domain.Verification{}, fmt.Errorf("review verification: %w", err)
	}
	if !ok {
		if _, err := qtx.GetVerification(ctx, id); err != nil {
			return domain.Verification{}, err
		}
		return domain.Verification{}, domain.ErrAlreadyReviewed
	}

	if _, done, err := qtx.FailParticipation(ctx, v.ParticipationID); err != nil {
		return domain.Verification{}, fmt.Errorf("fail participation: %w", err)
	} else if !done {
		return domain.Verification{}, domain.ErrParticipationNotPending
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Verification{}, fmt.Errorf("commit: %w", err)
	}

	s.notifier.VerificationDecided(v.ID, v.TaskID, domain.VerificationRejected)
	return v, nil
}

// List returns verifications for the admin review queue. Known filters:
// pending_review, ai_verified, all (default).
func (s *VerificationService) List(ctx context.Context, filter string) ([]domain.Verification, error) {
	var status *domain.VerificationStatus
	var vtype *domain.VerificationType

	switch filter {
	case "", "all":
	case "pending_review":
		st := domain.VerificationPendingReview
		status = &st
	case "ai_verified":
		vt := domain.VerificationTypeAIPhoto
		vtype = &vt
	default:
		return nil, fmt.Errorf("unknown filter %q", filter)
	}

	out, err := s.store.ListVerifications(ctx, status, vtype)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	return out, nil
}
