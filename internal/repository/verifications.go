package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bittietasks/platform/internal/domain"
)

const verificationColumns = `id, participation_id, task_id, user_id, status, verification_type, proof_url, admin_notes, reviewed_at, reviewed_by, created_at`

func scanVerification(row pgx.Row) (domain.Verification, error) {
	var v domain.Verification
	err := row.Scan(&v.ID, &v.ParticipationID, &v.TaskID, &v.UserID, &v.Status, &v.Type, &v.ProofURL, &v.AdminNotes, &v.ReviewedAt, &v.ReviewedBy, &v.CreatedAt)
	return v, err
}

type CreateVerificationParams struct {
	ParticipationID int64
	TaskID          string
	UserID          int64
	Type            domain.VerificationType
	ProofURL        string
}

func (s *Store) CreateVerification(ctx context.Context, arg CreateVerificationParams) (domain.Verification, error) {
	const q = `
INSERT INTO verifications (participation_id, task_id, user_id, status, verification_type, proof_url)
VALUES ($1, $2, $3, 'pending_review', $4, $5)
RETURNING ` + verificationColumns + `;
`
	return scanVerification(s.db.QueryRow(ctx, q, arg.ParticipationID, arg.TaskID, arg.UserID, arg.Type, arg.ProofURL))
}

func (s *Store) GetVerification(ctx context.Context, id int64) (domain.Verification, error) {
	const q = `
SELECT ` + verificationColumns + `
FROM verifications
WHERE id = $1;
`
	v, err := scanVerification(s.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Verification{}, domain.ErrVerificationNotFound
	}
	return v, err
}

// ListVerifications filters by status and/or type; nil means no filter.
func (s *Store) ListVerifications(ctx context.Context, status *domain.VerificationStatus, vtype *domain.VerificationType) ([]domain.Verification, error) {
	const q = `
SELECT ` + verificationColumns + `
FROM verifications
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::text IS NULL OR verification_type = $2)
ORDER BY created_at DESC;
`
	rows, err := s.db.Query(ctx, q, status, vtype)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ReviewVerification applies an approve or reject decision. The update is
// guarded on pending_review: a repeated or concurrent decision matches zero
// rows and returns ok=false instead of silently reapplying.
func (s *Store) ReviewVerification(ctx context.Context, id int64, status domain.VerificationStatus, notes string, reviewedBy int64, reviewedAt time.Time) (domain.Verification, bool, error) {
	const q = `
UPDATE verifications
SET status = $2,
    admin_notes = $3,
    reviewed_by = $4,
    reviewed_at = $5
WHERE id = $1
  AND status = 'pending_review'
RETURNING ` + verificationColumns + `;
`
	v, err := scanVerification(s.db.QueryRow(ctx, q, id, status, notes, reviewedBy, reviewedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Verification{}, false, nil
	}
	if err != nil {
		return domain.Verification{}, false, err
	}
	return v, true, nil
}
