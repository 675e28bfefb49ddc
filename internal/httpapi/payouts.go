package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/bittietasks/platform/internal/service"
)

type payoutRequest struct {
	TaskID          string   `json:"task_id"`
	VerificationID  int64    `json:"verification_id"`
	Amount          *float64 `json:"amount"`
	UserBankAccount string   `json:"user_bank_account"`
}

func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	var req payoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TaskID == "" || req.Amount == nil {
		writeError(w, http.StatusBadRequest, "task_id and amount are required")
		return
	}

	user := userFrom(r.Context())
	payout, err := s.deps.Payouts.Simulate(r.Context(), service.PayoutRequest{
		UserID:         user.ID,
		TaskID:         req.TaskID,
		VerificationID: req.VerificationID,
		Amount:         decimal.NewFromFloat(*req.Amount),
		BankAccount:    req.UserBankAccount,
	}, s.deps.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"payout":  payout,
	})
}

type escrowReleaseRequest struct {
	ParticipationID int64 `json:"participation_id"`
}

func (s *Server) handleEscrowRelease(w http.ResponseWriter, r *http.Request) {
	var req escrowReleaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ParticipationID == 0 {
		writeError(w, http.StatusBadRequest, "participation_id is required")
		return
	}

	if err := s.deps.Escrow.Release(r.Context(), req.ParticipationID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "escrow released",
	})
}
