package httpapi

import (
	"net/http"

	"github.com/bittietasks/platform/internal/domain"
)

type submitVerificationRequest struct {
	TaskID           string `json:"task_id"`
	VerificationType string `json:"verification_type"`
	ProofURL         string `json:"proof_url"`
}

func (s *Server) handleSubmitVerification(w http.ResponseWriter, r *http.Request) {
	var req submitVerificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TaskID == "" {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}

	vtype := domain.VerificationType(req.VerificationType)
	if vtype == "" {
		vtype = domain.VerificationTypeAIPhoto
	}

	user := userFrom(r.Context())
	v, err := s.deps.Verifications.Submit(r.Context(), req.TaskID, user.ID, vtype, req.ProofURL)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"verification": v,
	})
}
