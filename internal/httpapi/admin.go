package httpapi

import (
	"net/http"
	"strings"
)

type reviewRequest struct {
	VerificationID int64  `json:"verificationId"`
	AdminNotes     string `json:"adminNotes"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.VerificationID == 0 {
		writeError(w, http.StatusBadRequest, "verificationId is required")
		return
	}

	admin := userFrom(r.Context())
	v, err := s.deps.Verifications.Approve(r.Context(), req.VerificationID, admin.ID, req.AdminNotes, s.deps.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "verification approved",
		"status":  v.Status,
	})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.VerificationID == 0 {
		writeError(w, http.StatusBadRequest, "verificationId is required")
		return
	}
	// rejection always carries a reason
	if strings.TrimSpace(req.AdminNotes) == "" {
		writeError(w, http.StatusBadRequest, "adminNotes is required")
		return
	}

	admin := userFrom(r.Context())
	v, err := s.deps.Verifications.Reject(r.Context(), req.VerificationID, admin.ID, req.AdminNotes, s.deps.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "verification rejected",
		"status":  v.Status,
	})
}

func (s *Server) handleListVerifications(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	switch filter {
	case "", "all", "pending_review", "ai_verified":
	default:
		writeError(w, http.StatusBadRequest, "filter must be pending_review, ai_verified or all")
		return
	}

	list, err := s.deps.Verifications.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"verifications": list,
	})
}
