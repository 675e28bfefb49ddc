package httpapi

import (
	"net/http"

	"github.com/bittietasks/platform/internal/service"
)

type extendDeadlineRequest struct {
	TaskID string `json:"taskId"`
	Reason string `json:"reason"`
}

func (s *Server) handleExtendDeadline(w http.ResponseWriter, r *http.Request) {
	var req extendDeadlineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TaskID == "" {
		writeError(w, http.StatusBadRequest, "taskId is required")
		return
	}

	user := userFrom(r.Context())
	p, err := s.deps.Deadlines.Extend(r.Context(), req.TaskID, user.ID, s.deps.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"newDeadline": p.Deadline,
		"application": p,
	})
}

func (s *Server) handleExpire(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Deadlines.ExpireOverdue(r.Context(), s.deps.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expireResponse(res, false))
}

func (s *Server) handleExpireDryRun(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Deadlines.PreviewOverdue(r.Context(), s.deps.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expireResponse(res, true))
}

func expireResponse(res service.ExpireResult, dryRun bool) map[string]any {
	return map[string]any{
		"success":       true,
		"dry_run":       dryRun,
		"expired_count": res.Count,
		"expired_tasks": res.Expired,
	}
}
