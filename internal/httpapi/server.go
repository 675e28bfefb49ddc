package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/service"
)

type TaskService interface {
	List(ctx context.Context) ([]domain.TaskDefinition, error)
	Availability(ctx context.Context, taskID string, now time.Time) (service.Availability, error)
	Join(ctx context.Context, taskID string, userID int64, now time.Time) (domain.Participation, error)
}

type DeadlineService interface {
	Extend(ctx context.Context, taskID string, userID int64, now time.Time) (domain.Participation, error)
	ExpireOverdue(ctx context.Context, now time.Time) (service.ExpireResult, error)
	PreviewOverdue(ctx context.Context, now time.Time) (service.ExpireResult, error)
}

type PayoutService interface {
	Simulate(ctx context.Context, req service.PayoutRequest, now time.Time) (domain.Payout, error)
}

type VerificationService interface {
	Submit(ctx context.Context, taskID string, userID int64, vtype domain.VerificationType, proofURL string) (domain.Verification, error)
	Approve(ctx context.Context, id, reviewerID int64, notes string, now time.Time) (domain.Verification, error)
	Reject(ctx context.Context, id, reviewerID int64, notes string, now time.Time) (domain.Verification, error)
	List(ctx context.Context, filter string) ([]domain.Verification, error)
}

type EscrowService interface {
	Release(ctx context.Context, participationID int64) error
}

type AuthService interface {
	Signup(ctx context.Context, email, phone, displayName string, now time.Time) (domain.User, string, error)
	Authenticate(ctx context.Context, token string, now time.Time) (*domain.User, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Tasks         TaskService
	Deadlines     DeadlineService
	Payouts       PayoutService
	Verifications VerificationService
	Escrow        EscrowService
	Auth          AuthService
	DB            Pinger // optional; healthz skips the ping when nil

	SchedulerToken string
	Production     bool
	Now            func() time.Time
}

type Server struct {
	mux  *http.ServeMux
	deps Deps
}

func NewServer(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Server{
		mux:  http.NewServeMux(),
		deps: deps,
	}

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /auth/signup", s.handleSignup)
	s.mux.HandleFunc("GET /me", s.requireUser(s.handleMe))

	s.mux.HandleFunc("GET /solo-tasks", s.handleListTasks)
	s.mux.HandleFunc("GET /solo-tasks/availability", s.handleAvailability)
	s.mux.HandleFunc("POST /solo-tasks/join", s.requireUser(s.handleJoin))
	s.mux.HandleFunc("POST /solo-tasks/verifications", s.requireUser(s.handleSubmitVerification))
	s.mux.HandleFunc("POST /solo-tasks/payout", s.requireUser(s.handlePayout))

	s.mux.HandleFunc("POST /solo-tasks/expire-tasks", s.requireScheduler(s.handleExpire))
	s.mux.HandleFunc("GET /solo-tasks/expire-tasks", s.handleExpireDryRun)
	s.mux.HandleFunc("POST /solo-tasks/escrow-release", s.requireScheduler(s.handleEscrowRelease))

	s.mux.HandleFunc("POST /tasks/extend-deadline", s.requireUser(s.handleExtendDeadline))

	s.mux.HandleFunc("POST /admin/verifications/approve", s.requireAdmin(s.handleApprove))
	s.mux.HandleFunc("POST /admin/verifications/reject", s.requireAdmin(s.handleReject))
	s.mux.HandleFunc("GET /admin/verifications", s.requireAdmin(s.handleListVerifications))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withMiddleware(s.mux).ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := s.deps.DB.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.deps.Now().UTC().Format(time.RFC3339),
	})
}
