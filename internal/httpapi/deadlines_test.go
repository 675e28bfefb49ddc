package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/service"
)

func TestExtendDeadline_RequiresAuth(t *testing.T) {
	srv := newTestServer(Deps{Deadlines: &fakeDeadlines{}})

	req := httptest.NewRequest(http.MethodPost, "/tasks/extend-deadline", strings.NewReader(`{"taskId":"dog-walk","reason":"running late"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestExtendDeadline_NoParticipation(t *testing.T) {
	srv := newTestServer(Deps{Deadlines: &fakeDeadlines{
		extend: func(taskID string, userID int64) (domain.Participation, error) {
			return domain.Participation{}, domain.ErrParticipationNotFound
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/tasks/extend-deadline", strings.NewReader(`{"taskId":"dog-walk","reason":"x"}`))
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestExtendDeadline_AlreadyExtended(t *testing.T) {
	srv := newTestServer(Deps{Deadlines: &fakeDeadlines{
		extend: func(taskID string, userID int64) (domain.Participation, error) {
			return domain.Participation{}, domain.ErrAlreadyExtended
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/tasks/extend-deadline", strings.NewReader(`{"taskId":"dog-walk","reason":"x"}`))
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestExtendDeadline_OK(t *testing.T) {
	newDeadline := testNow.Add(12 * time.Hour)
	srv := newTestServer(Deps{Deadlines: &fakeDeadlines{
		extend: func(taskID string, userID int64) (domain.Participation, error) {
			return domain.Participation{
				ID:               5,
				TaskID:           taskID,
				UserID:           userID,
				Status:           domain.ParticipationActive,
				Deadline:         &newDeadline,
				DeadlineExtended: true,
			}, nil
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/tasks/extend-deadline", strings.NewReader(`{"taskId":"dog-walk","reason":"running late"}`))
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Success     bool       `json:"success"`
		NewDeadline *time.Time `json:"newDeadline"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.NewDeadline == nil || !resp.NewDeadline.Equal(newDeadline) {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}

func TestExpire_SchedulerTokenRejected(t *testing.T) {
	srv := newTestServer(Deps{
		Deadlines:      &fakeDeadlines{},
		SchedulerToken: "cron-secret",
	})

	req := httptest.NewRequest(http.MethodPost, "/solo-tasks/expire-tasks", nil)
	req.Header.Set("X-Scheduler-Token", "wrong")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestExpire_ReturnsExpiredTasks(t *testing.T) {
	srv := newTestServer(Deps{
		Deadlines: &fakeDeadlines{
			expire: func() (service.ExpireResult, error) {
				return service.ExpireResult{
					Count: 1,
					Expired: []service.ExpiredTask{{
						ID:           9,
						TaskID:       "dish-duty",
						UserID:       7,
						WasDeadline:  testNow.Add(-3 * time.Hour),
						HoursOverdue: 3,
					}},
				}, nil
			},
		},
		SchedulerToken: "cron-secret",
	})

	req := httptest.NewRequest(http.MethodPost, "/solo-tasks/expire-tasks", nil)
	req.Header.Set("X-Scheduler-Token", "cron-secret")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Success      bool `json:"success"`
		DryRun       bool `json:"dry_run"`
		ExpiredCount int  `json:"expired_count"`
		ExpiredTasks []struct {
			ID           int64 `json:"id"`
			HoursOverdue int   `json:"hours_overdue"`
		} `json:"expired_tasks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.DryRun || resp.ExpiredCount != 1 || len(resp.ExpiredTasks) != 1 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if resp.ExpiredTasks[0].HoursOverdue != 3 {
		t.Fatalf("hours_overdue=%d", resp.ExpiredTasks[0].HoursOverdue)
	}
}

func TestExpire_DryRunDoesNotMutate(t *testing.T) {
	mutated := false
	srv := newTestServer(Deps{Deadlines: &fakeDeadlines{
		expire: func() (service.ExpireResult, error) {
			mutated = true
			return service.ExpireResult{}, nil
		},
		preview: func() (service.ExpireResult, error) {
			return service.ExpireResult{Count: 2}, nil
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/solo-tasks/expire-tasks", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if mutated {
		t.Fatal("dry run must not call ExpireOverdue")
	}

	var resp struct {
		DryRun       bool `json:"dry_run"`
		ExpiredCount int  `json:"expired_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.DryRun || resp.ExpiredCount != 2 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}
