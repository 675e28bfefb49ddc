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

func TestAvailability_MissingTaskID(t *testing.T) {
	srv := newTestServer(Deps{Tasks: &fakeTasks{}})

	req := httptest.NewRequest(http.MethodGet, "/solo-tasks/availability", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAvailability_UnknownTask(t *testing.T) {
	srv := newTestServer(Deps{Tasks: &fakeTasks{
		availability: func(taskID string) (service.Availability, error) {
			return service.Availability{}, domain.ErrTaskNotFound
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/solo-tasks/availability?task_id=nope", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAvailability_CapReached(t *testing.T) {
	srv := newTestServer(Deps{Tasks: &fakeTasks{
		availability: func(taskID string) (service.Availability, error) {
			return service.Availability{
				TaskID:              taskID,
				Available:           false,
				DailyCompleted:      2,
				DailyLimit:          2,
				RemainingSlots:      0,
				ResetTime:           testNow.Add(12 * time.Hour),
				CompletionTimeHours: 24,
			}, nil
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/solo-tasks/availability?task_id=car-wash", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Available           bool `json:"available"`
		DailyCompleted      int  `json:"daily_completed"`
		DailyLimit          int  `json:"daily_limit"`
		RemainingSlots      int  `json:"remaining_slots"`
		CompletionTimeHours int  `json:"completion_time_hours"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Available || resp.RemainingSlots != 0 || resp.DailyCompleted != 2 || resp.DailyLimit != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.CompletionTimeHours != 24 {
		t.Fatalf("completion_time_hours=%d", resp.CompletionTimeHours)
	}
}

func TestJoin_RequiresAuth(t *testing.T) {
	srv := newTestServer(Deps{Tasks: &fakeTasks{}})

	req := httptest.NewRequest(http.MethodPost, "/solo-tasks/join", strings.NewReader(`{"task_id":"dog-walk"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestJoin_CapConflict(t *testing.T) {
	srv := newTestServer(Deps{Tasks: &fakeTasks{
		join: func(taskID string, userID int64) (domain.Participation, error) {
			return domain.Participation{}, domain.ErrDailyCapReached
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/solo-tasks/join", strings.NewReader(`{"task_id":"dog-walk"}`))
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestJoin_Created(t *testing.T) {
	srv := newTestServer(Deps{Tasks: &fakeTasks{
		join: func(taskID string, userID int64) (domain.Participation, error) {
			if userID != 7 {
				t.Fatalf("userID=%d", userID)
			}
			deadline := testNow.Add(24 * time.Hour)
			return domain.Participation{
				ID:       42,
				TaskID:   taskID,
				UserID:   userID,
				Status:   domain.ParticipationActive,
				Deadline: &deadline,
			}, nil
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/solo-tasks/join", strings.NewReader(`{"task_id":"dog-walk"}`))
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
