package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/service"
)

func TestPayout_RequiresAuth(t *testing.T) {
	srv := newTestServer(Deps{Payouts: &fakePayouts{}})

	w := postJSON(srv, "/solo-tasks/payout", "", `{"task_id":"car-wash","amount":20}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestPayout_MissingAmount(t *testing.T) {
	srv := newTestServer(Deps{Payouts: &fakePayouts{}})

	w := postJSON(srv, "/solo-tasks/payout", "user-token", `{"task_id":"car-wash"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestPayout_MissingTaskID(t *testing.T) {
	srv := newTestServer(Deps{Payouts: &fakePayouts{}})

	w := postJSON(srv, "/solo-tasks/payout", "user-token", `{"amount":20}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestPayout_OK(t *testing.T) {
	srv := newTestServer(Deps{Payouts: &fakePayouts{
		simulate: func(req service.PayoutRequest) (domain.Payout, error) {
			if req.UserID != 7 || req.TaskID != "car-wash" {
				t.Fatalf("request: %+v", req)
			}
			return domain.Payout{
				TransferID:       "sim_abc",
				Amount:           decimal.NewFromFloat(20),
				Currency:         "usd",
				Status:           "processing",
				EstimatedArrival: testNow.Add(48 * time.Hour),
				Method:           "standard",
				Fee:              decimal.NewFromFloat(2.58),
				NetAmount:        decimal.NewFromFloat(17.42),
			}, nil
		},
	}})

	w := postJSON(srv, "/solo-tasks/payout", "user-token", `{"task_id":"car-wash","verification_id":3,"amount":20,"user_bank_account":"acct_1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Payout  struct {
			TransferID string `json:"transfer_id"`
			Currency   string `json:"currency"`
			Status     string `json:"status"`
			NetAmount  string `json:"net_amount"`
		} `json:"payout"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Payout.TransferID != "sim_abc" || resp.Payout.Currency != "usd" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if resp.Payout.NetAmount != "17.42" {
		t.Fatalf("net_amount=%q", resp.Payout.NetAmount)
	}
}

func TestEscrowRelease_NotReadyConflicts(t *testing.T) {
	srv := newTestServer(Deps{
		Escrow: &fakeEscrow{
			release: func(participationID int64) error {
				return domain.ErrEscrowNotReady
			},
		},
	})

	w := postJSON(srv, "/solo-tasks/escrow-release", "", `{"participation_id":42}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
