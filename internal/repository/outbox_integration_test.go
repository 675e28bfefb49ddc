package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bittietasks/platform/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("DB_URL not set (integration test)")
	}
	pool, err := NewPool(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)
	return New(pool)
}

// claimOfType drains due events until one of the wanted type comes up.
// Unrelated events left behind by other tests get leased and skipped.
func claimOfType(t *testing.T, store *Store, eventType string, now time.Time) (domain.OutboxEvent, bool) {
	t.Helper()
	for i := 0; i < 100; i++ {
		ev, ok, err := store.ClaimNextDue(context.Background(), now)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			return domain.OutboxEvent{}, false
		}
		if ev.Type == eventType {
			return ev, true
		}
	}
	t.Fatal("too many unrelated due events")
	return domain.OutboxEvent{}, false
}

func TestClaimNextDue_LeaseAndReclaim(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	eventType := "it.claim." + uuid.NewString()
	if err := store.EnqueueOutbox(ctx, eventType, map[string]string{"k": "v"}); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()

	ev, ok := claimOfType(t, store, eventType, now)
	if !ok {
		t.Fatal("enqueued event not claimable")
	}
	if ev.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", ev.Attempts)
	}
	if ev.Status != domain.OutboxProcessing {
		t.Fatalf("status = %s, want processing", ev.Status)
	}

	// inside the lease the claim is invisible
	if _, ok := claimOfType(t, store, eventType, now); ok {
		t.Fatal("claimed again inside the lease")
	}

	// a worker crash leaves the row in processing; past the lease it is
	// claimable again
	later := now.Add(processingLease + time.Minute)
	ev2, ok := claimOfType(t, store, eventType, later)
	if !ok {
		t.Fatal("stale processing event not reclaimed")
	}
	if ev2.ID != ev.ID {
		t.Fatalf("reclaimed id = %d, want %d", ev2.ID, ev.ID)
	}
	if ev2.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", ev2.Attempts)
	}

	if err := store.MarkDelivered(ctx, ev2.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := claimOfType(t, store, eventType, later.Add(processingLease+time.Minute)); ok {
		t.Fatal("delivered event reclaimed")
	}
}

func TestMarkFailed_SchedulesRetry(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	eventType := "it.retry." + uuid.NewString()
	if err := store.EnqueueOutbox(ctx, eventType, map[string]string{"k": "v"}); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	ev, ok := claimOfType(t, store, eventType, now)
	if !ok {
		t.Fatal("enqueued event not claimable")
	}

	retryAt := now.Add(30 * time.Second)
	if err := store.MarkFailed(ctx, ev.ID, "delivery refused", retryAt); err != nil {
		t.Fatal(err)
	}

	// not due before its scheduled retry
	if _, ok := claimOfType(t, store, eventType, retryAt.Add(-time.Second)); ok {
		t.Fatal("failed event claimed before its retry time")
	}

	ev2, ok := claimOfType(t, store, eventType, retryAt.Add(time.Second))
	if !ok {
		t.Fatal("failed event not claimable at its retry time")
	}
	if ev2.LastError == nil || *ev2.LastError != "delivery refused" {
		t.Fatalf("last_error = %v", ev2.LastError)
	}
	if err := store.MarkDelivered(ctx, ev2.ID); err != nil {
		t.Fatal(err)
	}
}
