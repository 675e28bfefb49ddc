package httpapi

import (
	"context"
	"time"

	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/service"
)

// Fixed clock for handler tests.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeTasks struct {
	availability func(taskID string) (service.Availability, error)
	join         func(taskID string, userID int64) (domain.Participation, error)
}

func (f *fakeTasks) List(ctx context.Context) ([]domain.TaskDefinition, error) {
	return nil, nil
}

func (f *fakeTasks) Availability(ctx context.Context, taskID string, now time.Time) (service.Availability, error) {
	return f.availability(taskID)
}

func (f *fakeTasks) Join(ctx context.Context, taskID string, userID int64, now time.Time) (domain.Participation, error) {
	return f.join(taskID, userID)
}

type fakeDeadlines struct {
	extend  func(taskID string, userID int64) (domain.Participation, error)
	expire  func() (service.ExpireResult, error)
	preview func() (service.ExpireResult, error)
}

func (f *fakeDeadlines) Extend(ctx context.Context, taskID string, userID int64, now time.Time) (domain.Participation, error) {
	return f.extend(taskID, userID)
}

func (f *fakeDeadlines) ExpireOverdue(ctx context.Context, now time.Time) (service.ExpireResult, error) {
	return f.expire()
}

func (f *fakeDeadlines) PreviewOverdue(ctx context.Context, now time.Time) (service.ExpireResult, error) {
	return f.preview()
}

type fakePayouts struct {
	simulate func(req service.PayoutRequest) (domain.Payout, error)
}

func (f *fakePayouts) Simulate(ctx context.Context, req service.PayoutRequest, now time.Time) (domain.Payout, error) {
	return f.simulate(req)
}

type fakeVerifications struct {
	submit  func(taskID string, userID int64) (domain.Verification, error)
	approve func(id int64) (domain.Verification, error)
	reject  func(id int64, notes string) (domain.Verification, error)
	list    func(filter string) ([]domain.Verification, error)
}

func (f *fakeVerifications) Submit(ctx context.Context, taskID string, userID int64, vtype domain.VerificationType, proofURL string) (domain.Verification, error) {
	return f.submit(taskID, userID)
}

func (f *fakeVerifications) Approve(ctx context.Context, id, reviewerID int64, notes string, now time.Time) (domain.Verification, error) {
	return f.approve(id)
}

func (f *fakeVerifications) Reject(ctx context.Context, id, reviewerID int64, notes string, now time.Time) (domain.Verification, error) {
	return f.reject(id, notes)
}

func (f *fakeVerifications) List(ctx context.Context, filter string) ([]domain.Verification, error) {
	return f.list(filter)
}

type fakeEscrow struct {
	release func(participationID int64) error
}

func (f *fakeEscrow) Release(ctx context.Context, participationID int64) error {
	return f.release(participationID)
}

// fakeAuth accepts "user-token" (user 7) and "admin-token" (admin 1).
type fakeAuth struct{}

func (f *fakeAuth) Signup(ctx context.Context, email, phone, displayName string, now time.Time) (domain.User, string, error) {
	return domain.User{ID: 7, Email: email, Tier: domain.TierFree}, "user-token", nil
}

func (f *fakeAuth) Authenticate(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	switch token {
	case "user-token":
		return &domain.User{ID: 7, Email: "p@example.com", Tier: domain.TierFree}, nil
	case "admin-token":
		return &domain.User{ID: 1, Email: "a@example.com", Tier: domain.TierPremium, IsAdmin: true}, nil
	}
	return nil, domain.ErrSessionNotFound
}

func newTestServer(deps Deps) *Server {
	if deps.Auth == nil {
		deps.Auth = &fakeAuth{}
	}
	deps.Now = func() time.Time { return testNow }
	return NewServer(deps)
}
