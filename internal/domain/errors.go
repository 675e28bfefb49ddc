package domain

import "errors"

var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrParticipationNotFound   = errors.New("participation not found")
	ErrVerificationNotFound    = errors.New("verification not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrSessionNotFound         = errors.New("session not found")
	ErrEmailTaken              = errors.New("email already registered")
	ErrAlreadyJoined           = errors.New("task already joined")
	ErrDailyCapReached         = errors.New("daily participation cap reached")
	ErrAlreadyExtended         = errors.New("deadline already extended")
	ErrDeadlinePassed          = errors.New("cannot extend an expired task")
	ErrAlreadyReviewed         = errors.New("verification already reviewed")
	ErrParticipationNotPending = errors.New("participation is not awaiting verification")
	ErrNotSubmittable          = errors.New("participation cannot accept a submission")
	ErrEscrowNotReady          = errors.New("escrow not ready for release")
	ErrInvalidAmount           = errors.New("invalid amount")
)
