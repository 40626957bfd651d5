package services

import "errors"

// Engine failure kinds. Operations wrap these with the offending
// entity id via fmt.Errorf so callers can branch with errors.Is while
// logs keep the full context.
var (
	ErrNotFound         = errors.New("not found")
	ErrAttemptLimit     = errors.New("attempt limit reached")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrEmptyTest        = errors.New("test has no questions")
	ErrInvalidRole      = errors.New("operation requires the student role")
	ErrAlreadyEnrolled  = errors.New("already enrolled")
	ErrSlotUnavailable  = errors.New("consultation slot unavailable")
)
