package services

import "errors"

// Domain errors recovered into HTTP statuses at the handler boundary.
// Anything else bubbling out of a service is treated as an internal
// storage failure.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("access denied")
	ErrAlreadyCompleted    = errors.New("game session is already completed")
	ErrOutOfCards          = errors.New("no more cards available for this theme")
	ErrDemoExhausted       = errors.New("demo game allows a single round")
	ErrThemeRequiresLogin  = errors.New("this theme requires login")
	ErrDemoThemeRestricted = errors.New("anonymous players can only play the demo theme")
	ErrInvalidUpdate       = errors.New("no valid fields to update")
	ErrInvariantViolation  = errors.New("session counters inconsistent with status")
)
