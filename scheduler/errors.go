package scheduler

import "errors"

// Scheduling error taxonomy. Validation errors are detected before any
// write; conflict errors tell the caller to re-fetch current state and pick
// again. Nothing here is retried internally.
var (
	ErrInvalidRange          = errors.New("invalid window range")
	ErrOverlapConflict       = errors.New("window overlaps an existing window")
	ErrSlotNoLongerAvailable = errors.New("slot is no longer available")
	ErrInvalidTransition     = errors.New("invalid appointment status transition")
	ErrCancelWindowViolation = errors.New("cancellation window has passed")
	ErrVisitLinkRequired     = errors.New("visit linkage failed")
	ErrNotFound              = errors.New("appointment not found")
)
