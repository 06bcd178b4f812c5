package booking

import "errors"

var (
	// ErrValidation means a required field was missing at creation time.
	// The caller must fix the input; retrying the same call cannot succeed.
	ErrValidation = errors.New("missing required field")

	// ErrNotFound means the referenced slot or request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlotUnavailable means the slot exists but is not in "available"
	// status, e.g. another cosplayer's request claimed it first.
	ErrSlotUnavailable = errors.New("time slot is not available")

	// ErrStateConflict means a transition was attempted from a status it is
	// not legal from, e.g. accepting a request twice.
	ErrStateConflict = errors.New("illegal status transition")
)
