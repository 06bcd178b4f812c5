package booking

import (
	"fmt"

	"cosnap/models"
)

// Booking lifecycle events. Each event moves a request and its companion
// slot together; the transition table below is the single source of truth
// for which status pair an event requires and which pair it produces.
const (
	EventRequestCreated = "request-created"
	EventAccept         = "accepted"
	EventReject         = "rejected"
	EventCancel         = "cancelled"
)

type transition struct {
	requestBefore string // "" for request creation (no request exists yet)
	requestAfter  string
	slotBefore    string
	slotAfter     string
}

var transitions = map[string]transition{
	EventRequestCreated: {
		requestBefore: "",
		requestAfter:  models.RequestPending,
		slotBefore:    models.SlotAvailable,
		slotAfter:     models.SlotPending,
	},
	EventAccept: {
		requestBefore: models.RequestPending,
		requestAfter:  models.RequestAccepted,
		slotBefore:    models.SlotPending,
		slotAfter:     models.SlotBooked,
	},
	EventReject: {
		requestBefore: models.RequestPending,
		requestAfter:  models.RequestRejected,
		slotBefore:    models.SlotPending,
		slotAfter:     models.SlotAvailable,
	},
	// A cancelled slot is retired, never returned to "available". The
	// photographer opens a fresh slot to relist the date.
	EventCancel: {
		requestBefore: models.RequestAccepted,
		requestAfter:  models.RequestCancelled,
		slotBefore:    models.SlotBooked,
		slotAfter:     models.SlotCancelled,
	},
}

// Apply runs one event against a (request status, slot status) pair and
// returns the pair after the transition. It fails with ErrStateConflict
// when either side is not in the status the event requires, which is what
// makes double accept/reject impossible.
func Apply(event, requestStatus, slotStatus string) (requestAfter, slotAfter string, err error) {
	tr, ok := transitions[event]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown event %q", ErrStateConflict, event)
	}
	if requestStatus != tr.requestBefore {
		return "", "", fmt.Errorf("%w: request is %q, event %q needs %q",
			ErrStateConflict, requestStatus, event, tr.requestBefore)
	}
	if slotStatus != tr.slotBefore {
		return "", "", fmt.Errorf("%w: slot is %q, event %q needs %q",
			ErrStateConflict, slotStatus, event, tr.slotBefore)
	}
	return tr.requestAfter, tr.slotAfter, nil
}

// IsTerminalRequest reports whether no further event accepts a request in
// this status.
func IsTerminalRequest(status string) bool {
	return status == models.RequestRejected || status == models.RequestCancelled
}

// IsTerminalSlot reports whether no further event accepts a slot in this
// status.
func IsTerminalSlot(status string) bool {
	return status == models.SlotCancelled
}

// OccupantRequired reports whether a slot in this status must carry an
// occupant. The inverse also holds: any other status must not.
func OccupantRequired(slotStatus string) bool {
	return slotStatus == models.SlotBooked
}
