package booking

import (
	"errors"
	"testing"

	"cosnap/models"
)

func TestApplyLegalTransitions(t *testing.T) {
	cases := []struct {
		name          string
		event         string
		requestBefore string
		slotBefore    string
		requestAfter  string
		slotAfter     string
	}{
		{"request created", EventRequestCreated, "", models.SlotAvailable, models.RequestPending, models.SlotPending},
		{"accept", EventAccept, models.RequestPending, models.SlotPending, models.RequestAccepted, models.SlotBooked},
		{"reject", EventReject, models.RequestPending, models.SlotPending, models.RequestRejected, models.SlotAvailable},
		{"cancel", EventCancel, models.RequestAccepted, models.SlotBooked, models.RequestCancelled, models.SlotCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reqAfter, slotAfter, err := Apply(tc.event, tc.requestBefore, tc.slotBefore)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reqAfter != tc.requestAfter || slotAfter != tc.slotAfter {
				t.Fatalf("got (%s, %s), want (%s, %s)", reqAfter, slotAfter, tc.requestAfter, tc.slotAfter)
			}
		})
	}
}

func TestApplyRejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		name          string
		event         string
		requestBefore string
		slotBefore    string
	}{
		{"double accept", EventAccept, models.RequestAccepted, models.SlotBooked},
		{"accept after reject", EventAccept, models.RequestRejected, models.SlotAvailable},
		{"double reject", EventReject, models.RequestRejected, models.SlotAvailable},
		{"reject after accept", EventReject, models.RequestAccepted, models.SlotBooked},
		{"cancel before accept", EventCancel, models.RequestPending, models.SlotPending},
		{"double cancel", EventCancel, models.RequestCancelled, models.SlotCancelled},
		{"request against pending slot", EventRequestCreated, "", models.SlotPending},
		{"request against booked slot", EventRequestCreated, "", models.SlotBooked},
		{"request against cancelled slot", EventRequestCreated, "", models.SlotCancelled},
		{"unknown event", "confirm", models.RequestPending, models.SlotPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Apply(tc.event, tc.requestBefore, tc.slotBefore)
			if !errors.Is(err, ErrStateConflict) {
				t.Fatalf("want ErrStateConflict, got %v", err)
			}
		})
	}
}

// The round-trip laws: each event chain lands the pair exactly where the
// lifecycle table says it should.
func TestLifecycleRoundTrips(t *testing.T) {
	t.Run("create then accept books the slot", func(t *testing.T) {
		req, slot := mustApply(t, EventRequestCreated, "", models.SlotAvailable)
		req, slot = mustApply(t, EventAccept, req, slot)
		if req != models.RequestAccepted || slot != models.SlotBooked {
			t.Fatalf("got (%s, %s)", req, slot)
		}
	})

	t.Run("create then reject frees the slot for rebooking", func(t *testing.T) {
		req, slot := mustApply(t, EventRequestCreated, "", models.SlotAvailable)
		_, slot = mustApply(t, EventReject, req, slot)
		if slot != models.SlotAvailable {
			t.Fatalf("rejected slot should be available again, got %s", slot)
		}
		// a fresh request can claim the slot again
		req2, slot2 := mustApply(t, EventRequestCreated, "", slot)
		if req2 != models.RequestPending || slot2 != models.SlotPending {
			t.Fatalf("got (%s, %s)", req2, slot2)
		}
	})

	t.Run("create, accept, cancel retires the slot", func(t *testing.T) {
		req, slot := mustApply(t, EventRequestCreated, "", models.SlotAvailable)
		req, slot = mustApply(t, EventAccept, req, slot)
		req, slot = mustApply(t, EventCancel, req, slot)
		if req != models.RequestCancelled || slot != models.SlotCancelled {
			t.Fatalf("got (%s, %s)", req, slot)
		}
		if !IsTerminalRequest(req) || !IsTerminalSlot(slot) {
			t.Fatal("cancelled pair should be terminal")
		}
		// the retired slot cannot take a new request
		if _, _, err := Apply(EventRequestCreated, "", slot); !errors.Is(err, ErrStateConflict) {
			t.Fatalf("want ErrStateConflict, got %v", err)
		}
	})
}

func TestOccupantRequired(t *testing.T) {
	for _, status := range []string{models.SlotAvailable, models.SlotPending, models.SlotCancelled} {
		if OccupantRequired(status) {
			t.Errorf("%s slot must not carry an occupant", status)
		}
	}
	if !OccupantRequired(models.SlotBooked) {
		t.Error("booked slot must carry an occupant")
	}
}

func mustApply(t *testing.T, event, requestStatus, slotStatus string) (string, string) {
	t.Helper()
	reqAfter, slotAfter, err := Apply(event, requestStatus, slotStatus)
	if err != nil {
		t.Fatalf("apply %s: %v", event, err)
	}
	return reqAfter, slotAfter
}
