package booking

import (
	"testing"
	"time"

	"cosnap/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSortByRequestDateDesc(t *testing.T) {
	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	requests := []models.BookingRequest{
		{ID: "a", RequestDate: base},
		{ID: "c", RequestDate: base.Add(2 * time.Hour)},
		{ID: "b", RequestDate: base.Add(time.Hour)},
	}

	got := sortByRequestDateDesc(requests)
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestCountPending(t *testing.T) {
	requests := []models.BookingRequest{
		{Status: models.RequestPending},
		{Status: models.RequestAccepted},
		{Status: models.RequestPending},
		{Status: models.RequestRejected},
		{Status: models.RequestCancelled},
	}
	if got := CountPending(requests); got != 2 {
		t.Fatalf("want 2 pending, got %d", got)
	}
	if got := CountPending(nil); got != 0 {
		t.Fatalf("want 0 pending for empty snapshot, got %d", got)
	}
}

// The slot-side mutation of each event must keep the occupant invariant:
// occupant fields set exactly when the slot lands in "booked".
func TestSlotUpdateForOccupantInvariant(t *testing.T) {
	req := models.BookingRequest{ID: "r1", TimeSlotID: "s1", CosplayerID: "c1"}

	t.Run("accept sets the occupant", func(t *testing.T) {
		update := slotUpdateFor(EventAccept, req, "Usagi")
		set := update["$set"].(bson.M)
		if set["status"] != models.SlotBooked {
			t.Fatalf("want booked, got %v", set["status"])
		}
		if set["bookedBy"] != "c1" || set["bookedByName"] != "Usagi" {
			t.Fatalf("occupant not set: %v", set)
		}
		if _, ok := set["bookedAt"]; !ok {
			t.Fatal("bookedAt not set")
		}
	})

	for _, event := range []string{EventReject, EventCancel} {
		t.Run(event+" clears the occupant", func(t *testing.T) {
			update := slotUpdateFor(event, req, "")
			unset, ok := update["$unset"].(bson.M)
			if !ok {
				t.Fatal("occupant fields must be cleared")
			}
			for _, field := range []string{"bookedBy", "bookedByName", "bookedAt"} {
				if _, ok := unset[field]; !ok {
					t.Errorf("%s not cleared", field)
				}
			}
		})
	}
}
