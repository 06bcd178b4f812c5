package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosnap/models"
)

func TestCreateSlotValidation(t *testing.T) {
	repo := &SlotRepo{}
	date := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name           string
		photographerID string
		date           time.Time
		start, end     string
	}{
		{"missing photographer", "", date, "10:00", "11:00"},
		{"missing date", "p1", time.Time{}, "10:00", "11:00"},
		{"missing start time", "p1", date, "", "11:00"},
		{"missing end time", "p1", date, "10:00", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), tc.photographerID, tc.date, tc.start, tc.end, 50, "Paris", "")
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateRequestValidation(t *testing.T) {
	repo := &RequestRepo{}

	cases := []struct {
		name                        string
		slotID, photographer, cospl string
	}{
		{"missing slot id", "", "p1", "c1"},
		{"missing photographer", "s1", "", "c1"},
		{"missing cosplayer", "s1", "p1", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), tc.slotID, tc.photographer, tc.cospl, "", "Sailor Moon", "")
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestFutureOnly(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	yesterday := slotOn(now.AddDate(0, 0, -1))
	tomorrow := slotOn(now.AddDate(0, 0, 1))
	nextWeek := slotOn(now.AddDate(0, 0, 7))

	got := futureOnly([]models.TimeSlot{yesterday, tomorrow, nextWeek}, now)
	if len(got) != 2 {
		t.Fatalf("want 2 future slots, got %d", len(got))
	}
	for _, s := range got {
		if s.Date.Before(now) {
			t.Errorf("slot dated %v is before now", s.Date)
		}
	}
}

func TestFutureOnlyEmptyIsNotNil(t *testing.T) {
	got := futureOnly(nil, time.Now())
	if got == nil {
		t.Fatal("empty snapshot must be an empty set, not nil")
	}
}

func TestSortByDateAsc(t *testing.T) {
	base := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	slots := []models.TimeSlot{
		slotOn(base.AddDate(0, 0, 5)),
		slotOn(base),
		slotOn(base.AddDate(0, 0, 2)),
	}

	got := sortByDateAsc(slots)
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Fatalf("slots out of order at %d: %v after %v", i, got[i].Date, got[i-1].Date)
		}
	}
}

func slotOn(date time.Time) models.TimeSlot {
	return models.TimeSlot{
		ID:             "slot-" + date.Format("2006-01-02"),
		PhotographerID: "p1",
		Date:           date,
		StartTime:      "10:00",
		EndTime:        "11:00",
		Status:         models.SlotAvailable,
	}
}
