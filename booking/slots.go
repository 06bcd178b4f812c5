package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cosnap/db"
	"cosnap/models"
	"cosnap/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepo owns creation, mutation, deletion and the future-only view of
// time slots. Status transitions driven by booking requests go through
// RequestRepo, which mutates slots in the same transaction as the request.
type SlotRepo struct {
	slots *mongo.Collection
}

func NewSlotRepo(database *db.Database) *SlotRepo {
	return &SlotRepo{slots: database.TimeSlots}
}

func (r *SlotRepo) Create(ctx context.Context, photographerID string, date time.Time, startTime, endTime string, price float64, location, description string) (string, error) {
	switch {
	case photographerID == "":
		return "", fmt.Errorf("%w: photographerId", ErrValidation)
	case date.IsZero():
		return "", fmt.Errorf("%w: date", ErrValidation)
	case startTime == "":
		return "", fmt.Errorf("%w: startTime", ErrValidation)
	case endTime == "":
		return "", fmt.Errorf("%w: endTime", ErrValidation)
	}

	slot := models.TimeSlot{
		ID:             utils.GetUUID(),
		PhotographerID: photographerID,
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
		Status:         models.SlotAvailable,
		Price:          price,
		Location:       location,
		Description:    description,
		CreatedAt:      time.Now(),
	}
	if _, err := r.slots.InsertOne(ctx, slot); err != nil {
		return "", fmt.Errorf("insert time slot: %w", err)
	}
	return slot.ID, nil
}

// Update applies a blind partial update. Any field may be overwritten,
// including status; ownership and status legality are the caller's problem
// at this layer.
func (r *SlotRepo) Update(ctx context.Context, id string, fields bson.M) error {
	res, err := r.slots.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update time slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SlotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.slots.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete time slot: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SlotRepo) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	err := r.slots.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find time slot: %w", err)
	}
	return &slot, nil
}

// ListFutureByPhotographer returns the photographer's slots dated now or
// later, ascending by date. Filtering and ordering happen on the fetched
// set so the live subscription replays the exact same view.
func (r *SlotRepo) ListFutureByPhotographer(ctx context.Context, photographerID string) ([]models.TimeSlot, error) {
	cur, err := r.slots.Find(ctx, bson.M{"photographerId": photographerID})
	if err != nil {
		return nil, fmt.Errorf("find time slots: %w", err)
	}
	defer cur.Close(ctx)

	var slots []models.TimeSlot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("decode time slots: %w", err)
	}
	return sortByDateAsc(futureOnly(slots, time.Now())), nil
}

// SubscribeByPhotographer delivers the full future-filtered, date-sorted
// slot set on every change touching the collection, starting with an
// initial snapshot. The returned function must be called exactly once to
// release the watch.
func (r *SlotRepo) SubscribeByPhotographer(photographerID string, onSnapshot func([]models.TimeSlot), onError func(error)) (Unsubscribe, error) {
	return subscribe(r.slots, func(ctx context.Context) ([]models.TimeSlot, error) {
		return r.ListFutureByPhotographer(ctx, photographerID)
	}, onSnapshot, onError)
}

func futureOnly(slots []models.TimeSlot, now time.Time) []models.TimeSlot {
	out := []models.TimeSlot{}
	for _, s := range slots {
		if !s.Date.Before(now) {
			out = append(out, s)
		}
	}
	return out
}

func sortByDateAsc(slots []models.TimeSlot) []models.TimeSlot {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Date.Before(slots[j].Date)
	})
	return slots
}
