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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RequestRepo owns booking requests and drives the companion time slot
// through every status transition. The request write and the slot write of
// one event always commit in a single MongoDB transaction, so a crash can
// never leave the pair half-transitioned.
type RequestRepo struct {
	client   *mongo.Client
	requests *mongo.Collection
	slots    *mongo.Collection
	users    *mongo.Collection
}

func NewRequestRepo(database *db.Database) *RequestRepo {
	return &RequestRepo{
		client:   database.Client,
		requests: database.BookingRequests,
		slots:    database.TimeSlots,
		users:    database.Users,
	}
}

// Create persists a pending request against an available slot and flips
// the slot to "pending". The slot flip is a conditional update filtered on
// the current status, so when two cosplayers race for the same slot inside
// concurrent transactions exactly one create wins; the other gets
// ErrSlotUnavailable.
func (r *RequestRepo) Create(ctx context.Context, timeSlotID, photographerID, cosplayerID, message, cosplayCharacter, cosplayReference string) (string, error) {
	switch {
	case timeSlotID == "":
		return "", fmt.Errorf("%w: timeSlotId", ErrValidation)
	case photographerID == "":
		return "", fmt.Errorf("%w: photographerId", ErrValidation)
	case cosplayerID == "":
		return "", fmt.Errorf("%w: cosplayerId", ErrValidation)
	}

	req := models.BookingRequest{
		ID:               utils.GetUUID(),
		TimeSlotID:       timeSlotID,
		PhotographerID:   photographerID,
		CosplayerID:      cosplayerID,
		RequestDate:      time.Now(),
		Status:           models.RequestPending,
		Message:          message,
		CosplayCharacter: cosplayCharacter,
		CosplayReference: cosplayReference,
		PaymentStatus:    models.PaymentPending,
	}

	tr := transitions[EventRequestCreated]
	err := r.withTxn(ctx, func(sc mongo.SessionContext) error {
		res, err := r.slots.UpdateOne(sc,
			bson.M{"id": timeSlotID, "status": tr.slotBefore},
			bson.M{"$set": bson.M{"status": tr.slotAfter}},
		)
		if err != nil {
			return fmt.Errorf("claim time slot: %w", err)
		}
		if res.MatchedCount == 0 {
			if err := r.slots.FindOne(sc, bson.M{"id": timeSlotID}).Err(); err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return ErrSlotUnavailable
		}
		if _, err := r.requests.InsertOne(sc, req); err != nil {
			return fmt.Errorf("insert booking request: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return req.ID, nil
}

// Accept moves a pending request to "accepted" and books the slot for the
// request's cosplayer. A second Accept (or an Accept after Reject) fails
// with ErrStateConflict instead of silently overwriting.
func (r *RequestRepo) Accept(ctx context.Context, requestID string) error {
	return r.transition(ctx, requestID, EventAccept)
}

// Reject moves a pending request to "rejected" and returns the slot to
// "available" for a later request.
func (r *RequestRepo) Reject(ctx context.Context, requestID string) error {
	return r.transition(ctx, requestID, EventReject)
}

// Cancel moves an accepted request to "cancelled" and retires the slot.
// The slot does not go back to "available"; see the transition table.
func (r *RequestRepo) Cancel(ctx context.Context, requestID string) error {
	return r.transition(ctx, requestID, EventCancel)
}

func (r *RequestRepo) transition(ctx context.Context, requestID, event string) error {
	tr := transitions[event]
	return r.withTxn(ctx, func(sc mongo.SessionContext) error {
		var req models.BookingRequest
		err := r.requests.FindOneAndUpdate(sc,
			bson.M{"id": requestID, "status": tr.requestBefore},
			bson.M{"$set": bson.M{"status": tr.requestAfter}},
			options.FindOneAndUpdate().SetReturnDocument(options.Before),
		).Decode(&req)
		if err == mongo.ErrNoDocuments {
			if e := r.requests.FindOne(sc, bson.M{"id": requestID}).Err(); e == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("%w: %s needs a %q request", ErrStateConflict, event, tr.requestBefore)
		}
		if err != nil {
			return fmt.Errorf("update booking request: %w", err)
		}

		occupantName := ""
		if OccupantRequired(transitions[event].slotAfter) {
			occupantName = r.displayName(sc, req.CosplayerID)
		}
		res, err := r.slots.UpdateOne(sc, bson.M{"id": req.TimeSlotID}, slotUpdateFor(event, req, occupantName))
		if err != nil {
			return fmt.Errorf("update time slot: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("%w: time slot %s", ErrNotFound, req.TimeSlotID)
		}
		return nil
	})
}

// slotUpdateFor builds the slot-side mutation of an event. Occupant fields
// are present exactly while the slot is "booked".
func slotUpdateFor(event string, req models.BookingRequest, occupantName string) bson.M {
	tr := transitions[event]
	if !OccupantRequired(tr.slotAfter) {
		return bson.M{
			"$set":   bson.M{"status": tr.slotAfter},
			"$unset": bson.M{"bookedBy": "", "bookedByName": "", "bookedAt": ""},
		}
	}
	return bson.M{"$set": bson.M{
		"status":       tr.slotAfter,
		"bookedBy":     req.CosplayerID,
		"bookedByName": occupantName,
		"bookedAt":     time.Now(),
	}}
}

// displayName denormalizes the occupant's name onto the slot for the
// photographer dashboard. Best effort; the occupant id is authoritative.
func (r *RequestRepo) displayName(ctx context.Context, userID string) string {
	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}

func (r *RequestRepo) withTxn(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*models.BookingRequest, error) {
	var req models.BookingRequest
	err := r.requests.FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking request: %w", err)
	}
	return &req, nil
}

func (r *RequestRepo) ListByPhotographer(ctx context.Context, photographerID string) ([]models.BookingRequest, error) {
	return r.list(ctx, bson.M{"photographerId": photographerID})
}

func (r *RequestRepo) ListByCosplayer(ctx context.Context, cosplayerID string) ([]models.BookingRequest, error) {
	return r.list(ctx, bson.M{"cosplayerId": cosplayerID})
}

func (r *RequestRepo) list(ctx context.Context, filter bson.M) ([]models.BookingRequest, error) {
	cur, err := r.requests.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find booking requests: %w", err)
	}
	defer cur.Close(ctx)

	requests := []models.BookingRequest{}
	if err := cur.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode booking requests: %w", err)
	}
	return sortByRequestDateDesc(requests), nil
}

// SubscribeByPhotographer delivers the complete creation-time-descending
// request set for a photographer on every change, starting with an initial
// snapshot. The returned function must be called exactly once.
func (r *RequestRepo) SubscribeByPhotographer(photographerID string, onSnapshot func([]models.BookingRequest), onError func(error)) (Unsubscribe, error) {
	return subscribe(r.requests, func(ctx context.Context) ([]models.BookingRequest, error) {
		return r.ListByPhotographer(ctx, photographerID)
	}, onSnapshot, onError)
}

func sortByRequestDateDesc(requests []models.BookingRequest) []models.BookingRequest {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RequestDate.After(requests[j].RequestDate)
	})
	return requests
}

// CountPending derives the photographer's header badge from a request
// snapshot. Pure recomputation on every subscription tick; it owns no
// storage.
func CountPending(requests []models.BookingRequest) int {
	n := 0
	for _, req := range requests {
		if req.Status == models.RequestPending {
			n++
		}
	}
	return n
}
