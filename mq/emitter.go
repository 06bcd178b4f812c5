package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cosnap/db"
	"cosnap/models"
	"cosnap/utils"

	"github.com/redis/go-redis/v9"
)

const bookingChannel = "booking-events"

// Emitter publishes booking lifecycle events to Redis. Delivery is
// best-effort: a failed publish is logged, never surfaced to the caller,
// since the booking write itself has already committed.
type Emitter struct {
	conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

func (e *Emitter) Emit(ctx context.Context, event models.BookingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] failed to marshal event: %v", err)
		return
	}
	if err := e.conn.Publish(ctx, bookingChannel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s event: %v", event.Type, err)
	}
}

// StartNotificationWorker consumes booking events and materializes in-app
// notifications for the affected parties. Runs until ctx is cancelled.
func StartNotificationWorker(ctx context.Context, conn *redis.Client, database *db.Database) {
	sub := conn.Subscribe(ctx, bookingChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[NotificationWorker] listening for booking events")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.BookingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[NotificationWorker] failed to parse event: %v", err)
				continue
			}
			if err := storeNotification(ctx, database, event); err != nil {
				log.Printf("[NotificationWorker] %v", err)
			}
		}
	}
}

func storeNotification(ctx context.Context, database *db.Database, event models.BookingEvent) error {
	recipient, text := describe(event)
	if recipient == "" {
		return nil
	}
	n := models.Notification{
		ID:        utils.GetUUID(),
		UserID:    recipient,
		Kind:      event.Type,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if _, err := database.Notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// describe picks who gets notified about an event. Requests go to the
// photographer; decisions go to the cosplayer; cancellations go to both
// sides' counterpart, but the emitter only knows the actor's opposite here,
// so cancellations notify the photographer (the cosplayer dashboard already
// observes the change through its pull query).
func describe(event models.BookingEvent) (recipient, text string) {
	switch event.Type {
	case "request-created":
		return event.PhotographerID, "New booking request for one of your time slots"
	case "accepted":
		return event.CosplayerID, "Your booking request was accepted"
	case "rejected":
		return event.CosplayerID, "Your booking request was declined"
	case "cancelled":
		return event.PhotographerID, "A booking was cancelled"
	}
	return "", ""
}
