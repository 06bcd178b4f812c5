package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database bundles the Mongo client and the collections the service uses.
// It is passed explicitly into every repository and handler constructor.
type Database struct {
	Client *mongo.Client

	TimeSlots       *mongo.Collection
	BookingRequests *mongo.Collection
	Users           *mongo.Collection
	Reviews         *mongo.Collection
	Chats           *mongo.Collection
	Messages        *mongo.Collection
	Notifications   *mongo.Collection
}

func Connect(ctx context.Context, uri, name string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	d := client.Database(name)
	return &Database{
		Client:          client,
		TimeSlots:       d.Collection("timeSlots"),
		BookingRequests: d.Collection("bookingRequests"),
		Users:           d.Collection("users"),
		Reviews:         d.Collection("reviews"),
		Chats:           d.Collection("chats"),
		Messages:        d.Collection("messages"),
		Notifications:   d.Collection("notifications"),
	}, nil
}

func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
