package booking

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Unsubscribe releases a live subscription. Callers must invoke it exactly
// once; a subscription that is never released keeps its change stream open
// for the lifetime of the process.
type Unsubscribe func()

// subscribe opens a change stream on coll and re-runs fetch after every
// change event, handing the full recomputed result set to onSnapshot. The
// first snapshot is delivered before any change arrives. Snapshots are
// whole-set replays, O(n) per tick; fine at this service's scale, a
// delta feed would be the upgrade path if slot counts grow.
//
// fetch errors and stream errors go to onError; an erroring live query is
// not the same thing as an empty result.
func subscribe[T any](coll *mongo.Collection, fetch func(context.Context) ([]T, error), onSnapshot func([]T), onError func(error)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", coll.Name(), err)
	}

	go func() {
		defer stream.Close(context.Background())

		replay(ctx, fetch, onSnapshot, onError)
		for stream.Next(ctx) {
			replay(ctx, fetch, onSnapshot, onError)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			onError(fmt.Errorf("change stream on %s: %w", coll.Name(), err))
		}
	}()

	return Unsubscribe(cancel), nil
}

func replay[T any](ctx context.Context, fetch func(context.Context) ([]T, error), onSnapshot func([]T), onError func(error)) {
	result, err := fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			onError(err)
		}
		return
	}
	onSnapshot(result)
}
