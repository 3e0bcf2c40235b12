package realtime

import (
	"context"
	"log/slog"
)

// Sink receives a copy of every published event, for downstream consumers
// outside the live fan-out path. Emission is fire-and-forget.
type Sink interface {
	Emit(event Event) error
}

// Dispatcher fans a domain event out to the subset of its audience that is
// connected right now. The audience is recomputed from the store on every
// publish; there is no cache, no queue and no retry. Offline audience
// members simply miss the event.
type Dispatcher struct {
	registry *Registry
	store    Store
	sink     Sink
}

func NewDispatcher(registry *Registry, store Store) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		store:    store,
	}
}

// SetSink attaches an optional event sink, called once during wiring.
func (d *Dispatcher) SetSink(sink Sink) {
	d.sink = sink
}

// Publish resolves the event's audience and pushes it to every audience
// member with a live connection. A failed push is logged and skipped; it
// never aborts delivery to the rest of the audience.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	audience, err := d.resolveAudience(ctx, event)
	if err != nil {
		slog.Error("Failed to resolve audience", "kind", event.Kind, "actorID", event.ActorID, "error", err)
		return err
	}

	data, err := encodeMessage(MessageType(event.Kind), event.Payload)
	if err != nil {
		slog.Error("Failed to encode event", "kind", event.Kind, "error", err)
		return err
	}

	for _, client := range d.registry.LookupMany(audience) {
		if err := client.Send(data); err != nil {
			slog.Debug("Push failed, skipping audience member",
				"kind", event.Kind, "clientID", client.ID(), "userID", client.UserID(), "error", err)
		}
	}

	if d.sink != nil {
		if err := d.sink.Emit(event); err != nil {
			slog.Warn("Event sink emit failed", "kind", event.Kind, "error", err)
		}
	}
	return nil
}

// resolveAudience computes who is eligible to receive the event: the
// actor's accepted friends for broadcast kinds, the target entity's owner
// for targeted kinds.
func (d *Dispatcher) resolveAudience(ctx context.Context, event Event) ([]uint, error) {
	if event.Broadcast() {
		return d.store.AcceptedFriendIDs(ctx, event.ActorID)
	}

	ownerID, err := d.store.FindOwner(ctx, event.TargetType, event.TargetID)
	if err != nil {
		return nil, err
	}
	return []uint{ownerID}, nil
}
