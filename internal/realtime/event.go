package realtime

// EventKind enumerates the domain events the dispatcher fans out.
type EventKind string

const (
	EventUserOnline      EventKind = "user.online"
	EventUserOffline     EventKind = "user.offline"
	EventGoalCreated     EventKind = "goal.created"
	EventGoalUpdated     EventKind = "goal.updated"
	EventGoalDeleted     EventKind = "goal.deleted"
	EventProgressUpdated EventKind = "progress.updated"
	EventCommentCreated  EventKind = "comment.created"
	EventReactionCreated EventKind = "reaction.created"
)

// Event is an immutable record of something that happened. Events are
// fire-and-forget: once dispatched, nothing is retained.
type Event struct {
	Kind    EventKind
	ActorID uint

	// Target of a comment/reaction event. The dispatcher resolves the
	// owner of this entity as the sole audience member. Unused for
	// broadcast kinds.
	TargetType string
	TargetID   uint

	Payload interface{}
}

// Broadcast reports whether the event goes to the actor's accepted-friend
// set. Non-broadcast (targeted) kinds go to the target entity's owner only.
func (e Event) Broadcast() bool {
	switch e.Kind {
	case EventCommentCreated, EventReactionCreated:
		return false
	default:
		return true
	}
}
