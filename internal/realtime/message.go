package realtime

import (
	"encoding/json"
	"errors"
	"time"

	"goals-service/internal/models"
)

// MessageType represents the kind tag of a websocket frame, using a custom
// enum type for better type safety.
type MessageType string

// Client -> server message types.
const (
	MessageTypeAuthenticate   MessageType = "authenticate"
	MessageTypeGoalCreate     MessageType = "goal.create"
	MessageTypeGoalUpdate     MessageType = "goal.update"
	MessageTypeGoalDelete     MessageType = "goal.delete"
	MessageTypeProgressUpdate MessageType = "progress.update"
	MessageTypeCommentAdd     MessageType = "comment.add"
	MessageTypeReactionAdd    MessageType = "reaction.add"
)

// Server -> client message types.
const (
	MessageTypeAuthenticated   MessageType = "authenticated"
	MessageTypeError           MessageType = "error"
	MessageTypeUserOnline      MessageType = "user.online"
	MessageTypeUserOffline     MessageType = "user.offline"
	MessageTypeGoalCreated     MessageType = "goal.created"
	MessageTypeGoalUpdated     MessageType = "goal.updated"
	MessageTypeGoalDeleted     MessageType = "goal.deleted"
	MessageTypeProgressUpdated MessageType = "progress.updated"
	MessageTypeCommentCreated  MessageType = "comment.created"
	MessageTypeReactionCreated MessageType = "reaction.created"

	MessageTypeGoalCreateSuccess     MessageType = "goal.created.success"
	MessageTypeGoalUpdateSuccess     MessageType = "goal.updated.success"
	MessageTypeGoalDeleteSuccess     MessageType = "goal.deleted.success"
	MessageTypeProgressUpdateSuccess MessageType = "progress.updated.success"
	MessageTypeCommentAddSuccess     MessageType = "comment.added.success"
	MessageTypeReactionAddSuccess    MessageType = "reaction.added.success"
)

func (mt MessageType) String() string {
	return string(mt)
}

// IsAction reports whether the MessageType is a domain action a client may
// send after authenticating.
func (mt MessageType) IsAction() bool {
	switch mt {
	case MessageTypeGoalCreate, MessageTypeGoalUpdate, MessageTypeGoalDelete,
		MessageTypeProgressUpdate, MessageTypeCommentAdd, MessageTypeReactionAdd:
		return true
	default:
		return false
	}
}

// Message is the inbound frame: a kind tag plus a kind-specific payload
// decoded lazily per handler.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// outbound is the frame pushed to clients.
type outbound struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func encodeMessage(t MessageType, payload interface{}) ([]byte, error) {
	return json.Marshal(outbound{Type: t, Data: payload})
}

func decodePayload(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(raw, v)
}

// Inbound payloads.

type AuthenticatePayload struct {
	Token string `json:"token"`
}

type GoalData struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	TargetValue *float64   `json:"targetValue"`
	Unit        string     `json:"unit"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type GoalCreatePayload struct {
	GoalData GoalData `json:"goalData"`
}

type GoalUpdatePayload struct {
	GoalID  uint                   `json:"goalId"`
	Updates map[string]interface{} `json:"updates"`
}

type GoalDeletePayload struct {
	GoalID uint `json:"goalId"`
}

type TaskData struct {
	GoalID uint   `json:"goalId"`
	Date   string `json:"date"`
	models.TaskPatch
}

type ProgressUpdatePayload struct {
	TaskData TaskData `json:"taskData"`
}

type CommentAddPayload struct {
	TargetType string `json:"targetType"`
	TargetID   uint   `json:"targetId"`
	Content    string `json:"content"`
}

type ReactionAddPayload struct {
	TargetType string `json:"targetType"`
	TargetID   uint   `json:"targetId"`
	Emoji      string `json:"emoji"`
}

// Outbound payloads.

type UserDescriptor struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

type AuthenticatedPayload struct {
	User UserDescriptor `json:"user"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// ActorRef identifies the user an event originated from.
type ActorRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type UserStatusPayload struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username,omitempty"`
}

type GoalCreatedPayload struct {
	Goal *models.Goal `json:"goal"`
	User ActorRef     `json:"user"`
}

type GoalUpdatedPayload struct {
	GoalID  uint                   `json:"goalId"`
	Updates map[string]interface{} `json:"updates"`
	User    ActorRef               `json:"user"`
}

type GoalDeletedPayload struct {
	GoalID uint     `json:"goalId"`
	User   ActorRef `json:"user"`
}

type ProgressUpdatedPayload struct {
	TaskID     uint      `json:"taskId"`
	GoalID     uint      `json:"goalId"`
	Date       time.Time `json:"date"`
	Percentage int       `json:"percentage"`
	Value      float64   `json:"value"`
	Completed  bool      `json:"completed"`
	User       ActorRef  `json:"user"`
}

type CommentCreatedPayload struct {
	Comment    *models.Comment `json:"comment"`
	TargetType string          `json:"targetType"`
	TargetID   uint            `json:"targetId"`
	User       ActorRef        `json:"user"`
}

type ReactionCreatedPayload struct {
	Reaction   *models.Reaction `json:"reaction"`
	TargetType string           `json:"targetType"`
	TargetID   uint             `json:"targetId"`
	User       ActorRef         `json:"user"`
}
