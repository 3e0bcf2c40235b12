package realtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"goals-service/internal/models"
	"goals-service/internal/repository"
)

// Domain action handlers. Each runs only for an authenticated session:
// validate, mutate through the store, ack the initiating connection, then
// hand the event to the dispatcher. Validation and ownership failures are
// pushed back to the initiating connection only; no event is published.
// The returned error classifies the rejection for the caller's log.

func (h *Hub) actorRef(c *Client) ActorRef {
	return ActorRef{ID: c.session.ID, Username: c.session.Username}
}

func (h *Hub) handleGoalCreate(ctx context.Context, c *Client, raw []byte) error {
	var payload GoalCreatePayload
	if err := decodePayload(raw, &payload); err != nil {
		c.pushError("Invalid goal data")
		return ErrValidation
	}

	data := payload.GoalData
	if data.Title == "" || !models.IsValidGoalType(data.Type) {
		c.pushError("Goal requires a title and a valid type")
		return ErrValidation
	}

	startDate := time.Now().UTC()
	if data.StartDate != nil {
		startDate = *data.StartDate
	}

	goal := &models.Goal{
		UserID:      c.session.ID,
		Title:       data.Title,
		Description: data.Description,
		Type:        data.Type,
		TargetValue: data.TargetValue,
		Unit:        data.Unit,
		StartDate:   startDate,
		EndDate:     data.EndDate,
		IsActive:    true,
	}

	if err := h.store.CreateGoal(ctx, goal); err != nil {
		slog.Error("Goal create failed", "userID", c.session.ID, "error", err)
		c.pushError("Failed to create goal")
		return err
	}

	c.push(MessageTypeGoalCreateSuccess, map[string]interface{}{"goal": goal})

	h.dispatcher.Publish(ctx, Event{
		Kind:    EventGoalCreated,
		ActorID: c.session.ID,
		Payload: GoalCreatedPayload{Goal: goal, User: h.actorRef(c)},
	})
	return nil
}

// Goal fields a client may change, mapped to their columns.
var goalUpdateColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"type":        "type",
	"targetValue": "target_value",
	"unit":        "unit",
	"startDate":   "start_date",
	"endDate":     "end_date",
}

func (h *Hub) handleGoalUpdate(ctx context.Context, c *Client, raw []byte) error {
	var payload GoalUpdatePayload
	if err := decodePayload(raw, &payload); err != nil || payload.GoalID == 0 {
		c.pushError("Invalid goal update")
		return ErrValidation
	}

	goal, err := h.ownedGoal(ctx, c, payload.GoalID)
	if err != nil {
		return err
	}

	updates := make(map[string]interface{}, len(payload.Updates))
	for field, value := range payload.Updates {
		column, ok := goalUpdateColumns[field]
		if !ok {
			continue
		}
		if field == "type" {
			t, ok := value.(string)
			if !ok || !models.IsValidGoalType(t) {
				c.pushError("Invalid goal type")
				return ErrValidation
			}
		}
		updates[column] = value
	}
	if len(updates) == 0 {
		c.pushError("No valid fields to update")
		return ErrValidation
	}

	updated, err := h.store.UpdateGoal(ctx, goal.ID, updates)
	if err != nil {
		slog.Error("Goal update failed", "goalID", goal.ID, "error", err)
		c.pushError("Failed to update goal")
		return err
	}

	c.push(MessageTypeGoalUpdateSuccess, map[string]interface{}{"goal": updated})

	h.dispatcher.Publish(ctx, Event{
		Kind:    EventGoalUpdated,
		ActorID: c.session.ID,
		Payload: GoalUpdatedPayload{GoalID: goal.ID, Updates: payload.Updates, User: h.actorRef(c)},
	})
	return nil
}

func (h *Hub) handleGoalDelete(ctx context.Context, c *Client, raw []byte) error {
	var payload GoalDeletePayload
	if err := decodePayload(raw, &payload); err != nil || payload.GoalID == 0 {
		c.pushError("Invalid goal delete")
		return ErrValidation
	}

	goal, err := h.ownedGoal(ctx, c, payload.GoalID)
	if err != nil {
		return err
	}

	if err := h.store.DeactivateGoal(ctx, goal.ID); err != nil {
		slog.Error("Goal delete failed", "goalID", goal.ID, "error", err)
		c.pushError("Failed to delete goal")
		return err
	}

	c.push(MessageTypeGoalDeleteSuccess, map[string]interface{}{"goalId": goal.ID})

	h.dispatcher.Publish(ctx, Event{
		Kind:    EventGoalDeleted,
		ActorID: c.session.ID,
		Payload: GoalDeletedPayload{GoalID: goal.ID, User: h.actorRef(c)},
	})
	return nil
}

func (h *Hub) handleProgressUpdate(ctx context.Context, c *Client, raw []byte) error {
	var payload ProgressUpdatePayload
	if err := decodePayload(raw, &payload); err != nil {
		c.pushError("Invalid progress data")
		return ErrValidation
	}

	data := payload.TaskData
	if data.GoalID == 0 || data.Date == "" {
		c.pushError("Progress requires a goal and a date")
		return ErrValidation
	}

	date, err := parseDate(data.Date)
	if err != nil {
		c.pushError("Invalid date format")
		return ErrValidation
	}

	task, err := h.store.UpsertTask(ctx, data.GoalID, c.session.ID, date, data.TaskPatch)
	if err != nil {
		slog.Error("Progress update failed", "goalID", data.GoalID, "userID", c.session.ID, "error", err)
		c.pushError("Failed to update progress")
		return err
	}

	c.push(MessageTypeProgressUpdateSuccess, map[string]interface{}{"task": task})

	h.dispatcher.Publish(ctx, Event{
		Kind:    EventProgressUpdated,
		ActorID: c.session.ID,
		Payload: ProgressUpdatedPayload{
			TaskID:     task.ID,
			GoalID:     task.GoalID,
			Date:       task.Date,
			Percentage: task.Percentage,
			Value:      task.Value,
			Completed:  task.Completed,
			User:       h.actorRef(c),
		},
	})
	return nil
}

func (h *Hub) handleCommentAdd(ctx context.Context, c *Client, raw []byte) error {
	var payload CommentAddPayload
	if err := decodePayload(raw, &payload); err != nil {
		c.pushError("Invalid comment data")
		return ErrValidation
	}

	if !models.IsValidCommentTarget(payload.TargetType) || payload.TargetID == 0 {
		c.pushError("Invalid comment target")
		return ErrValidation
	}
	if payload.Content == "" || len(payload.Content) > 500 {
		c.pushError("Comment content must be 1-500 characters")
		return ErrValidation
	}

	// The target must exist before the comment is created; the dispatcher
	// resolves the same owner again at delivery time.
	if _, err := h.store.FindOwner(ctx, payload.TargetType, payload.TargetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.pushError("Comment target not found")
			return ErrNotFound
		}
		slog.Error("Owner lookup failed", "targetType", payload.TargetType, "targetID", payload.TargetID, "error", err)
		c.pushError("Failed to add comment")
		return err
	}

	comment := &models.Comment{
		UserID:     c.session.ID,
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Content:    payload.Content,
	}
	if err := h.store.CreateComment(ctx, comment); err != nil {
		slog.Error("Comment create failed", "userID", c.session.ID, "error", err)
		c.pushError("Failed to add comment")
		return err
	}

	c.push(MessageTypeCommentAddSuccess, map[string]interface{}{"comment": comment})

	h.dispatcher.Publish(ctx, Event{
		Kind:       EventCommentCreated,
		ActorID:    c.session.ID,
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Payload: CommentCreatedPayload{
			Comment:    comment,
			TargetType: payload.TargetType,
			TargetID:   payload.TargetID,
			User:       h.actorRef(c),
		},
	})
	return nil
}

func (h *Hub) handleReactionAdd(ctx context.Context, c *Client, raw []byte) error {
	var payload ReactionAddPayload
	if err := decodePayload(raw, &payload); err != nil {
		c.pushError("Invalid reaction data")
		return ErrValidation
	}

	if !models.IsValidReactionTarget(payload.TargetType) || payload.TargetID == 0 {
		c.pushError("Invalid reaction target")
		return ErrValidation
	}
	if payload.Emoji == "" || len(payload.Emoji) > 10 {
		c.pushError("Invalid emoji")
		return ErrValidation
	}

	if _, err := h.store.FindOwner(ctx, payload.TargetType, payload.TargetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.pushError("Reaction target not found")
			return ErrNotFound
		}
		slog.Error("Owner lookup failed", "targetType", payload.TargetType, "targetID", payload.TargetID, "error", err)
		c.pushError("Failed to add reaction")
		return err
	}

	reaction := &models.Reaction{
		UserID:     c.session.ID,
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Emoji:      payload.Emoji,
	}
	if err := h.store.UpsertReaction(ctx, reaction); err != nil {
		slog.Error("Reaction upsert failed", "userID", c.session.ID, "error", err)
		c.pushError("Failed to add reaction")
		return err
	}

	c.push(MessageTypeReactionAddSuccess, map[string]interface{}{"reaction": reaction})

	h.dispatcher.Publish(ctx, Event{
		Kind:       EventReactionCreated,
		ActorID:    c.session.ID,
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Payload: ReactionCreatedPayload{
			Reaction:   reaction,
			TargetType: payload.TargetType,
			TargetID:   payload.TargetID,
			User:       h.actorRef(c),
		},
	})
	return nil
}

// ownedGoal loads a goal and verifies the session user owns it, pushing
// the appropriate error otherwise.
func (h *Hub) ownedGoal(ctx context.Context, c *Client, goalID uint) (*models.Goal, error) {
	goal, err := h.store.FindGoal(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.pushError("Goal not found")
			return nil, ErrNotFound
		}
		slog.Error("Goal lookup failed", "goalID", goalID, "error", err)
		c.pushError("Failed to load goal")
		return nil, err
	}
	if goal.UserID != c.session.ID {
		c.pushError("Not authorized")
		return nil, ErrNotAuthorized
	}
	return goal, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
