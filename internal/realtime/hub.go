package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Per-publish budget for audience resolution and storage lookups.
const dispatchTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			return true
		}
		for _, allowed := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
			if origin == strings.TrimSpace(allowed) {
				return true
			}
		}
		return false
	},
}

// Hub owns the connection registry and orchestrates the lifecycle of every
// websocket session: handshake, domain action routing, fan-out and
// teardown. It is explicitly constructed and passed to whatever serves
// connections; there is no package-level state.
type Hub struct {
	registry   *Registry
	dispatcher *Dispatcher
	auth       Authenticator
	store      Store
	presence   Presence
}

func NewHub(registry *Registry, dispatcher *Dispatcher, auth Authenticator, store Store, presence Presence) *Hub {
	return &Hub{
		registry:   registry,
		dispatcher: dispatcher,
		auth:       auth,
		store:      store,
		presence:   presence,
	}
}

// Registry exposes the session registry, read-only use intended.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// ServeWS upgrades an HTTP request and starts the connection's read and
// write goroutines. The connection starts unauthenticated; nothing but an
// authenticate frame is accepted until the handshake succeeds.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := newClient(h, conn)
	slog.Info("New WebSocket connection", "clientID", client.id)

	go client.writePump()
	go client.readPump()
}

// route dispatches one inbound frame for a client. Runs on the client's
// read goroutine, so per-connection handling is sequential.
func (h *Hub) route(c *Client, msg Message) {
	ctx, cancel := context.WithTimeout(c.ctx, dispatchTimeout)
	defer cancel()

	if msg.Type == MessageTypeAuthenticate {
		if err := h.handleAuthenticate(ctx, c, msg.Data); err != nil {
			slog.Debug("Handshake rejected", "clientID", c.id, "error", err)
		}
		return
	}

	if !c.authenticated() {
		c.pushError("Not authenticated")
		return
	}

	if !msg.Type.IsAction() {
		c.pushError("Unknown message type")
		return
	}

	var err error
	switch msg.Type {
	case MessageTypeGoalCreate:
		err = h.handleGoalCreate(ctx, c, msg.Data)
	case MessageTypeGoalUpdate:
		err = h.handleGoalUpdate(ctx, c, msg.Data)
	case MessageTypeGoalDelete:
		err = h.handleGoalDelete(ctx, c, msg.Data)
	case MessageTypeProgressUpdate:
		err = h.handleProgressUpdate(ctx, c, msg.Data)
	case MessageTypeCommentAdd:
		err = h.handleCommentAdd(ctx, c, msg.Data)
	case MessageTypeReactionAdd:
		err = h.handleReactionAdd(ctx, c, msg.Data)
	}
	if err != nil {
		slog.Debug("Action rejected", "clientID", c.id, "type", msg.Type, "error", err)
	}
}

// handleAuthenticate runs the handshake. On success the session is
// registered (replacing any previous connection for the same user), the
// client gets a confirmation, and the user's friends are told they came
// online. On failure the client gets an error push and the connection is
// forcibly closed; there is no retry in place.
func (h *Hub) handleAuthenticate(ctx context.Context, c *Client, raw []byte) error {
	var payload AuthenticatePayload
	if err := decodePayload(raw, &payload); err != nil {
		c.pushError("Authentication failed")
		c.closeSendChannel()
		return ErrNotAuthenticated
	}

	user, err := h.auth.Authenticate(ctx, payload.Token)
	if err != nil {
		slog.Debug("Credential check failed", "clientID", c.id, "error", err)
		// The error frame drains before the close frame goes out.
		c.pushError("Authentication failed")
		c.closeSendChannel()
		return ErrNotAuthenticated
	}

	c.session = user
	h.registry.Register(user.ID, c)

	c.push(MessageTypeAuthenticated, AuthenticatedPayload{
		User: UserDescriptor{ID: user.ID, UUID: user.UUID, Username: user.Username},
	})

	if err := h.presence.SetOnline(ctx, user.ID); err != nil {
		slog.Warn("Failed to set presence online", "userID", user.ID, "error", err)
	}

	h.dispatcher.Publish(ctx, Event{
		Kind:    EventUserOnline,
		ActorID: user.ID,
		Payload: UserStatusPayload{UserID: user.ID, Username: user.Username},
	})

	slog.Info("User authenticated", "clientID", c.id, "userID", user.ID, "username", user.Username)
	return nil
}

// refreshPresence renews the session's presence key. Called from the pong
// handler, on the connection's read goroutine, so the TTL outlives any
// session that keeps answering pings.
func (h *Hub) refreshPresence(c *Client) {
	if !c.authenticated() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := h.presence.SetOnline(ctx, c.session.ID); err != nil {
		slog.Warn("Failed to refresh presence", "userID", c.session.ID, "error", err)
	}
}

// disconnect tears down whatever session the client held. The session is
// removed from the registry before the offline event is dispatched, so the
// disconnecting user can never be in their own offline audience. Called
// exactly once, from the client's readPump teardown, for every way a
// connection can end.
func (h *Hub) disconnect(c *Client) {
	c.closeSendChannel()

	if !c.authenticated() {
		slog.Debug("Unauthenticated client disconnected", "clientID", c.id)
		return
	}

	userID := c.session.ID
	if !h.registry.Unregister(userID, c) {
		// Superseded by a newer authentication; the replacement session
		// owns the registry entry and the presence state now.
		slog.Debug("Ghost connection torn down", "clientID", c.id, "userID", userID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := h.presence.SetOffline(ctx, userID); err != nil {
		slog.Warn("Failed to set presence offline", "userID", userID, "error", err)
	}

	h.dispatcher.Publish(ctx, Event{
		Kind:    EventUserOffline,
		ActorID: userID,
		Payload: UserStatusPayload{UserID: userID},
	})

	slog.Info("User disconnected", "clientID", c.id, "userID", userID)
}
