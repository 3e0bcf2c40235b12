package realtime

import (
	"sync"
)

// Registry is the process-wide mapping from authenticated user ID to the
// live connection carrying that user's session. Pure bookkeeping: no I/O,
// no error returns, absence is a normal lookup miss.
//
// At most one connection is tracked per user. Registering a user who
// already has one replaces the mapping (last-authenticated-wins); the
// superseded connection is not closed, it just stops being reachable here.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uint]*Client),
	}
}

// Register maps userID to client, replacing any previous mapping.
func (r *Registry) Register(userID uint, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[userID] = client
}

// Unregister removes the mapping for userID, but only while client is still
// the one mapped. A superseded connection tearing down late must not evict
// its replacement. Reports whether a mapping was removed.
func (r *Registry) Unregister(userID uint, client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.clients[userID]; ok && current == client {
		delete(r.clients, userID)
		return true
	}
	return false
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID uint) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[userID]
	return client, ok
}

// LookupMany returns the clients for the subset of userIDs that are
// currently registered.
func (r *Registry) LookupMany(userIDs []uint) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(userIDs))
	for _, id := range userIDs {
		if client, ok := r.clients[id]; ok {
			clients = append(clients, client)
		}
	}
	return clients
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
