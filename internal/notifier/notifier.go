// Package notifier maintains the live delivery channels used to push alert
// events to connected users. The registry is ephemeral process state: it is
// rebuilt empty on restart and is never a source of durable truth.
package notifier

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curagenie/health-api/pkg/metrics"
)

// Conn is the minimal channel surface the registry needs. Satisfied by
// *websocket.Conn from gorilla, which permits at most one concurrent writer;
// the registry serializes all writes to a connection through a per-client
// mutex so callers never need to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// client pairs a connection with the mutex that guards its write stream.
type client struct {
	writeMu sync.Mutex
	conn    Conn
}

func (c *client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Registry maps each user identity to at most one live channel. Connecting a
// second channel for the same identity replaces the first (last-writer-wins).
// All operations are safe for concurrent use, including overlapping Send and
// Broadcast calls targeting the same connection.
type Registry struct {
	mu      sync.RWMutex
	conns   map[uuid.UUID]*client
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewRegistry(logger *zerolog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		conns:   make(map[uuid.UUID]*client),
		logger:  logger,
		metrics: m,
	}
}

// Connect registers conn for userID, effective immediately. Any previous
// channel for the same identity is closed and evicted.
func (r *Registry) Connect(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = &client{conn: conn}
	n := len(r.conns)
	r.mu.Unlock()

	if prev != nil {
		prev.conn.Close()
	}
	if r.metrics != nil {
		r.metrics.ActiveChannels.Set(float64(n))
	}
	r.logger.Debug().Str("user_id", userID.String()).Msg("channel connected")
}

// Disconnect removes the channel for userID if conn is still the registered
// one. A no-op when absent or already replaced by a newer connection.
func (r *Registry) Disconnect(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	current, ok := r.conns[userID]
	if ok && (conn == nil || current.conn == conn) {
		delete(r.conns, userID)
	}
	n := len(r.conns)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ActiveChannels.Set(float64(n))
	}
}

// Send delivers event to userID's channel if one is registered, silently
// dropping it otherwise. Fire-and-forget: delivery errors are logged, the
// failed channel is evicted, and nothing propagates to the caller.
func (r *Registry) Send(userID uuid.UUID, event interface{}) {
	r.mu.RLock()
	cl, ok := r.conns[userID]
	r.mu.RUnlock()

	if !ok {
		if r.metrics != nil {
			r.metrics.EventsDropped.Inc()
		}
		return
	}

	if err := cl.writeJSON(event); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("realtime delivery failed")
		r.Disconnect(userID, cl.conn)
		if r.metrics != nil {
			r.metrics.EventsDropped.Inc()
		}
		return
	}

	if r.metrics != nil {
		r.metrics.EventsDelivered.Inc()
	}
}

// Broadcast delivers event to every registered channel, best effort.
func (r *Registry) Broadcast(event interface{}) {
	r.mu.RLock()
	targets := make(map[uuid.UUID]*client, len(r.conns))
	for id, c := range r.conns {
		targets[id] = c
	}
	r.mu.RUnlock()

	for id, cl := range targets {
		if err := cl.writeJSON(event); err != nil {
			r.logger.Warn().Err(err).Str("user_id", id.String()).Msg("broadcast delivery failed")
			r.Disconnect(id, cl.conn)
		}
	}
}

// Count returns the number of live channels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
