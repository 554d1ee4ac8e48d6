// Package ws implements the live-connection registry used to push job status
// updates to clients. Each job ID holds at most one connection; registering a
// second replaces the first in the registry (the evicted connection is not
// closed, cleanup happens via disconnect detection in the handler).
package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/videogen/videogen-api/internal/job"
)

// defaultSendTimeout bounds a single delivery attempt so one stalled
// connection cannot block a status-check request indefinitely.
const defaultSendTimeout = 5 * time.Second

// Compile-time check that Hub implements job.Notifier.
var _ job.Notifier = (*Hub)(nil)

// connection pairs a websocket with its own write lock. Concurrent
// reconciliations of the same job may push at the same time and the
// underlying websocket does not allow concurrent writers; serializing per
// connection keeps a stalled socket from blocking deliveries to other jobs.
type connection struct {
	writeMu sync.Mutex
	ws      *websocket.Conn
}

// Hub is a mutex-guarded registry mapping job IDs to live connections.
// It is injected into the handlers and the reconciler; there is no
// package-level instance.
type Hub struct {
	mu          sync.Mutex
	conns       map[string]*connection
	sendTimeout time.Duration
	logger      *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithSendTimeout sets the write deadline applied to each delivery attempt.
func WithSendTimeout(d time.Duration) HubOption {
	return func(h *Hub) {
		h.sendTimeout = d
	}
}

// NewHub creates a new connection registry.
func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		conns:       make(map[string]*connection),
		sendTimeout: defaultSendTimeout,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register stores the connection for the job ID, replacing any prior one.
func (h *Hub) Register(jobID string, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[jobID] = &connection{ws: ws}
}

// Unregister removes the connection for the job ID, but only if it is still
// the registered one. A connection evicted by a newer Register call must not
// remove its replacement when it later disconnects.
func (h *Hub) Unregister(jobID string, ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[jobID]; ok && c.ws == ws {
		delete(h.conns, jobID)
	}
}

// Notify delivers the payload to the connection registered for the job ID,
// if any. Delivery is fire-and-forget: failures are logged, not surfaced, and
// the connection stays registered (disconnect detection handles cleanup).
func (h *Hub) Notify(jobID string, payload job.Payload) {
	h.mu.Lock()
	conn, ok := h.conns[jobID]
	h.mu.Unlock()
	if !ok {
		return
	}

	conn.writeMu.Lock()
	defer conn.writeMu.Unlock()

	_ = conn.ws.SetWriteDeadline(time.Now().Add(h.sendTimeout))
	if err := conn.ws.WriteJSON(payload); err != nil {
		h.logger.Warn("websocket push failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	h.logger.Info("job update pushed",
		slog.String("job_id", jobID),
		slog.String("status", payload.Status),
	)
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
