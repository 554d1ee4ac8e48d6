package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // The HTTP surface is open; mirror the permissive CORS policy
	},
}

// Handler upgrades job-status connections and tracks them in the hub.
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// JobStatus handles GET /ws/job/{job_id}. The connection is registered for
// the job and then only read from: inbound messages are discarded, the read
// loop exists purely to detect disconnection. Pushes happen through the hub
// when the reconciler reports a terminal state.
func (h *Handler) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if jobID == "" {
		http.Error(w, "job ID is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	h.hub.Register(jobID, conn)
	h.logger.Info("websocket connected",
		slog.String("job_id", jobID),
	)

	defer func() {
		h.hub.Unregister(jobID, conn)
		_ = conn.Close()
		h.logger.Info("websocket disconnected",
			slog.String("job_id", jobID),
		)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error",
					slog.String("job_id", jobID),
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}
}
