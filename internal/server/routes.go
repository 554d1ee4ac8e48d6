package server

import (
	"log/slog"
	"net/http"

	"github.com/videogen/videogen-api/internal/ws"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, wsHandler *ws.Handler, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	// Register routes with method-based patterns (Go 1.22+)
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("POST /api/generate", h.Generate)
	mux.HandleFunc("GET /api/status/{job_id}", h.Status)
	mux.HandleFunc("GET /api/history", h.History)
	mux.HandleFunc("DELETE /api/video/{video_id}", h.Delete)
	mux.HandleFunc("GET /ws/job/{job_id}", wsHandler.JobStatus)

	// Apply middleware chain
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
