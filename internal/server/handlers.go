package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/videogen/videogen-api/internal/job"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   *job.Service
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *job.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Root handles GET / requests with a liveness payload.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, RootResponse{Message: "VideoGen AI backend is running."})
}

// Generate handles POST /api/generate requests.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeFailure(w, "invalid JSON body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeFailure(w, err.Error())
		return
	}

	created, err := h.service.CreateJob(r.Context(), job.CreateJobInput{
		Prompt:          req.Prompt,
		AspectRatio:     req.AspectRatio,
		Resolution:      req.Resolution,
		Duration:        req.Duration,
		BackgroundMusic: req.BackgroundMusic,
	})
	if err != nil {
		// Provider and configuration failures surface their own text.
		writeFailure(w, err.Error())
		return
	}

	writeSuccess(w, GenerateData{JobID: created.ID})
}

// Status handles GET /api/status/{job_id} requests. Each call reconciles the
// persisted job against the provider before answering.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")

	current, err := h.service.CheckStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeFailure(w, "Job not found")
			return
		}
		h.logger.Error("status check failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeFailure(w, err.Error())
		return
	}

	writeSuccess(w, current.Payload())
}

// History handles GET /api/history requests, newest jobs first.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.History(r.Context())
	if err != nil {
		h.logger.Error("failed to list jobs",
			slog.String("error", err.Error()),
		)
		writeFailure(w, err.Error())
		return
	}

	payloads := make([]job.Payload, 0, len(jobs))
	for _, j := range jobs {
		payloads = append(payloads, j.Payload())
	}

	writeSuccess(w, payloads)
}

// Delete handles DELETE /api/video/{video_id} requests.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("video_id")

	if err := h.service.Delete(r.Context(), videoID); err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeFailure(w, "Job not found")
			return
		}
		h.logger.Error("failed to delete job",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()),
		)
		writeFailure(w, err.Error())
		return
	}

	writeSuccess(w, nil)
}

// writeJSON writes a 200 JSON response.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeSuccess writes the success envelope.
func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, Response{Success: true, Data: data})
}

// writeFailure writes the failure envelope. The status code stays 200; the
// envelope's success flag is the error discriminator.
func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, Response{Success: false, Error: message})
}
