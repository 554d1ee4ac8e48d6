// Package server provides the HTTP surface for the VideoGen API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// GenerateRequest is the HTTP request body for submitting a generation job.
type GenerateRequest struct {
	// Prompt is the free-text generation instruction.
	Prompt string `json:"prompt" validate:"required"`
	// AspectRatio is the requested aspect ratio, e.g. "16:9".
	AspectRatio string `json:"aspectRatio" validate:"required"`
	// Resolution is the requested resolution, e.g. "720p".
	Resolution string `json:"resolution" validate:"required"`
	// Duration is the requested video length in seconds.
	Duration int `json:"duration" validate:"required,min=1"`
	// BackgroundMusic indicates whether background music was requested.
	BackgroundMusic bool `json:"backgroundMusic"`
}

// GenerateData is the data field of a successful generate response.
type GenerateData struct {
	JobID string `json:"jobId"`
}

// Response is the uniform envelope every API endpoint answers with.
// Failures are signalled through the Success/Error discriminator rather than
// HTTP status codes; every endpoint returns 200. This mirrors the contract
// the frontend was built against.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RootResponse is the liveness payload for GET /.
type RootResponse struct {
	Message string `json:"message"`
}
