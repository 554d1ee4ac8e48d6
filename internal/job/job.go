// Package job provides the video-generation Job entity, its persistence
// ports, and the status reconciliation service that keeps local job state in
// sync with the provider-owned generation task.
package job

import (
	"time"

	"github.com/videogen/videogen-api/internal/ark"
)

// Job represents a single video-generation request and its lifecycle state.
// The identifier is assigned by the provider (or synthesized locally) and is
// immutable once set. Status strings are the provider's vocabulary, stored
// verbatim.
type Job struct {
	// ID is the unique identifier for this job.
	ID string
	// Prompt is the free-text generation instruction.
	Prompt string
	// AspectRatio is the requested aspect ratio, e.g. "16:9".
	AspectRatio string
	// Resolution is the requested resolution, e.g. "720p".
	Resolution string
	// Duration is the requested video length in seconds.
	Duration int
	// BackgroundMusic indicates whether background music was requested.
	BackgroundMusic bool
	// Status is the provider-reported task status.
	Status ark.Status
	// VideoURL is the provider's video URL, empty until the task succeeds.
	VideoURL string
	// ThumbnailURL is the thumbnail location, empty until the task succeeds
	// and possibly empty afterwards if extraction failed.
	ThumbnailURL string
	// CreatedAt is when the job was created.
	CreatedAt time.Time
}

// New creates a Job in the initial "generating" state.
func New(jobID string, input CreateJobInput) *Job {
	return &Job{
		ID:              jobID,
		Prompt:          input.Prompt,
		AspectRatio:     input.AspectRatio,
		Resolution:      input.Resolution,
		Duration:        input.Duration,
		BackgroundMusic: input.BackgroundMusic,
		Status:          ark.StatusGenerating,
		CreatedAt:       time.Now().UTC(),
	}
}

// IsTerminal returns true if the job has reached a terminal success state.
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminalSuccess()
}

// Clone creates a copy of the job for safe hand-off across goroutines.
func (j *Job) Clone() *Job {
	c := *j
	return &c
}

// Payload is the client-facing representation of a Job, pushed over the
// live connection and returned by the status/history endpoints. Absent
// video/thumbnail URLs render as empty strings, never null.
type Payload struct {
	ID           string `json:"id"`
	Prompt       string `json:"prompt"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	CreatedAt    string `json:"createdAt"`
	Duration     int    `json:"duration"`
	AspectRatio  string `json:"aspectRatio"`
	Resolution   string `json:"resolution"`
	Status       string `json:"status"`
}

// Payload converts the job to its client-facing shape.
func (j *Job) Payload() Payload {
	return Payload{
		ID:           j.ID,
		Prompt:       j.Prompt,
		VideoURL:     j.VideoURL,
		ThumbnailURL: j.ThumbnailURL,
		CreatedAt:    j.CreatedAt.Format(time.RFC3339),
		Duration:     j.Duration,
		AspectRatio:  j.AspectRatio,
		Resolution:   j.Resolution,
		Status:       string(j.Status),
	}
}
