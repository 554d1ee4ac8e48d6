// Package ark provides an HTTP client for the BytePlus Ark video generation API.
package ark

// Status represents the provider-reported status of a generation task.
// The provider owns the vocabulary; unknown values are carried verbatim.
type Status string

// Known Ark task statuses.
const (
	StatusGenerating Status = "generating"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// IsTerminalSuccess returns true if the status reports a finished task whose
// output is ready to be collected.
func (s Status) IsTerminalSuccess() bool {
	return s == StatusCompleted || s == StatusSucceeded
}

// SubmitInput contains the parameters for submitting a generation task.
type SubmitInput struct {
	Prompt          string
	AspectRatio     string // e.g. "16:9"
	Resolution      string // e.g. "720p"
	Duration        int    // seconds
	BackgroundMusic bool
}

// taskRequest represents the request body for the Ark task-creation endpoint.
type taskRequest struct {
	Model   string        `json:"model"`
	Content []taskContent `json:"content"`
}

// taskContent is a single content element of a task request. The generation
// parameters are encoded as command-style suffixes in the text itself.
type taskContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// taskResponse represents the response from the task-creation endpoint.
type taskResponse struct {
	ID string `json:"id"`
}

// statusResponse represents the response from the task-status endpoint.
// All fields are optional on the wire; absent fields decode as zero values
// and callers fall back to previously known state.
type statusResponse struct {
	ID      string        `json:"id,omitempty"`
	Status  string        `json:"status"`
	Content statusContent `json:"content"`
}

// statusContent is the output envelope of a status response.
type statusContent struct {
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// PollResult contains the result of polling a task's status.
type PollResult struct {
	Status       Status
	VideoURL     string // empty until the provider reports it
	ThumbnailURL string // empty unless the provider supplies one
}
