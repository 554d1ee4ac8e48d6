package ark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/videogen/videogen-api/internal/job/id"
)

// Static errors for Ark client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key is available at construction.
	ErrAPIKeyNotSet = errors.New("ark: API key is not set")
	// ErrTaskIDRequired is returned when the task ID is not provided.
	ErrTaskIDRequired = errors.New("ark: task ID is required")
	// ErrRequestFailed is returned when the provider answers with a non-200 status.
	// The wrapped message carries the raw provider response text.
	ErrRequestFailed = errors.New("ark: request failed")
)

// Client defines the interface for interacting with the Ark generation API.
type Client interface {
	// Submit creates a generation task and returns the provider's task ID.
	Submit(ctx context.Context, input SubmitInput) (taskID string, err error)

	// Poll fetches the current status of a task.
	Poll(ctx context.Context, taskID string) (PollResult, error)
}

// HTTPClient is the HTTP implementation of the Ark Client interface.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithAPIKey sets the API key for authentication.
func WithAPIKey(key string) ClientOption {
	return func(hc *HTTPClient) {
		hc.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the Ark task endpoint.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// WithModel sets the generation model identifier.
func WithModel(model string) ClientOption {
	return func(hc *HTTPClient) {
		hc.model = model
	}
}

// NewClient creates a new Ark HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable ARK_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:    "https://ark.ap-southeast.bytepluses.com/api/v3/contents/generations/tasks",
		model:      "seedance-1-0-lite-t2v-250428",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv("ARK_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// Submit creates a generation task and returns the provider's task ID.
// Provider failures are surfaced directly to the caller; there is no retry.
// If the provider answers 200 without a task ID, a fallback ID is synthesized
// from the current timestamp so the job can still be tracked locally.
func (c *HTTPClient) Submit(ctx context.Context, input SubmitInput) (string, error) {
	// The Ark text-to-video API takes a single free-text instruction with
	// parameters appended as command-style suffixes. backgroundMusic maps
	// onto the camerafixed flag for compatibility with the deployed provider
	// contract.
	text := fmt.Sprintf("%s --ratio %s --resolution %s --duration %d --camerafixed %t",
		input.Prompt,
		input.AspectRatio,
		input.Resolution,
		input.Duration,
		input.BackgroundMusic,
	)

	reqBody := taskRequest{
		Model: c.model,
		Content: []taskContent{
			{Type: "text", Text: text},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ark: marshal request: %w", err)
	}

	var resp taskResponse
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL, bodyBytes, &resp); err != nil {
		return "", err
	}

	if resp.ID == "" {
		return id.Fallback(), nil
	}

	return resp.ID, nil
}

// Poll fetches the current status of a task. Absent response fields come back
// as empty strings; callers keep their previously known values in that case.
func (c *HTTPClient) Poll(ctx context.Context, taskID string) (PollResult, error) {
	if taskID == "" {
		return PollResult{}, ErrTaskIDRequired
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, taskID)

	var resp statusResponse
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return PollResult{}, err
	}

	return PollResult{
		Status:       Status(resp.Status),
		VideoURL:     resp.Content.VideoURL,
		ThumbnailURL: resp.Content.ThumbnailURL,
	}, nil
}

// doRequest performs a single HTTP request against the Ark API.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("ark: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ark: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ark: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("ark: unmarshal response: %w", err)
		}
	}

	return nil
}
