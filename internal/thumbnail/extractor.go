// Package thumbnail extracts a still image from the first frame of a remote
// video. The video is streamed to a transient local file, decoded with
// ffmpeg, and the resulting frame is handed to storage. Transient files are
// removed on every exit path.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/videogen/videogen-api/internal/storage"
)

// Static errors for thumbnail extraction.
var (
	// ErrDownloadFailed is returned when the video cannot be downloaded.
	ErrDownloadFailed = errors.New("thumbnail: video download failed")
	// ErrNoFrame is returned when ffmpeg produced no frame, e.g. for an
	// empty or undecodable video.
	ErrNoFrame = errors.New("thumbnail: no frame extracted")
)

// Extractor grabs the first frame of a remote video and stores it.
type Extractor interface {
	// Extract downloads the video at videoURL, decodes its first frame, and
	// stores it as <jobID>.png, returning the stored location.
	Extract(ctx context.Context, videoURL, jobID string) (string, error)
}

// FFmpegExtractor implements Extractor using the ffmpeg CLI.
type FFmpegExtractor struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	httpClient *http.Client
	store      storage.Storage
}

// Option configures an FFmpegExtractor.
type Option func(*FFmpegExtractor)

// WithFFmpegPath sets the path to the ffmpeg binary.
func WithFFmpegPath(path string) Option {
	return func(e *FFmpegExtractor) {
		e.ffmpegPath = path
	}
}

// WithHTTPClient sets a custom HTTP client for video downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(e *FFmpegExtractor) {
		e.httpClient = c
	}
}

// NewFFmpegExtractor creates a new FFmpegExtractor backed by the given storage.
func NewFFmpegExtractor(store storage.Storage, opts ...Option) *FFmpegExtractor {
	e := &FFmpegExtractor{
		ffmpegPath: "ffmpeg",
		httpClient: &http.Client{Timeout: 60 * time.Second},
		store:      store,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract downloads the video, decodes the first frame with ffmpeg, and
// stores the frame via storage.SaveThumbnail. Both the downloaded video and
// the intermediate frame file are removed before returning, on success and
// failure alike.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoURL, jobID string) (string, error) {
	videoPath, err := e.download(ctx, videoURL)
	if err != nil {
		return "", err
	}

	framePath := videoPath + ".png"
	defer func() {
		_ = e.store.CleanupTemp(context.WithoutCancel(ctx), []string{videoPath, framePath})
	}()

	if err := e.extractFirstFrame(ctx, videoPath, framePath); err != nil {
		return "", err
	}

	frame, err := os.Open(framePath) // #nosec G304 - path derives from our own temp file
	if err != nil {
		return "", fmt.Errorf("thumbnail: open frame: %w", err)
	}
	defer func() { _ = frame.Close() }()

	url, err := e.store.SaveThumbnail(ctx, jobID+".png", frame)
	if err != nil {
		return "", fmt.Errorf("thumbnail: store frame: %w", err)
	}

	return url, nil
}

// download streams the video to a transient file and returns its path.
func (e *FFmpegExtractor) download(ctx context.Context, videoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrDownloadFailed, err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	path, err := e.store.SaveTemp(ctx, "video", resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	return path, nil
}

// extractFirstFrame runs ffmpeg to decode a single frame from the video.
func (e *FFmpegExtractor) extractFirstFrame(ctx context.Context, videoPath, framePath string) error {
	args := []string{
		"-y",            // Overwrite output file without asking
		"-i", videoPath, // Input file
		"-frames:v", "1", // Output a single frame
		framePath, // Output image
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrNoFrame, msg)
	}

	// ffmpeg can exit zero without writing a frame for zero-frame inputs.
	info, err := os.Stat(framePath)
	if err != nil || info.Size() == 0 {
		return ErrNoFrame
	}

	return nil
}
