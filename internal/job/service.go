package job

import (
	"context"
	"errors"
	"log/slog"

	"github.com/videogen/videogen-api/internal/ark"
)

// ErrProviderNotConfigured is returned by CreateJob when the service was
// started without an Ark API key. The message is the exact client-facing
// text the frontend expects.
var ErrProviderNotConfigured = errors.New("Ark API key not configured.")

// ThumbnailExtractor grabs the first frame of a remote video and stores it,
// returning the stored thumbnail location.
type ThumbnailExtractor interface {
	Extract(ctx context.Context, videoURL, jobID string) (string, error)
}

// Notifier delivers a one-shot job payload to the live connection registered
// for the job, if any. Delivery is fire-and-forget.
type Notifier interface {
	Notify(jobID string, payload Payload)
}

// CreateJobInput contains the parameters for a new generation request.
type CreateJobInput struct {
	Prompt          string
	AspectRatio     string
	Resolution      string
	Duration        int
	BackgroundMusic bool
}

// Service orchestrates job creation and status reconciliation. It submits
// generation requests to the provider, persists job state, and on each status
// check merges the provider-reported task state into the persisted job,
// notifying the live connection when the task reaches terminal success.
type Service struct {
	repo     Repository
	provider ark.Client // nil when the API key is not configured
	thumbs   ThumbnailExtractor
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a new Service. The provider may be nil when the Ark API
// key is not configured; in that case CreateJob returns
// ErrProviderNotConfigured and status checks skip polling.
func NewService(repo Repository, provider ark.Client, thumbs ThumbnailExtractor, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		provider: provider,
		thumbs:   thumbs,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateJob submits a generation task to the provider and persists the
// resulting job in "generating" state. Provider failures are surfaced to the
// caller without writing a job.
func (s *Service) CreateJob(ctx context.Context, input CreateJobInput) (*Job, error) {
	if s.provider == nil {
		s.logger.Error("generation request rejected: Ark API key not configured")
		return nil, ErrProviderNotConfigured
	}

	taskID, err := s.provider.Submit(ctx, ark.SubmitInput{
		Prompt:          input.Prompt,
		AspectRatio:     input.AspectRatio,
		Resolution:      input.Resolution,
		Duration:        input.Duration,
		BackgroundMusic: input.BackgroundMusic,
	})
	if err != nil {
		s.logger.Error("provider submit failed",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	newJob := New(taskID, input)
	if err := s.repo.Save(ctx, newJob); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", newJob.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("job created",
		slog.String("job_id", newJob.ID),
		slog.String("aspect_ratio", input.AspectRatio),
		slog.String("resolution", input.Resolution),
		slog.Int("duration", input.Duration),
	)

	return newJob, nil
}

// CheckStatus reconciles the persisted job with the provider-owned task.
// It polls the provider, and when the task has reached terminal success with
// a video URL it updates the job, resolves a thumbnail, persists, and
// notifies the live connection. Poll failures are logged and swallowed: the
// previously persisted state is returned so a transient provider outage
// never fails the caller's status check.
func (s *Service) CheckStatus(ctx context.Context, jobID string) (*Job, error) {
	current, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if s.provider == nil {
		return current, nil
	}

	result, err := s.provider.Poll(ctx, jobID)
	if err != nil {
		s.logger.Error("provider poll failed, returning persisted state",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return current, nil
	}

	// Fall back to previously known values for fields the provider omitted.
	status := result.Status
	if status == "" {
		status = current.Status
	}
	videoURL := result.VideoURL
	if videoURL == "" {
		videoURL = current.VideoURL
	}
	thumbnailURL := result.ThumbnailURL
	if thumbnailURL == "" {
		thumbnailURL = current.ThumbnailURL
	}

	// Only merge when the task finished successfully and produced a video.
	if !status.IsTerminalSuccess() || videoURL == "" {
		return current, nil
	}

	changed := current.Status != status ||
		current.VideoURL != videoURL ||
		current.ThumbnailURL != thumbnailURL

	current.Status = status
	current.VideoURL = videoURL
	current.ThumbnailURL = thumbnailURL

	if current.ThumbnailURL == "" && s.thumbs != nil {
		thumb, err := s.thumbs.Extract(ctx, videoURL, jobID)
		if err != nil {
			// Soft failure: the job completes without a thumbnail.
			s.logger.Error("thumbnail extraction failed",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
		} else {
			current.ThumbnailURL = thumb
			changed = true
		}
	}

	if err := s.repo.Save(ctx, current); err != nil {
		s.logger.Error("failed to update job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if changed {
		s.logger.Info("job reconciled to terminal state",
			slog.String("job_id", jobID),
			slog.String("status", string(current.Status)),
			slog.String("video_url", current.VideoURL),
		)
	}

	if s.notifier != nil {
		s.notifier.Notify(jobID, current.Payload())
	}

	return current, nil
}

// History returns all jobs, newest first.
func (s *Service) History(ctx context.Context) ([]*Job, error) {
	return s.repo.List(ctx)
}

// Delete removes a job by ID. Returns ErrJobNotFound if it does not exist.
func (s *Service) Delete(ctx context.Context, jobID string) error {
	if err := s.repo.Delete(ctx, jobID); err != nil {
		return err
	}
	s.logger.Info("job deleted",
		slog.String("job_id", jobID),
	)
	return nil
}
