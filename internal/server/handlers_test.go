package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/videogen/videogen-api/internal/ark"
	"github.com/videogen/videogen-api/internal/job"
	"github.com/videogen/videogen-api/internal/ws"
)

// mockArkClient implements ark.Client for testing.
type mockArkClient struct {
	mock.Mock
}

func (m *mockArkClient) Submit(ctx context.Context, input ark.SubmitInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *mockArkClient) Poll(ctx context.Context, taskID string) (ark.PollResult, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(ark.PollResult), args.Error(1)
}

type testEnv struct {
	router   http.Handler
	repo     *job.MemoryRepository
	provider *mockArkClient
}

// newTestEnv builds a full router over a memory repository. When withProvider
// is false, the service behaves as if the Ark API key were not configured.
func newTestEnv(t *testing.T, withProvider bool) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := job.NewMemoryRepository()
	hub := ws.NewHub(logger)

	provider := &mockArkClient{}
	var client ark.Client
	if withProvider {
		client = provider
	}

	svc := job.NewService(repo, client, nil, hub, logger)
	handlers := NewHandlers(svc, logger)
	wsHandler := ws.NewHandler(hub, logger)
	router := NewRouter(handlers, wsHandler, logger, DefaultConfig())

	return &testEnv{router: router, repo: repo, provider: provider}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestRoot(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VideoGen AI backend is running.", resp.Message)
}

func TestGenerate_Success(t *testing.T) {
	env := newTestEnv(t, true)
	env.provider.On("Submit", mock.Anything, mock.Anything).Return("job_1", nil)

	rec, resp := doJSON(t, env.router, http.MethodPost, "/api/generate", GenerateRequest{
		Prompt:      "a cat surfing",
		AspectRatio: "16:9",
		Resolution:  "720p",
		Duration:    5,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "job_1", data["jobId"])

	persisted, err := env.repo.FindByID(context.Background(), "job_1")
	require.NoError(t, err)
	assert.Equal(t, ark.StatusGenerating, persisted.Status)
	assert.Empty(t, persisted.VideoURL)
}

func TestGenerate_APIKeyNotConfigured(t *testing.T) {
	env := newTestEnv(t, false)

	rec, resp := doJSON(t, env.router, http.MethodPost, "/api/generate", GenerateRequest{
		Prompt:      "a cat surfing",
		AspectRatio: "16:9",
		Resolution:  "720p",
		Duration:    5,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Ark API key not configured.", resp.Error)

	// No provider call, no persisted job
	env.provider.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	jobs, err := env.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestGenerate_ValidationFailure(t *testing.T) {
	env := newTestEnv(t, true)

	_, resp := doJSON(t, env.router, http.MethodPost, "/api/generate", GenerateRequest{
		AspectRatio: "16:9",
		Resolution:  "720p",
		Duration:    5,
	})

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	env.provider.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestGenerate_ProviderError(t *testing.T) {
	env := newTestEnv(t, true)
	env.provider.On("Submit", mock.Anything, mock.Anything).
		Return("", assert.AnError)

	rec, resp := doJSON(t, env.router, http.MethodPost, "/api/generate", GenerateRequest{
		Prompt:      "a cat surfing",
		AspectRatio: "16:9",
		Resolution:  "720p",
		Duration:    5,
	})

	require.Equal(t, http.StatusOK, rec.Code, "failures keep the 200 + envelope convention")
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestStatus_NotFound(t *testing.T) {
	env := newTestEnv(t, true)

	_, resp := doJSON(t, env.router, http.MethodGet, "/api/status/missing", nil)

	assert.False(t, resp.Success)
	assert.Equal(t, "Job not found", resp.Error)
	env.provider.AssertNotCalled(t, "Poll", mock.Anything, mock.Anything)
}

func TestStatus_ReconcilesTerminalSuccess(t *testing.T) {
	env := newTestEnv(t, true)

	seed := job.New("job_2", job.CreateJobInput{Prompt: "a cat surfing", AspectRatio: "16:9", Resolution: "720p", Duration: 5})
	require.NoError(t, env.repo.Save(context.Background(), seed))

	env.provider.On("Poll", mock.Anything, "job_2").Return(ark.PollResult{
		Status:       ark.StatusSucceeded,
		VideoURL:     "http://x/v.mp4",
		ThumbnailURL: "http://x/t.png",
	}, nil)

	_, resp := doJSON(t, env.router, http.MethodGet, "/api/status/job_2", nil)

	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "job_2", data["id"])
	assert.Equal(t, "succeeded", data["status"])
	assert.Equal(t, "http://x/v.mp4", data["videoUrl"])
	assert.Equal(t, "http://x/t.png", data["thumbnailUrl"])

	persisted, err := env.repo.FindByID(context.Background(), "job_2")
	require.NoError(t, err)
	assert.Equal(t, ark.StatusSucceeded, persisted.Status)
}

func TestStatus_PayloadRendersEmptyStringsNotNull(t *testing.T) {
	env := newTestEnv(t, true)

	seed := job.New("job_3", job.CreateJobInput{Prompt: "p"})
	require.NoError(t, env.repo.Save(context.Background(), seed))

	env.provider.On("Poll", mock.Anything, "job_3").Return(ark.PollResult{Status: ark.StatusRunning}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/status/job_3", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `"videoUrl":""`)
	assert.Contains(t, body, `"thumbnailUrl":""`)
	assert.NotContains(t, body, "null")
}

func TestHistory_NewestFirst(t *testing.T) {
	env := newTestEnv(t, true)

	older := job.New("job_old", job.CreateJobInput{Prompt: "first"})
	require.NoError(t, env.repo.Save(context.Background(), older))

	newer := job.New("job_new", job.CreateJobInput{Prompt: "second"})
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)
	require.NoError(t, env.repo.Save(context.Background(), newer))

	_, resp := doJSON(t, env.router, http.MethodGet, "/api/history", nil)

	require.True(t, resp.Success)
	items, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "job_new", first["id"])
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t, true)

	seed := job.New("job_4", job.CreateJobInput{Prompt: "p"})
	require.NoError(t, env.repo.Save(context.Background(), seed))

	_, resp := doJSON(t, env.router, http.MethodDelete, "/api/video/job_4", nil)
	assert.True(t, resp.Success)

	// Gone from subsequent history calls
	_, history := doJSON(t, env.router, http.MethodGet, "/api/history", nil)
	items, ok := history.Data.([]any)
	require.True(t, ok)
	assert.Empty(t, items)

	_, resp = doJSON(t, env.router, http.MethodDelete, "/api/video/job_4", nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "Job not found", resp.Error)
}
