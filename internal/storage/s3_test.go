package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func testS3Config(endpoint string) S3Config {
	return S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}
}

func TestNewS3Storage(t *testing.T) {
	// LocalStack-like endpoint, never dialed during construction.
	s, err := NewS3Storage(t.TempDir(), testS3Config("http://localhost:4566"))
	if err != nil {
		t.Fatalf("new s3 storage: %v", err)
	}

	if s.bucket != "test-bucket" {
		t.Errorf("bucket = %q, want %q", s.bucket, "test-bucket")
	}
	if s.region != "us-east-1" {
		t.Errorf("region = %q, want %q", s.region, "us-east-1")
	}
	if s.client == nil {
		t.Error("expected S3 client to be constructed")
	}
}

func TestS3Storage_InheritsTempHandling(t *testing.T) {
	s, err := NewS3Storage(t.TempDir(), testS3Config("http://localhost:4566"))
	if err != nil {
		t.Fatalf("new s3 storage: %v", err)
	}
	ctx := context.Background()

	path, err := s.SaveTemp(ctx, "video", strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("save temp: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("unexpected temp content %q", data)
	}

	if err := s.CleanupTemp(ctx, []string{path}); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected temp file removed, stat err = %v", err)
	}
}

func TestS3Storage_SaveThumbnailUploads(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read upload body: %v", err)
		}
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s, err := NewS3Storage(t.TempDir(), testS3Config(server.URL))
	if err != nil {
		t.Fatalf("new s3 storage: %v", err)
	}

	url, err := s.SaveThumbnail(context.Background(), "job_1.png", strings.NewReader("png bytes"))
	if err != nil {
		t.Fatalf("save thumbnail: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT upload, got %s", gotMethod)
	}
	// Path-style addressing against the custom endpoint.
	if gotPath != "/test-bucket/thumbnails/job_1.png" {
		t.Errorf("unexpected upload path %q", gotPath)
	}
	if gotBody != "png bytes" {
		t.Errorf("unexpected upload body %q", gotBody)
	}
	if url != "https://test-bucket.s3.us-east-1.amazonaws.com/thumbnails/job_1.png" {
		t.Errorf("unexpected thumbnail URL %q", url)
	}
}
