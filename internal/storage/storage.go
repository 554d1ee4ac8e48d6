// Package storage provides transient file handling and thumbnail placement.
// It defines the Storage interface (port) with implementations for local disk
// and S3-hosted thumbnails.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for transient files and thumbnail placement.
// Transient files hold downloaded videos while a frame is being extracted;
// thumbnails are the durable output, stored locally or uploaded to S3.
type Storage interface {
	// SaveTemp saves data to a transient file and returns the file path.
	// The name parameter is used as a hint for the filename.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// CleanupTemp removes the specified transient files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// SaveThumbnail stores a thumbnail image under the given name and returns
	// the location clients should use: a local path for disk storage, a
	// public object URL for S3.
	SaveThumbnail(ctx context.Context, name string, data io.Reader) (url string, err error)
}
