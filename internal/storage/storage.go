// Package storage provides media asset storage capabilities.
// It defines the Store interface (port) for hexagonal architecture and
// implementations for local disk and S3 storage.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrAssetNotFound is returned when an asset id does not resolve to a
// stored file.
var ErrAssetNotFound = errors.New("asset not found")

// Asset describes one stored media file.
type Asset struct {
	// ID is the storage key, safe to use in URLs and filenames.
	ID string `json:"id"`
	// Name is the original upload filename.
	Name string `json:"name"`
	// Size is the stored size in bytes.
	Size int64 `json:"size"`
	// URL is the public location for remote backends, empty for local disk.
	URL string `json:"url,omitempty"`
}

// Store defines the interface for media asset storage.
// Uploaded clips are addressed by generated id; the analysis pipeline
// resolves an id to a local file it can hand to ffmpeg.
type Store interface {
	// Save persists an uploaded asset and returns its descriptor.
	// The name parameter is the original filename; only its extension
	// influences the storage key.
	Save(ctx context.Context, name string, data io.Reader) (Asset, error)

	// Open returns a reader for the stored asset.
	// The caller is responsible for closing the returned ReadCloser.
	// Returns ErrAssetNotFound if the asset does not exist.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// LocalPath materializes the asset on local disk and returns its path,
	// downloading from the remote backend when needed.
	// Returns ErrAssetNotFound if the asset does not exist.
	LocalPath(ctx context.Context, id string) (string, error)

	// Delete removes an asset. Removing an absent asset is not an error.
	Delete(ctx context.Context, id string) error
}
