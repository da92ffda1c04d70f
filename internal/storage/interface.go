// Package storage persists blobs under slash-separated keys.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// Metadata is stored next to a blob.
type Metadata struct {
	ContentType string            `json:"contentType,omitempty"`
	Version     string            `json:"version,omitempty"`
	LoadID      string            `json:"loadId,omitempty"`
	Source      string            `json:"source,omitempty"`
	LoadedAt    time.Time         `json:"loadedAt,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// FileInfo describes a stored blob.
type FileInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Storage is a key/blob store. Implementations can be local filesystem, S3, GCS, etc.
type Storage interface {
	// Put stores content at key, replacing any previous content
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error

	// Get returns the content at key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo returns the size, checksum and metadata of key
	GetInfo(ctx context.Context, key string) (*FileInfo, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys starting with prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}
