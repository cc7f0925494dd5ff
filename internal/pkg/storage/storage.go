package storage

import (
	"context"
	"io"
)

// Storage defines the minimal interface for document storage backends.
type Storage interface {
	// Save stores a document under key and returns where it was written.
	Save(ctx context.Context, key string, reader io.Reader) (string, error)

	// Exists reports whether key is already taken.
	Exists(ctx context.Context, key string) (bool, error)
}

// FileInfo contains stored document metadata
type FileInfo struct {
	Key      string
	Size     int64
	Location string
}
