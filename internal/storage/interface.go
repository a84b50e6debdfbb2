package storage

import (
	"context"
	"io"
)

// ObjectStore is the object-storage surface the snapshot archive needs.
type ObjectStore interface {
	// Put writes an object.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Get opens an object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the keys under prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if an object exists.
	Exists(ctx context.Context, key string) (bool, error)
}
