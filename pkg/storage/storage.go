package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested document path does not exist.
var ErrNotFound = errors.New("not found")

// Storage is a key-value style document store. Paths are slash-separated,
// relative to the backend's root; each path holds one document.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, path string) (bool, error)
}
