// Package store defines the backend-agnostic key-value contract the task
// engine persists through. The whole task list lives in one blob under one key.
// Commands and the engine never import a database driver or SDK directly.
package store

import (
	"context"
	"errors"
)

// DefaultKey is the single key the task list blob is stored under.
const DefaultKey = "TodoApp"

// ErrUnavailable indicates the backing store cannot be reached.
var ErrUnavailable = errors.New("store unavailable")

// Store is a durable key-value facility.
type Store interface {
	// Get returns the value stored under key.
	// found is false (with a nil error) when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the store's resources.
	Close() error
}
