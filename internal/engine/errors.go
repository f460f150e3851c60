package engine

import "errors"

var (
	// ErrNotReady is returned by mutations before Load has completed.
	ErrNotReady = errors.New("task list not loaded")

	// ErrAlreadyLoaded is returned when Load is called more than once.
	ErrAlreadyLoaded = errors.New("task list already loaded")
)
