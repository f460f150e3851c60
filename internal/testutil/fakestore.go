// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
)

// FakeStore is an in-memory implementation of store.Store for testing.
type FakeStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes [][]byte
	gate   chan struct{}

	// Error injection for testing
	GetErr   error
	SetErr   error
	CloseErr error

	// Closed reports whether Close was called.
	Closed bool
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{data: make(map[string][]byte)}
}

// Put seeds a raw value under key, bypassing the write log.
func (f *FakeStore) Put(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
}

// Value returns the raw value under key.
func (f *FakeStore) Value(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Writes returns every value passed to a successful Set, in order.
func (f *FakeStore) Writes() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}

// Stall makes every following Set block until Release is called.
func (f *FakeStore) Stall() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Release unblocks writers held by Stall.
func (f *FakeStore) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// SetError changes the error returned by Set.
func (f *FakeStore) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetErr = err
}

// Get implements store.Store.
func (f *FakeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, false, f.GetErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements store.Store.
func (f *FakeStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	v := append([]byte(nil), value...)
	f.data[key] = v
	f.writes = append(f.writes, v)
	return nil
}

// Close implements store.Store.
func (f *FakeStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return f.CloseErr
}
