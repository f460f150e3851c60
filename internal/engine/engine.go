// Package engine owns the live task list and keeps it synchronized with a
// durable store.
//
// An Engine moves through three states: Uninitialized, Loading and Ready.
// Load is entered once; any store or parse failure during Load degrades to
// the default dataset, so a loaded engine always holds a list. Mutations are
// accepted only in Ready. Each mutation applies to the in-memory list
// synchronously and then hands a snapshot to a single-writer save queue;
// save failures are logged and never roll back the in-memory state.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"tasklist/internal/store"
	"tasklist/internal/task"
)

// State is the lifecycle state of an Engine.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Listener receives a read-only snapshot after load and after every mutation.
type Listener func([]task.Task)

// Engine is the canonical ordered task list.
type Engine struct {
	store    store.Store
	key      string
	log      *slog.Logger
	defaults func() []task.Task
	saver    *saver

	mu        sync.Mutex
	state     State
	tasks     []task.Task
	listeners map[int]Listener
	nextSub   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithKey overrides the store key (default store.DefaultKey).
func WithKey(key string) Option {
	return func(e *Engine) { e.key = key }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithDefaults replaces the seed dataset. fn must return a fresh slice.
func WithDefaults(fn func() []task.Task) Option {
	return func(e *Engine) { e.defaults = fn }
}

// New creates an engine over st. The engine starts Uninitialized; call Load.
// Close must be called to stop the save queue.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		key:       store.DefaultKey,
		log:       slog.Default(),
		defaults:  task.Defaults,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("engine", uuid.NewString())
	e.saver = newSaver(st, e.key, e.log)
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Load reads the list from the store and installs it, sorted newest first.
// An absent, unreadable, malformed or empty blob falls back to the default
// dataset. Store failures are logged, not returned; the only error is
// ErrAlreadyLoaded.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateUninitialized {
		e.mu.Unlock()
		return ErrAlreadyLoaded
	}
	e.state = StateLoading
	e.mu.Unlock()

	tasks, source := e.fetch(ctx)
	task.SortDesc(tasks)

	e.mu.Lock()
	e.tasks = tasks
	e.state = StateReady
	snapshot, listeners := e.publishLocked()
	e.mu.Unlock()

	e.log.Info("task list loaded", "source", source, "tasks", len(tasks))
	notify(listeners, snapshot)
	return nil
}

// fetch returns the list to install and where it came from.
func (e *Engine) fetch(ctx context.Context) ([]task.Task, string) {
	data, found, err := e.store.Get(ctx, e.key)
	switch {
	case err != nil:
		e.log.Warn("load failed, using defaults", "key", e.key, "error", err)
		return e.defaults(), "defaults"
	case !found:
		e.log.Debug("no stored list, using defaults", "key", e.key)
		return e.defaults(), "defaults"
	}

	decoded, err := task.Decode(data)
	if err != nil {
		e.log.Warn("load failed, using defaults", "key", e.key, "error", err)
		return e.defaults(), "defaults"
	}
	if decoded.Dropped > 0 || decoded.Repaired > 0 {
		e.log.Warn("stored list repaired",
			"key", e.key,
			"dropped", decoded.Dropped,
			"repaired", decoded.Repaired,
		)
	}
	if len(decoded.Tasks) == 0 {
		e.log.Debug("stored list empty, using defaults", "key", e.key)
		return e.defaults(), "defaults"
	}
	return decoded.Tasks, "store"
}

// Snapshot returns a copy of the current list, newest first.
func (e *Engine) Snapshot() []task.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return task.Clone(e.tasks)
}

// Lookup returns the task with the given id.
func (e *Engine) Lookup(id int) (task.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := task.IndexOf(e.tasks, id)
	if i < 0 {
		return task.Task{}, false
	}
	return e.tasks[i], true
}

// Add prepends a new task with id max+1. The bool result is false, with a
// nil error, when the title is empty or too long; nothing changes then.
func (e *Engine) Add(title string) (task.Task, bool, error) {
	title, verr := task.ValidateTitle(title)

	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return task.Task{}, false, ErrNotReady
	}
	if verr != nil {
		e.mu.Unlock()
		e.log.Debug("add ignored", "reason", verr)
		return task.Task{}, false, nil
	}

	id, ok := task.NextID(e.tasks)
	if !ok {
		e.mu.Unlock()
		e.log.Warn("add ignored", "reason", "no task ids left")
		return task.Task{}, false, nil
	}

	t := task.Task{ID: id, Title: title}
	next := make([]task.Task, 0, len(e.tasks)+1)
	next = append(next, t)
	next = append(next, e.tasks...)
	e.tasks = next
	snapshot, listeners := e.commitLocked()
	e.mu.Unlock()

	e.log.Debug("task added", "id", t.ID)
	notify(listeners, snapshot)
	return t, true, nil
}

// Toggle flips the completion flag of the task with the given id.
// Returns false, with a nil error, when no such task exists.
func (e *Engine) Toggle(id int) (bool, error) {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return false, ErrNotReady
	}
	i := task.IndexOf(e.tasks, id)
	if i < 0 {
		e.mu.Unlock()
		e.log.Debug("toggle ignored", "id", id, "reason", "not found")
		return false, nil
	}

	next := task.Clone(e.tasks)
	next[i].Completed = !next[i].Completed
	e.tasks = next
	snapshot, listeners := e.commitLocked()
	e.mu.Unlock()

	e.log.Debug("task toggled", "id", id)
	notify(listeners, snapshot)
	return true, nil
}

// Remove deletes the task with the given id.
// Returns false, with a nil error, when no such task exists.
func (e *Engine) Remove(id int) (bool, error) {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return false, ErrNotReady
	}
	i := task.IndexOf(e.tasks, id)
	if i < 0 {
		e.mu.Unlock()
		e.log.Debug("remove ignored", "id", id, "reason", "not found")
		return false, nil
	}

	next := make([]task.Task, 0, len(e.tasks)-1)
	next = append(next, e.tasks[:i]...)
	next = append(next, e.tasks[i+1:]...)
	e.tasks = next
	snapshot, listeners := e.commitLocked()
	e.mu.Unlock()

	e.log.Debug("task removed", "id", id)
	notify(listeners, snapshot)
	return true, nil
}

// Subscribe registers fn to receive snapshots. fn is called outside the
// engine's lock, on the goroutine that caused the change, and must not block.
// The returned func unregisters fn.
func (e *Engine) Subscribe(fn Listener) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// SaveFailures returns how many writes to the store have failed.
func (e *Engine) SaveFailures() uint64 {
	return e.saver.failures()
}

// Flush waits until every mutation made so far has been written to the
// store (or the write failed), or ctx is done.
func (e *Engine) Flush(ctx context.Context) error {
	return e.saver.flush(ctx)
}

// Close flushes pending saves and stops the save queue. When ctx is done
// before the store accepts the last write, that write is cancelled and
// Close returns ctx's error without waiting for the store.
// The store itself is owned by the caller and is not closed.
func (e *Engine) Close(ctx context.Context) error {
	err := e.saver.flush(ctx)
	if err != nil {
		e.saver.abort()
	}
	if stopErr := e.saver.stop(ctx); err == nil {
		err = stopErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		e.log.Warn("closed with unsaved changes", "error", err)
	}
	return err
}

// commitLocked enqueues a save of the current list and collects listeners.
// Enqueuing under the lock keeps save order equal to mutation order.
func (e *Engine) commitLocked() ([]task.Task, []Listener) {
	e.saver.enqueue(task.Clone(e.tasks))
	return e.publishLocked()
}

func (e *Engine) publishLocked() ([]task.Task, []Listener) {
	if len(e.listeners) == 0 {
		return nil, nil
	}
	listeners := make([]Listener, 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	return task.Clone(e.tasks), listeners
}

func notify(listeners []Listener, snapshot []task.Task) {
	for _, fn := range listeners {
		fn(task.Clone(snapshot))
	}
}
