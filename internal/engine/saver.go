package engine

import (
	"context"
	"log/slog"
	"sync"

	"tasklist/internal/store"
	"tasklist/internal/task"
)

// saver is a single-writer queue in front of the store.
// At most one write is in flight. Snapshots enqueued while a write is in
// flight collapse into one pending snapshot, so the last write to finish
// always carries the latest state.
type saver struct {
	st  store.Store
	key string
	log *slog.Logger

	// ctx is passed to every write; abort cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending []task.Task
	queued  uint64        // generation of the newest enqueued snapshot
	settled uint64        // generation of the newest attempted write
	notify  chan struct{} // closed and replaced whenever settled advances
	failed  uint64        // count of failed writes

	kick chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newSaver(st store.Store, key string, log *slog.Logger) *saver {
	ctx, cancel := context.WithCancel(context.Background())
	s := &saver{
		ctx:    ctx,
		cancel: cancel,
		st:     st,
		key:    key,
		log:    log,
		notify: make(chan struct{}),
		kick:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// enqueue schedules tasks to be written. It never blocks on the store.
func (s *saver) enqueue(tasks []task.Task) {
	s.mu.Lock()
	s.pending = tasks
	s.queued++
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *saver) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case <-s.kick:
			s.drain()
		}
	}
}

func (s *saver) drain() {
	for {
		s.mu.Lock()
		if s.settled == s.queued {
			s.mu.Unlock()
			return
		}
		snapshot, gen := s.pending, s.queued
		s.pending = nil
		s.mu.Unlock()

		err := s.write(snapshot)

		s.mu.Lock()
		s.settled = gen
		if err != nil {
			s.failed++
		}
		close(s.notify)
		s.notify = make(chan struct{})
		s.mu.Unlock()
	}
}

func (s *saver) write(tasks []task.Task) error {
	data, err := task.Encode(tasks)
	if err != nil {
		s.log.Error("save failed", "key", s.key, "error", err)
		return err
	}
	if err := s.st.Set(s.ctx, s.key, data); err != nil {
		s.log.Error("save failed", "key", s.key, "error", err)
		return err
	}
	s.log.Debug("saved", "key", s.key, "tasks", len(tasks), "bytes", len(data))
	return nil
}

// flush waits until every snapshot enqueued before the call has been
// attempted, or ctx is done.
func (s *saver) flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.queued
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.settled >= target {
			s.mu.Unlock()
			return nil
		}
		ch := s.notify
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *saver) failures() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// abort cancels the write in flight, if any, and every later write.
func (s *saver) abort() {
	s.cancel()
}

// stop ends the writer goroutine. Pending snapshots not yet picked up are
// discarded; call flush first to persist them. stop waits for a write in
// flight to return, or for ctx to be done.
func (s *saver) stop(ctx context.Context) error {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		select {
		case <-s.done:
		default:
			return ctx.Err()
		}
	}
	s.cancel()
	return nil
}
