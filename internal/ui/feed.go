package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/task"
)

// feed hands engine snapshots to the bubbletea loop. It holds at most one
// pending snapshot; a newer one replaces it, so the engine never blocks.
type feed struct {
	ch   chan []task.Task
	done chan struct{}
	once sync.Once
	stop func()
}

func newFeed() *feed {
	return &feed{
		ch:   make(chan []task.Task, 1),
		done: make(chan struct{}),
	}
}

// push is the engine listener.
func (f *feed) push(tasks []task.Task) {
	for {
		select {
		case f.ch <- tasks:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// wait returns a command that delivers the next snapshot.
func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case tasks := <-f.ch:
			return snapshotMsg(tasks)
		case <-f.done:
			return nil
		}
	}
}

func (f *feed) close() {
	f.once.Do(func() {
		if f.stop != nil {
			f.stop()
		}
		close(f.done)
	})
}
