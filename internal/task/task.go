// Package task defines the task record, the compiled-in default dataset and
// the blob codec used to persist a whole task list under a single key.
package task

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTitleLen is the maximum title length in characters (code points).
const MaxTitleLen = 30

// MaxID is the largest id a task may carry. Decode drops larger ids, so
// NextID never hands one out.
const MaxID = math.MaxInt32

var (
	// ErrEmptyTitle indicates a title that is empty after trimming.
	ErrEmptyTitle = errors.New("title required")

	// ErrTitleTooLong indicates a title longer than MaxTitleLen characters.
	ErrTitleTooLong = errors.New("title too long")
)

// Task represents a single task item.
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NormalizeTitle trims surrounding whitespace and applies NFC normalization,
// so that a title's length is counted the same way regardless of how the
// input was composed.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// ValidateTitle normalizes title and checks it against the title rules.
// Returns the normalized title on success.
func ValidateTitle(title string) (string, error) {
	title = NormalizeTitle(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// truncateTitle cuts title to at most MaxTitleLen characters.
func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLen {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:MaxTitleLen]))
}

// NextID returns the id for a new task: the highest existing id plus one,
// or 1 for an empty list. ok is false once the highest id is MaxID.
func NextID(tasks []Task) (id int, ok bool) {
	max := 0
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	if max >= MaxID {
		return 0, false
	}
	return max + 1, true
}

// SortDesc sorts tasks in place by descending id (newest first).
func SortDesc(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ID > tasks[j].ID
	})
}

// Clone returns a copy of tasks that shares no backing array with the input.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
