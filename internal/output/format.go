// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasklist/internal/task"
)

// EmptyList is printed by list when there are no tasks.
const EmptyList = "no tasks"

// FormatTask formats a task line for the list command.
// Format: "{ID:>4}  [{x| }] {TITLE}\n"
func FormatTask(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "%4d  [%s] %s\n", t.ID, checkbox(t.Completed), normalizeTitle(t.Title))
}

// FormatList formats every task in order, or EmptyList.
func FormatList(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyList)
		return
	}
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// FormatDetail formats a single task for the show command.
func FormatDetail(w io.Writer, t task.Task) {
	status := "open"
	if t.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "id:     %d\n", t.ID)
	fmt.Fprintf(w, "title:  %s\n", normalizeTitle(t.Title))
	fmt.Fprintf(w, "status: %s\n", status)
}

func checkbox(done bool) string {
	if done {
		return "x"
	}
	return " "
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
