package output

import (
	"bytes"
	"testing"

	"tasklist/internal/task"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		task task.Task
		want string
	}{
		{task.Task{ID: 1, Title: "Walk the dog"}, "   1  [ ] Walk the dog\n"},
		{task.Task{ID: 12, Title: "Buy milk", Completed: true}, "  12  [x] Buy milk\n"},
		{task.Task{ID: 3, Title: "a\nb"}, "   3  [ ] a b\n"},
		{task.Task{ID: 4, Title: "  "}, "   4  [ ] (untitled)\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		FormatTask(&buf, tt.task)
		if got := buf.String(); got != tt.want {
			t.Errorf("FormatTask(%+v) = %q, want %q", tt.task, got, tt.want)
		}
	}
}

func TestFormatList_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatList(&buf, nil)
	if got := buf.String(); got != EmptyList+"\n" {
		t.Errorf("FormatList(nil) = %q", got)
	}
}

func TestFormatDetail(t *testing.T) {
	var buf bytes.Buffer
	FormatDetail(&buf, task.Task{ID: 7, Title: "Read", Completed: true})
	want := "id:     7\ntitle:  Read\nstatus: completed\n"
	if got := buf.String(); got != want {
		t.Errorf("FormatDetail() = %q, want %q", got, want)
	}
}
