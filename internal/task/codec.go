package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformed indicates a blob that is not a JSON array of records.
var ErrMalformed = errors.New("malformed task list")

// Decoded is the result of decoding a persisted blob.
type Decoded struct {
	// Tasks holds the surviving records in blob order.
	Tasks []Task

	// Dropped counts entries that could not be repaired and were discarded.
	Dropped int

	// Repaired counts entries kept after fixing a field (legacy completion
	// key, over-long title, non-boolean completion flag).
	Repaired int
}

// record mirrors one persisted entry with every field left raw, so that a
// single bad field can be repaired without rejecting the whole entry.
type record struct {
	ID        json.RawMessage `json:"id"`
	Title     json.RawMessage `json:"title"`
	Completed json.RawMessage `json:"completed"`
	Complete  json.RawMessage `json:"complete"`
}

// Encode serializes tasks as a JSON array. A nil list encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode task list: %w", err)
	}
	return data, nil
}

// Decode parses a persisted blob, validating every entry.
// The top level must be a JSON array, otherwise ErrMalformed is returned.
// Entries without a positive integer id or a usable title are dropped, as
// are entries repeating an id already seen.
func Decode(data []byte) (Decoded, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		// "null" unmarshals into a nil slice without error
		return Decoded{}, fmt.Errorf("%w: not an array", ErrMalformed)
	}

	out := Decoded{Tasks: make([]Task, 0, len(raw))}
	seen := make(map[int]bool, len(raw))
	for _, entry := range raw {
		t, repaired, ok := decodeRecord(entry)
		if !ok || seen[t.ID] {
			out.Dropped++
			continue
		}
		seen[t.ID] = true
		if repaired {
			out.Repaired++
		}
		out.Tasks = append(out.Tasks, t)
	}
	return out, nil
}

func decodeRecord(entry json.RawMessage) (Task, bool, bool) {
	var r record
	if err := json.Unmarshal(entry, &r); err != nil {
		return Task{}, false, false
	}

	id, ok := parseID(r.ID)
	if !ok {
		return Task{}, false, false
	}

	var title string
	if err := json.Unmarshal(r.Title, &title); err != nil {
		return Task{}, false, false
	}
	title = NormalizeTitle(title)
	if title == "" {
		return Task{}, false, false
	}

	repaired := false
	if short := truncateTitle(title); short != title {
		title = short
		repaired = true
	}

	completed, fixed := parseCompleted(r.Completed, r.Complete)
	if fixed {
		repaired = true
	}

	return Task{ID: id, Title: title, Completed: completed}, repaired, true
}

// parseID accepts a positive integral JSON number, including integral
// floats such as 3.0.
func parseID(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		if i < 1 || i > MaxID {
			return 0, false
		}
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < 1 || f > MaxID {
		return 0, false
	}
	return int(f), true
}

// parseCompleted reads the canonical "completed" key, falling back to the
// legacy "complete" key. The second result reports whether a repair was
// needed to produce the value.
func parseCompleted(completed, legacy json.RawMessage) (bool, bool) {
	if len(completed) > 0 {
		var b bool
		if err := json.Unmarshal(completed, &b); err == nil {
			return b, false
		}
		return false, true
	}
	if len(legacy) > 0 {
		var b bool
		if err := json.Unmarshal(legacy, &b); err == nil {
			return b, true
		}
		return false, true
	}
	return false, false
}
