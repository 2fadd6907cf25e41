// Package history keeps a pruned log of collection snapshots for undo.
package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

const (
	fileName = "history.jsonl"
	fileMode = 0o600

	// DefaultMax is the number of snapshots kept when none is configured.
	DefaultMax = 50

	// undoWindow is how many recent snapshots undo considers.
	undoWindow = 5

	maxLineBytes = 64 << 20
)

// Snapshot is the full task collection at one point in time.
type Snapshot struct {
	TS    time.Time    `json:"ts"`
	Tasks []*task.Task `json:"tasks"`
}

// Save appends a snapshot of tasks taken at now and prunes the log to the
// newest keep entries. A keep below one uses DefaultMax.
func Save(storeDir string, tasks []*task.Task, keep int, now time.Time) error {
	if keep < 1 {
		keep = DefaultMax
	}
	path := filepath.Join(storeDir, fileName)

	lines, err := readLines(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading history: %w", err)
	}

	snap := Snapshot{TS: now, Tasks: tasks}
	if snap.Tasks == nil {
		snap.Tasks = []*task.Task{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	lines = append(lines, data)
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}

	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), fileMode); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}

// List returns up to limit snapshots, newest first. A limit of zero or less
// returns all of them. Unreadable lines are skipped.
func List(storeDir string, limit int) ([]Snapshot, error) {
	lines, err := readLines(filepath.Join(storeDir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var out []Snapshot
	for i := len(lines) - 1; i >= 0; i-- {
		var s Snapshot
		if json.Unmarshal(lines[i], &s) != nil {
			continue
		}
		now := s.TS
		for _, t := range s.Tasks {
			task.Normalize(t, now)
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// UndoCandidate picks the snapshot undo should restore from snaps (newest
// first): the newest of the last five whose tasks differ from current, or
// failing that the second newest. ok is false when there is nothing to
// restore.
func UndoCandidate(snaps []Snapshot, current []*task.Task) (Snapshot, bool) {
	cur := fingerprint(current)
	for i, s := range snaps {
		if i == undoWindow {
			break
		}
		if !bytes.Equal(fingerprint(s.Tasks), cur) {
			return s, true
		}
	}
	if len(snaps) > 1 {
		return snaps[1], true
	}
	return Snapshot{}, false
}

// Equal reports whether two collections hold the same tasks with the same
// content, regardless of order.
func Equal(a, b []*task.Task) bool {
	return bytes.Equal(fingerprint(a), fingerprint(b))
}

// fingerprint is the JSON encoding of tasks ordered by ID. Task files carry
// no collection order, so order must not count as a difference.
func fingerprint(tasks []*task.Task) []byte {
	sorted := make([]*task.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	data, err := json.Marshal(sorted)
	if err != nil {
		return nil
	}
	return data
}

func readLines(path string) ([][]byte, error) {
	f, err := os.Open(path) //nolint:gosec // path from trusted store dir
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		lines = append(lines, bytes.Clone(scanner.Bytes()))
	}
	return lines, scanner.Err()
}
