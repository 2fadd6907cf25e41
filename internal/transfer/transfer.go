// Package transfer moves whole task collections between devices: JSON export
// files, compact share payloads and QR codes.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Version is the envelope format version written by Export.
const Version = 2

// Envelope is the export file and share payload document.
type Envelope struct {
	V     int          `json:"v"`
	Tasks []*task.Task `json:"tasks"`
}

// DefaultFilename returns the export file name for the given day.
func DefaultFilename(d date.Date) string {
	return "fivetodo-" + d.String() + ".json"
}

// Export writes tasks as an indented envelope.
func Export(w io.Writer, tasks []*task.Task) error {
	env := Envelope{V: Version, Tasks: tasks}
	if env.Tasks == nil {
		env.Tasks = []*task.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// Import reads an envelope and returns its tasks, normalized with unique IDs.
// The document must be an object with a "tasks" array; other fields,
// including the version, are ignored.
func Import(r io.Reader, now time.Time) ([]*task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	return decodeEnvelope(data, now)
}

func decodeEnvelope(data []byte, now time.Time) ([]*task.Task, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalidPayload("not a JSON object: %v", err)
	}
	raw, ok := doc["tasks"]
	if !ok {
		return nil, invalidPayload("missing \"tasks\"")
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, invalidPayload("\"tasks\" is not an array")
	}

	var tasks []*task.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, invalidPayload("decoding tasks: %v", err)
	}
	return task.NormalizeAll(tasks, now), nil
}

func invalidPayload(format string, args ...any) *clierr.Error {
	return clierr.Newf(clierr.InvalidPayload, "invalid task data: "+format, args...)
}
