// Package audit provides structured event logging for system operations.
// Events are stored as a JSON Lines (JSONL) file in the data directory, so
// a backup carries the journal of the system it was taken from.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/anchore/anchore-ctl/internal/errors"
)

// EventType classifies a system event.
type EventType string

const (
	EventBackup  EventType = "backup"
	EventRestore EventType = "restore"
	EventError   EventType = "error"
)

// Operation names recorded with events.
const (
	OpBackup  = "backup"
	OpRestore = "restore"
)

// FileName is the event log file inside the data directory.
const FileName = "system.events.jsonl"

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Operation string    `json:"operation"`

	// Path is the archive written by a backup or read by a restore.
	Path string `json:"path,omitempty"`
	// Roots are the trees a backup captured.
	Roots []string `json:"roots,omitempty"`
	// Size is the archive size in bytes.
	Size int64 `json:"size,omitempty"`
	// Target is the root a restore extracted into.
	Target string `json:"target,omitempty"`
	// Kind is the error kind of a failed operation.
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// Summary renders the event's payload on one line.
func (e Event) Summary() string {
	switch e.Type {
	case EventBackup:
		s := e.Path
		if e.Size > 0 {
			s += " (" + humanize.Bytes(uint64(e.Size)) + ")"
		}
		if len(e.Roots) > 0 {
			s += " roots: " + strings.Join(e.Roots, ", ")
		}
		return s
	case EventRestore:
		return e.Path + " -> " + e.Target
	case EventError:
		if e.Details != "" {
			return e.Kind + ": " + e.Details
		}
		return e.Kind
	}
	return e.Details
}

// Logger writes and reads system events.
// Events are stored in {dataDir}/system.events.jsonl.
type Logger struct {
	dataDir string
}

// NewLogger creates a new audit logger rooted at dataDir.
func NewLogger(dataDir string) *Logger {
	return &Logger{dataDir: dataDir}
}

// Path returns the path to the event log.
func (l *Logger) Path() string {
	return filepath.Join(l.dataDir, FileName)
}

// Log appends an event to the log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// RecordBackup logs a completed backup.
func (l *Logger) RecordBackup(path string, roots []string, size int64) error {
	return l.Log(Event{Type: EventBackup, Operation: OpBackup, Path: path, Roots: roots, Size: size})
}

// RecordRestore logs a completed restore of source into target.
func (l *Logger) RecordRestore(source, target string) error {
	return l.Log(Event{Type: EventRestore, Operation: OpRestore, Path: source, Target: target})
}

// RecordFailure logs a failed operation with the kind and message of err.
func (l *Logger) RecordFailure(operation string, err error) error {
	event := Event{Type: EventError, Operation: operation, Kind: errors.KindOf(err).String()}
	if err != nil {
		event.Details = err.Error()
	}
	return l.Log(event)
}

// Events reads all events in chronological order.
func (l *Logger) Events() ([]Event, error) {
	f, err := os.Open(l.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}
