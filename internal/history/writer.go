package history

import (
	"fmt"
	"os"
	"time"
)

// Writer appends history entries with automatic pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain; 0 disables
	// pruning.
	MaxEntries int
}

// NewWriter creates a history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{StateDir: stateDir, MaxEntries: maxEntries}
}

// LogEntry appends one entry: load, append, prune, save. Errors are
// non-fatal; they go to stderr and never fail the command that ran.
func (w *Writer) LogEntry(entry Entry) {
	if err := w.logEntry(entry); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to log history: %v\n", err)
	}
}

func (w *Writer) logEntry(entry Entry) error {
	h, err := Load(w.StateDir)
	if err != nil {
		return err
	}

	h.Entries = append(h.Entries, entry)
	if w.MaxEntries > 0 && len(h.Entries) > w.MaxEntries {
		excess := len(h.Entries) - w.MaxEntries
		h.Entries = h.Entries[excess:]
	}

	return Save(w.StateDir, h)
}

// LogRun records one molt run outcome.
func (w *Writer) LogRun(artifact string, scoreAfter, delta int, outcome string, duration time.Duration) {
	w.LogEntry(Entry{
		Timestamp:  time.Now(),
		Command:    "run",
		Artifact:   artifact,
		ScoreAfter: scoreAfter,
		Delta:      delta,
		Outcome:    outcome,
		Duration:   duration.Round(time.Millisecond).String(),
	})
}

// LogGate records one score-gate check.
func (w *Writer) LogGate(artifact string, score int, passed bool) {
	outcome := "pass"
	if !passed {
		outcome = "fail"
	}
	w.LogEntry(Entry{
		Timestamp:  time.Now(),
		Command:    "score",
		Artifact:   artifact,
		ScoreAfter: score,
		Outcome:    outcome,
	})
}
