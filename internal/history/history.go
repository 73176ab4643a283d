// Package history records past molt runs and score gates so operators can
// review what the engine has done to the library over time. History is a
// capped JSON log in the state directory; it is advisory, never load-bearing,
// so logging failures degrade to a warning instead of failing commands.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arcadegarden/molt/internal/archive"
)

// Filename is the history log's name inside the state directory.
const Filename = "history.json"

// Entry is one recorded command invocation.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Artifact   string    `json:"artifact,omitempty"`
	ScoreAfter int       `json:"score_after,omitempty"`
	Delta      int       `json:"delta,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	Duration   string    `json:"duration,omitempty"`
}

// History is the decoded history file.
type History struct {
	Entries []Entry `json:"entries"`
}

// Load reads the history file from stateDir. A missing file is an empty
// history, not an error.
func Load(stateDir string) (*History, error) {
	data, err := os.ReadFile(filepath.Join(stateDir, Filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}
	return &h, nil
}

// Save writes the history file atomically, creating stateDir if needed.
func Save(stateDir string, h *History) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	data = append(data, '\n')

	if err := archive.WriteFileAtomic(filepath.Join(stateDir, Filename), data); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}
