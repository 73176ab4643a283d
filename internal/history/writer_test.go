package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmptyHistory(t *testing.T) {
	t.Parallel()

	h, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, h.Entries)
}

func TestLoad_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename), []byte("not json"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestWriter_AppendAndReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewWriter(dir, 100)

	w.LogRun("asteroid-drift", 64, 12, "success", 3*time.Second)
	w.LogGate("brick-fall", 41, false)

	h, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, "run", h.Entries[0].Command)
	assert.Equal(t, "asteroid-drift", h.Entries[0].Artifact)
	assert.Equal(t, 12, h.Entries[0].Delta)
	assert.Equal(t, "score", h.Entries[1].Command)
	assert.Equal(t, "fail", h.Entries[1].Outcome)
}

func TestWriter_PrunesOldestFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewWriter(dir, 3)

	for i := 1; i <= 5; i++ {
		w.LogEntry(Entry{Command: "run", Artifact: artifactName(i)})
	}

	h, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, h.Entries, 3)
	assert.Equal(t, artifactName(3), h.Entries[0].Artifact)
	assert.Equal(t, artifactName(5), h.Entries[2].Artifact)
}

func TestWriter_ZeroLimitDisablesPruning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewWriter(dir, 0)

	for i := 0; i < 10; i++ {
		w.LogEntry(Entry{Command: "run"})
	}

	h, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, h.Entries, 10)
}

func TestSave_CreatesStateDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "state")
	require.NoError(t, Save(dir, &History{Entries: []Entry{{Command: "run"}}}))

	h, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, h.Entries, 1)
}

func artifactName(i int) string {
	return fmt.Sprintf("artifact-%d", i)
}
