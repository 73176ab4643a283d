package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	molterrors "github.com/arcadegarden/molt/internal/errors"
)

const manifestYAML = `arcade:
  - title: Orbit Dodger
    file: orbit-dodger.html
    tags: [space, dodge]
    generation: 0
  - title: Brick Storm
    file: brick-storm.html
    generation: 2
puzzle:
  - title: Hex Flood
    file: hex-flood.html
    generation: 0
`

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yml")
	require.NoError(t, os.WriteFile(path, []byte(manifestYAML), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	m, err := Load(writeManifest(t))
	require.NoError(t, err)

	assert.Len(t, m.Categories["arcade"], 2)
	assert.Len(t, m.Categories["puzzle"], 1)
	assert.Equal(t, 2, m.Categories["arcade"][1].Generation)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)

	cliErr := molterrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, molterrors.Resolution, cliErr.Category)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	m, err := Load(writeManifest(t))
	require.NoError(t, err)

	tests := map[string]struct {
		identifier   string
		wantCategory string
		wantFile     string
	}{
		"by title":           {identifier: "Orbit Dodger", wantCategory: "arcade", wantFile: "orbit-dodger.html"},
		"by title lowercase": {identifier: "orbit dodger", wantCategory: "arcade", wantFile: "orbit-dodger.html"},
		"by file stem":       {identifier: "hex-flood", wantCategory: "puzzle", wantFile: "hex-flood.html"},
		"by full filename":   {identifier: "brick-storm.html", wantCategory: "arcade", wantFile: "brick-storm.html"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path, category, entry, err := m.Resolve(tc.identifier)
			require.NoError(t, err)
			assert.Equal(t, tc.wantCategory, category)
			assert.Equal(t, tc.wantFile, entry.File)
			assert.Equal(t, tc.wantFile, filepath.Base(path))
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	m, err := Load(writeManifest(t))
	require.NoError(t, err)

	_, _, _, err = m.Resolve("does-not-exist")
	require.Error(t, err)

	cliErr := molterrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, molterrors.Resolution, cliErr.Category)
	assert.True(t, cliErr.Category.Fatal())
}

func TestSave_AtomicRoundTrip(t *testing.T) {
	t.Parallel()

	path := writeManifest(t)
	m, err := Load(path)
	require.NoError(t, err)

	_, _, entry, err := m.Resolve("orbit-dodger")
	require.NoError(t, err)
	entry.Generation++

	require.NoError(t, m.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	_, _, again, err := reloaded.Resolve("orbit-dodger")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Generation)

	// No temp files left behind.
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".manifest-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSave_NoPath(t *testing.T) {
	t.Parallel()

	m := &Manifest{Categories: map[string][]*Entry{}}
	err := m.Save()
	require.Error(t, err)
	assert.Equal(t, molterrors.Persistence, molterrors.AsCLIError(err).Category)
}

func TestEntryStem(t *testing.T) {
	t.Parallel()

	e := &Entry{File: "orbit-dodger.html"}
	assert.Equal(t, "orbit-dodger", e.Stem())
}
