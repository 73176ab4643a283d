package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadegarden/molt/internal/scoring"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Generations)
	assert.Equal(t, 300, cfg.OracleTimeout)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.Equal(t, 5, cfg.Selector.Limit)
	assert.Equal(t, 65536, cfg.Selector.MaxBytes)
	assert.False(t, cfg.StrictConstants)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
generations: 5
strict_constants: true
selector:
  min_score: 10
  max_score: 60
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Generations)
	assert.True(t, cfg.StrictConstants)
	assert.Equal(t, 10, cfg.Selector.MinScore)
	assert.Equal(t, 60, cfg.Selector.MaxScore)
	// Untouched values keep their defaults.
	assert.Equal(t, 300, cfg.OracleTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("generations: 5\n"), 0o644))

	t.Setenv("MOLT_GENERATIONS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Generations)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"zero generations":     "generations: 0\n",
		"too many generations": "generations: 50\n",
		"bad oracle template":  "oracle_cmd: \"claude -p\"\n",
		"negative timeout":     "oracle_timeout: -1\n",
		"inverted score band":  "selector:\n  min_score: 80\n  max_score: 20\n",
		"zero size ceiling":    "selector:\n  max_bytes: 0\n",
		"unsorted grade bands": "grade_bands:\n  - {min: 40, grade: D}\n  - {min: 90, grade: S}\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestOracleTimeoutFor(t *testing.T) {
	t.Parallel()

	cfg := &Configuration{OracleTimeout: 300, OracleTimeoutPerKB: 4}

	tests := map[string]struct {
		sizeBytes int
		want      time.Duration
	}{
		"tiny artifact":  {sizeBytes: 512, want: 300 * time.Second},
		"10KiB artifact": {sizeBytes: 10 * 1024, want: 340 * time.Second},
		"zero size":      {sizeBytes: 0, want: 300 * time.Second},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, cfg.OracleTimeoutFor(tc.sizeBytes))
		})
	}
}

func TestBands_FallsBackToDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Configuration{}
	assert.Equal(t, scoring.DefaultGradeBands, cfg.Bands())

	custom := []scoring.GradeBand{{Min: 0, Grade: "X"}}
	cfg.GradeBands = custom
	assert.Equal(t, custom, cfg.Bands())
}
