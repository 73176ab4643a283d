package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcadegarden/molt/internal/config"
	"github.com/arcadegarden/molt/internal/manifest"
)

// ToyArtifact is a small but structurally complete artifact used across
// orchestrator and CLI tests.
const ToyArtifact = `<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width">
<title>Toy Runner</title>
<style>#hud { transition: opacity 0.2s; }</style>
</head>
<body>
<canvas id="game"></canvas>
<div id="hud"></div>
<script>
const GRAVITY = 0.98;
const ctx = document.getElementById('game').getContext('2d');
function loop() { requestAnimationFrame(loop); }
document.addEventListener('keydown', onKey);
localStorage.setItem('toy-save', '1');
</script>
</body>
</html>`

// ImprovedArtifact is a rewrite of ToyArtifact that preserves its full
// behavioral surface and scores at least as well.
const ImprovedArtifact = `<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width">
<title>Toy Runner</title>
<style>
#hud { transition: opacity 0.2s; animation: pulse 1s infinite; }
@keyframes pulse { to { opacity: 0.6; } }
body { background: linear-gradient(#112, #224); }
</style>
</head>
<body>
<canvas id="game"></canvas>
<div id="hud">score: 0 - press any key to start</div>
<script>
const GRAVITY = 0.98;
const ctx = document.getElementById('game').getContext('2d');
let paused = false;
let score = 0;
function loop() { requestAnimationFrame(loop); }
function onKey(e) { if (e.key === 'p') paused = !paused; }
document.addEventListener('keydown', onKey);
document.addEventListener('click', () => { score++; });
localStorage.setItem('toy-save', '1');
Math.random();
</script>
</body>
</html>`

// WriteLibrary lays out a temp gallery: artifacts on disk plus a manifest
// that references them. Returns the manifest and the library directory.
func WriteLibrary(t *testing.T, artifacts map[string]string) (*manifest.Manifest, string) {
	t.Helper()

	dir := t.TempDir()
	categories := map[string][]*manifest.Entry{}
	for file, source := range artifacts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(source), 0o644))
		categories["arcade"] = append(categories["arcade"], &manifest.Entry{
			Title:      file,
			File:       file,
			Generation: 0,
		})
	}

	m := &manifest.Manifest{Categories: categories}
	m.SetPath(filepath.Join(dir, "manifest.yml"))
	require.NoError(t, m.Save())

	loaded, err := manifest.Load(m.Path())
	require.NoError(t, err)
	return loaded, dir
}

// TestConfig returns a validated configuration pointing all mutable state
// into the given directory.
func TestConfig(t *testing.T, dir string) *config.Configuration {
	t.Helper()

	cfg := &config.Configuration{
		ManifestPath:       filepath.Join(dir, "manifest.yml"),
		ArchiveDir:         filepath.Join(dir, "archive"),
		StateDir:           filepath.Join(dir, "state"),
		OracleCmd:          "echo {{PROMPT}}",
		OracleTimeout:      30,
		OracleTimeoutPerKB: 1,
		Generations:        3,
		MaxParallel:        2,
		MaxHistoryEntries:  100,
		Selector: config.SelectorConfig{
			Limit:    5,
			MinScore: 0,
			MaxScore: 100,
			MaxBytes: 1 << 20,
		},
	}
	require.NoError(t, config.Validate(cfg))
	return cfg
}
