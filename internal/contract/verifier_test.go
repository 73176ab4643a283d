package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	// An unmodified artifact always verifies against its own contract.
	c := Extract(toyArtifact)
	require.NotEmpty(t, c.Features)

	result := Verify(c, toyArtifact, true)

	assert.True(t, result.Passed)
	assert.Equal(t, 1.0, result.PreservationRatio)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.MissingConstants)
}

func TestVerify_EmptyContractTrivialPass(t *testing.T) {
	t.Parallel()

	c := Extract("   \n  ")

	tests := map[string]string{
		"empty candidate":     "",
		"arbitrary candidate": "<html><body>anything</body></html>",
	}

	for name, candidate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := Verify(c, candidate, true)
			assert.True(t, result.Passed)
			assert.Equal(t, 1.0, result.PreservationRatio)
		})
	}
}

func TestVerify_EmptyCandidateFails(t *testing.T) {
	t.Parallel()

	c := Extract(toyArtifact)
	result := Verify(c, "", false)

	assert.False(t, result.Passed)
	assert.Zero(t, result.PreservationRatio)
	assert.Len(t, result.Missing, len(c.Features))
}

func TestVerify_CriticalTypeVeto(t *testing.T) {
	t.Parallel()

	// Build a source with many features so dropping one storage key keeps
	// the ratio above the pass threshold.
	var sb strings.Builder
	sb.WriteString("<script>\n")
	sb.WriteString("localStorage.setItem('game-save', s);\n")
	events := []string{"keydown", "keyup", "click", "resize", "mousemove", "mousedown", "mouseup", "touchstart", "touchend", "blur", "focus"}
	for _, ev := range events {
		sb.WriteString("window.addEventListener('" + ev + "', h);\n")
	}
	sb.WriteString("</script>\n")
	source := sb.String()

	c := Extract(source)
	require.Equal(t, 1, c.Summary[TypeStorageKey])
	require.Equal(t, len(events), c.Summary[TypeEventBinding])

	// Candidate keeps every event binding but drops the save key.
	candidate := strings.ReplaceAll(source, "localStorage.setItem('game-save', s);\n", "")
	result := Verify(c, candidate, false)

	assert.GreaterOrEqual(t, result.PreservationRatio, PassThreshold,
		"ratio alone would pass")
	assert.False(t, result.Passed, "critical feature loss vetoes the pass")
	require.Len(t, result.Missing, 1)
	assert.Equal(t, TypeStorageKey, result.Missing[0].Type)
}

func TestVerify_HandlerBodyMayChange(t *testing.T) {
	t.Parallel()

	source := `<script>document.addEventListener('keydown', oldHandler);</script>`
	c := Extract(source)

	// Completely different handler wiring, same event subtype.
	candidate := `<script>
window.addEventListener('keydown', (e) => dispatch(e));
function oldHandler() {}
</script>`
	result := Verify(c, candidate, false)
	assert.True(t, result.Passed)
}

func TestVerify_ConstantModes(t *testing.T) {
	t.Parallel()

	// Scenario from the quality gate: a rewrite keeps every behavioral
	// marker but retunes GRAVITY.
	source := `<script>
document.addEventListener('keydown', onKey);
localStorage.setItem('game-save', data);
const ctx = canvas.getContext('2d');
const GRAVITY = 0.98;
</script>`
	c := Extract(source)
	require.GreaterOrEqual(t, len(c.Features), 3)
	require.Equal(t, "0.98", c.Constants["GRAVITY"])

	candidate := strings.ReplaceAll(source, "0.98", "0.95")

	relaxed := Verify(c, candidate, false)
	assert.True(t, relaxed.Passed, "name survives, non-strict passes")
	assert.Empty(t, relaxed.MissingConstants)

	strict := Verify(c, candidate, true)
	assert.False(t, strict.Passed, "value changed, strict fails")
	require.Len(t, strict.MissingConstants, 1)
	assert.Equal(t, "GRAVITY", strict.MissingConstants[0].Name)
	assert.Equal(t, "0.98", strict.MissingConstants[0].Expected)
}

func TestVerify_DroppedConstantFailsBothModes(t *testing.T) {
	t.Parallel()

	source := `<script>const TILE_SIZE = 32; window.addEventListener('resize', r);</script>`
	c := Extract(source)

	candidate := `<script>window.addEventListener('resize', r);</script>`

	for name, strict := range map[string]bool{"non-strict": false, "strict": true} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := Verify(c, candidate, strict)
			assert.False(t, result.Passed)
			require.Len(t, result.MissingConstants, 1)
			assert.Equal(t, "TILE_SIZE", result.MissingConstants[0].Name)
		})
	}
}

func TestVerify_UIElementTagSwap(t *testing.T) {
	t.Parallel()

	c := Extract(`<div id="scoreboard"></div>`)
	result := Verify(c, `<section id="scoreboard"></section>`, false)

	assert.True(t, result.Passed, "id survives a tag swap")
}

func TestVerify_RenderingSurfaceCheck(t *testing.T) {
	t.Parallel()

	c := Extract(`<script>const ctx = cv.getContext('2d');</script>`)

	tests := map[string]struct {
		candidate string
		wantPass  bool
	}{
		"reacquired elsewhere": {
			candidate: `<script>let g = document.querySelector('canvas').getContext('2d');</script>`,
			wantPass:  true,
		},
		"context dropped": {
			candidate: `<script>const el = document.createElement('div');</script>`,
			wantPass:  false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := Verify(c, tc.candidate, false)
			assert.Equal(t, tc.wantPass, result.Passed)
		})
	}
}

func TestVerify_NamedFunctionTokenOnly(t *testing.T) {
	t.Parallel()

	c := Extract(`<script>function spawnWave() {}</script>`)

	// Token presence is enough, even as a call site in a comment-free
	// different position. Renames are not detected; accepted approximation.
	result := Verify(c, `<script>const x = spawnWave;</script>`, false)
	assert.True(t, result.Passed)
}
