package molt

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadegarden/molt/internal/archive"
	molterrors "github.com/arcadegarden/molt/internal/errors"
	"github.com/arcadegarden/molt/internal/oracle"
	"github.com/arcadegarden/molt/internal/testutil"
)

func newTestOrchestrator(t *testing.T, orc oracle.Oracle) (*Orchestrator, string) {
	t.Helper()

	m, dir := testutil.WriteLibrary(t, map[string]string{"toy-runner.html": testutil.ToyArtifact})
	cfg := testutil.TestConfig(t, dir)
	store := archive.NewStore(cfg.ArchiveDir)
	return New(m, orc, store, cfg), filepath.Join(dir, "toy-runner.html")
}

func TestRun_AcceptedGeneration(t *testing.T) {
	t.Parallel()

	orc := testutil.NewFakeOracle(testutil.ImprovedArtifact)
	o, path := newTestOrchestrator(t, orc)

	report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 1, SaveManifest: true})
	require.NoError(t, err)

	require.Len(t, report.Timeline, 1)
	assert.Equal(t, StatusSuccess, report.Timeline[0].Status)
	assert.Equal(t, 1, report.GenerationsSucceeded)
	assert.GreaterOrEqual(t, report.TotalDelta, 0)

	// The artifact was replaced in place.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.ImprovedArtifact, string(data))

	// The pre-step text was archived as generation 0.
	snapshot, err := os.ReadFile(filepath.Join(o.cfg.ArchiveDir, "toy-runner", "toy-runner.gen0.html"))
	require.NoError(t, err)
	assert.Equal(t, testutil.ToyArtifact, string(snapshot))

	// The generation counter was bumped and persisted.
	_, _, entry, err := o.manifest.Resolve("toy-runner")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Generation)

	// The pipeline report landed at its deterministic path.
	_, err = os.Stat(o.archive.ReportPath("toy-runner"))
	assert.NoError(t, err)
}

func TestRun_TimelineCardinality(t *testing.T) {
	t.Parallel()

	// Mixed outcomes: success, oracle failure, unparseable reply.
	orc := &testutil.FakeOracle{Script: []testutil.FakeResponse{
		{Reply: testutil.ImprovedArtifact},
		{Err: oracle.NewTimeoutError(0)},
		{Reply: "sorry, I had trouble with that"},
	}}
	o, _ := newTestOrchestrator(t, orc)

	report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 3})
	require.NoError(t, err)

	// Exactly N records regardless of how many succeed.
	require.Len(t, report.Timeline, 3)
	assert.Equal(t, 3, report.GenerationsAttempted)
	assert.Equal(t, 1, report.GenerationsSucceeded)
	assert.Equal(t, StatusSuccess, report.Timeline[0].Status)
	assert.Equal(t, StatusFailed, report.Timeline[1].Status)
	assert.Equal(t, StatusFailed, report.Timeline[2].Status)
}

func TestRun_RollbackInvariant(t *testing.T) {
	t.Parallel()

	// The rewrite drops the canvas: critical feature loss, rejected.
	gutted := `<!DOCTYPE html><html><head><title>Toy</title></head>
<body><script>
const GRAVITY = 0.98;
document.addEventListener('keydown', onKey);
localStorage.setItem('toy-save', '1');
</script></body></html>`
	orc := testutil.NewFakeOracle(gutted)
	o, path := newTestOrchestrator(t, orc)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 1})
	require.NoError(t, err)

	require.Len(t, report.Timeline, 1)
	assert.Equal(t, StatusRejected, report.Timeline[0].Status)
	assert.Zero(t, report.Timeline[0].Delta, "delta is zero by construction")

	// Byte-identical rollback.
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// No snapshot was taken for the rejected attempt.
	matches, _ := filepath.Glob(filepath.Join(o.cfg.ArchiveDir, "toy-runner", "*.gen*.html"))
	assert.Empty(t, matches)
}

func TestRun_QualityRegressionRejected(t *testing.T) {
	t.Parallel()

	// Keeps the whole contract but strips the scaffolding extras that
	// carry structure and polish points, so the score drops.
	worse := `<!DOCTYPE html><html><script>
const GRAVITY = 0.98;
const ctx = document.getElementById('game').getContext('2d');
function loop() { requestAnimationFrame(loop); }
document.addEventListener('keydown', onKey);
localStorage.setItem('toy-save', '1');
var canvas = '<canvas id="game">'; var hud = 'id="hud"'; // transition viewport
</script></html>`
	orc := testutil.NewFakeOracle(worse)
	o, _ := newTestOrchestrator(t, orc)

	report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 1})
	require.NoError(t, err)

	require.Len(t, report.Timeline, 1)
	assert.Equal(t, StatusRejected, report.Timeline[0].Status)
	assert.Contains(t, report.Timeline[0].Reason, "quality regression")
}

func TestRun_DryRunLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	orc := testutil.NewFakeOracle(testutil.ImprovedArtifact)
	o, path := newTestOrchestrator(t, orc)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 3, DryRun: true, SaveManifest: true})
	require.NoError(t, err)

	require.Len(t, report.Timeline, 3)
	for _, rec := range report.Timeline {
		assert.Equal(t, StatusDryRun, rec.Status)
	}
	assert.Equal(t, report.BaselineScore, report.FinalScore)
	assert.Zero(t, report.TotalDelta)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "dry run never writes")

	// No archive directory, no report, no manifest bump.
	_, statErr := os.Stat(o.cfg.ArchiveDir)
	assert.True(t, os.IsNotExist(statErr))
	_, _, entry, err := o.manifest.Resolve("toy-runner")
	require.NoError(t, err)
	assert.Zero(t, entry.Generation)
}

func TestRun_OracleFailureIsRecoverable(t *testing.T) {
	t.Parallel()

	orc := testutil.NewFailingOracle(oracle.ErrEmptyReply)
	o, path := newTestOrchestrator(t, orc)

	before, _ := os.ReadFile(path)

	report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 2})
	require.NoError(t, err, "oracle failure is recoverable, not fatal")

	assert.Equal(t, 2, report.GenerationsAttempted)
	assert.Zero(t, report.GenerationsSucceeded)
	for _, rec := range report.Timeline {
		assert.Equal(t, StatusFailed, rec.Status)
		assert.Contains(t, rec.Reason, "oracle")
	}

	after, _ := os.ReadFile(path)
	assert.Equal(t, before, after)
}

func TestRun_UnknownArtifactIsFatal(t *testing.T) {
	t.Parallel()

	orc := testutil.NewFakeOracle(testutil.ImprovedArtifact)
	o, _ := newTestOrchestrator(t, orc)

	report, err := o.Run(context.Background(), "no-such-artifact", RunOptions{Generations: 1})
	require.Error(t, err)
	assert.Nil(t, report, "no partial report on resolution failure")
	cliErr := molterrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, molterrors.Resolution, cliErr.Category)
	assert.Zero(t, orc.CallCount())
}

func TestRun_StrictConstantRejection(t *testing.T) {
	t.Parallel()

	require.Contains(t, testutil.ImprovedArtifact, "GRAVITY = 0.98")
	retuned := strings.Replace(testutil.ImprovedArtifact, "GRAVITY = 0.98", "GRAVITY = 0.95", 1)

	t.Run("non-strict accepts retune", func(t *testing.T) {
		t.Parallel()

		o, _ := newTestOrchestrator(t, testutil.NewFakeOracle(retuned))
		report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 1})
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, report.Timeline[0].Status)
	})

	t.Run("strict rejects retune", func(t *testing.T) {
		t.Parallel()

		o, _ := newTestOrchestrator(t, testutil.NewFakeOracle(retuned))
		report, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 1, Strict: true})
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, report.Timeline[0].Status)
		assert.Contains(t, report.Timeline[0].Reason, "GRAVITY")
	})
}

func TestRun_TimeoutScalesWithSize(t *testing.T) {
	t.Parallel()

	orc := testutil.NewFakeOracle(testutil.ImprovedArtifact)
	o, _ := newTestOrchestrator(t, orc)

	_, err := o.Run(context.Background(), "toy-runner", RunOptions{Generations: 1, DryRun: true})
	require.NoError(t, err)

	require.NotEmpty(t, orc.Calls)
	base := o.cfg.OracleTimeoutFor(0)
	assert.GreaterOrEqual(t, orc.Calls[0].Timeout, base)
}

func TestRun_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orc := testutil.NewFailingOracle(context.Canceled)
	o, _ := newTestOrchestrator(t, orc)

	report, err := o.Run(ctx, "toy-runner", RunOptions{Generations: 1})
	require.NoError(t, err, "a cancelled oracle call is an oracle failure")
	assert.Equal(t, StatusFailed, report.Timeline[0].Status)
}
