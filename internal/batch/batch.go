// Package batch fans a molt run out over several artifacts at once.
// Different artifacts share no mutable state except the manifest, so the
// coordinator owns the only load and the only save: workers run against
// in-memory manifest entries with per-run persistence disabled, and the
// manifest is written exactly once after every worker has finished.
// Independent load-mutate-save cycles per worker would lose updates.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arcadegarden/molt/internal/config"
	"github.com/arcadegarden/molt/internal/manifest"
	"github.com/arcadegarden/molt/internal/molt"
)

// Result is the outcome for one artifact in a batch. A failed run carries
// its error here rather than aborting the batch; sibling artifacts are
// independent.
type Result struct {
	Identifier string
	Report     *molt.Report
	Err        error
}

// Coordinator runs molt pipelines for many artifacts with bounded
// parallelism.
type Coordinator struct {
	manifest *manifest.Manifest
	runner   *molt.Orchestrator
	cfg      *config.Configuration
}

// New creates a coordinator around a shared orchestrator. The orchestrator
// must have been built without a progress indicator: concurrent workers
// would interleave spinner output.
func New(m *manifest.Manifest, runner *molt.Orchestrator, cfg *config.Configuration) *Coordinator {
	return &Coordinator{manifest: m, runner: runner, cfg: cfg}
}

// Run molts every identifier, at most cfg.MaxParallel at a time. Each
// artifact's generations stay strictly sequential inside its own worker.
// Results preserve input order. The manifest is saved once, after all
// workers complete, unless the batch is a dry run; a save failure is
// returned alongside the (complete) results.
func (c *Coordinator) Run(ctx context.Context, identifiers []string, opts molt.RunOptions) ([]Result, error) {
	// Workers must not each persist the shared manifest.
	opts.SaveManifest = false

	results := make([]Result, len(identifiers))
	g := new(errgroup.Group)
	limit := c.cfg.MaxParallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, id := range identifiers {
		g.Go(func() error {
			report, err := c.runner.Run(ctx, id, opts)
			results[i] = Result{Identifier: id, Report: report, Err: err}
			return nil
		})
	}
	// Workers never return errors through the group; failures live in
	// their Result slot.
	_ = g.Wait()

	if !opts.DryRun {
		if err := c.manifest.Save(); err != nil {
			return results, err
		}
	}
	return results, nil
}

// Succeeded counts results that completed without a run-level error.
func Succeeded(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
