// Package molt runs the generational molting loop: score a baseline, ask
// the rewrite oracle for an improved artifact, verify the rewrite preserves
// the behavioral contract and does not regress quality, then accept it in
// place or roll back. Every decision lands in a pipeline report that always
// reflects ground truth; a run with zero accepted generations is a valid,
// fully-reported result, not an exception.
package molt

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arcadegarden/molt/internal/archive"
	"github.com/arcadegarden/molt/internal/config"
	"github.com/arcadegarden/molt/internal/contract"
	molterrors "github.com/arcadegarden/molt/internal/errors"
	"github.com/arcadegarden/molt/internal/manifest"
	"github.com/arcadegarden/molt/internal/oracle"
	"github.com/arcadegarden/molt/internal/scoring"
)

// ProgressIndicator shows activity during the blocking oracle call.
// Implementations must tolerate Stop without a prior Start.
type ProgressIndicator interface {
	Start(message string)
	Stop()
}

// Orchestrator drives molt runs for artifacts resolved through a manifest.
// One orchestrator handles one artifact at a time; different artifacts may
// run in parallel orchestrators as long as they share no manifest save.
type Orchestrator struct {
	manifest *manifest.Manifest
	oracle   oracle.Oracle
	archive  *archive.Store
	cfg      *config.Configuration
	out      io.Writer
	progress ProgressIndicator
	verbose  bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOutput directs verbose run narration to w.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithVerbose enables per-generation narration.
func WithVerbose(verbose bool) Option {
	return func(o *Orchestrator) { o.verbose = verbose }
}

// WithProgress attaches a progress indicator for oracle calls.
func WithProgress(p ProgressIndicator) Option {
	return func(o *Orchestrator) { o.progress = p }
}

// New creates an Orchestrator with the given collaborators.
func New(m *manifest.Manifest, orc oracle.Oracle, store *archive.Store, cfg *config.Configuration, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		manifest: m,
		oracle:   orc,
		archive:  store,
		cfg:      cfg,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunOptions controls one molt run.
type RunOptions struct {
	// Generations is the target attempt count; zero falls back to the
	// configured default.
	Generations int
	// DryRun previews the loop: oracle calls and scoring happen, but
	// nothing is written, archived, or persisted.
	DryRun bool
	// Strict requires exact tuned-constant values to survive.
	Strict bool
	// SaveManifest persists generation-counter bumps at the end of the
	// run. Batch callers that own the manifest save pass false.
	SaveManifest bool
}

// Run executes the molt state machine for one artifact. It returns the
// pipeline report; the report is also persisted to the archive unless the
// run is a dry run. Resolution failures are fatal and produce no report.
func (o *Orchestrator) Run(ctx context.Context, identifier string, opts RunOptions) (*Report, error) {
	path, category, entry, err := o.manifest.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	baselineData, err := os.ReadFile(path)
	if err != nil {
		return nil, molterrors.WrapWithMessage(err, molterrors.Resolution,
			fmt.Sprintf("reading artifact %s", path),
			"Check that the manifest's file entries match the library on disk")
	}

	generations := opts.Generations
	if generations <= 0 {
		generations = o.cfg.Generations
	}

	baseline := scoring.ScoreWithBands(string(baselineData), o.cfg.Bands())
	o.logf("Baseline: %d/100 (%s), %d bytes", baseline.Total, baseline.Grade, len(baselineData))

	report := &Report{
		Artifact:      entry.Title,
		Category:      category,
		DryRun:        opts.DryRun,
		BaselineScore: baseline.Total,
		BaselineGrade: baseline.Grade,
	}

	for gen := 1; gen <= generations; gen++ {
		rec := o.attemptGeneration(ctx, path, entry, gen, opts)
		report.Timeline = append(report.Timeline, rec)
		report.GenerationsAttempted++
		if rec.Status == StatusSuccess {
			report.GenerationsSucceeded++
		}
		o.logf("Generation %d [%s]: %s (%d -> %d)", gen, rec.Focus, rec.Status, rec.ScoreBefore, rec.ScoreAfter)
	}

	finalData, err := os.ReadFile(path)
	if err != nil {
		return nil, molterrors.WrapWithMessage(err, molterrors.Persistence,
			fmt.Sprintf("re-reading artifact %s after run", path))
	}
	final := scoring.ScoreWithBands(string(finalData), o.cfg.Bands())

	report.FinalScore = final.Total
	report.FinalGrade = final.Grade
	report.TotalDelta = final.Total - baseline.Total
	report.CompletedAt = time.Now().UTC()

	if !opts.DryRun {
		if _, err := o.archive.WriteReport(entry.Stem(), report); err != nil {
			return nil, err
		}
		if opts.SaveManifest {
			if err := o.manifest.Save(); err != nil {
				return nil, err
			}
		}
	}
	return report, nil
}

// attemptGeneration runs one pass of the per-generation state machine:
// scored -> oracle-invoked -> {parsed, oracle-failed} -> {verified-pass,
// verified-fail} -> {accepted, rejected}. A rejected or failed attempt
// leaves the on-disk artifact byte-identical to its pre-attempt state.
func (o *Orchestrator) attemptGeneration(ctx context.Context, path string, entry *manifest.Entry, gen int, opts RunOptions) GenerationRecord {
	focus := FocusFor(gen)
	rec := GenerationRecord{Generation: gen, Focus: focus.Name}

	source, err := os.ReadFile(path)
	if err != nil {
		rec.Status = StatusFailed
		rec.Reason = fmt.Sprintf("reading artifact: %v", err)
		return rec
	}
	src := string(source)

	before := scoring.ScoreWithBands(src, o.cfg.Bands())
	rec.ScoreBefore = before.Total
	rec.ScoreAfter = before.Total
	rec.SizeBefore = len(src)
	rec.SizeAfter = len(src)

	ctr := contract.Extract(src)
	prompt := BuildPrompt(src, ctr, focus)
	timeout := o.cfg.OracleTimeoutFor(len(src))

	if o.progress != nil {
		o.progress.Start(fmt.Sprintf("Generation %d: consulting oracle (%s focus)", gen, focus.Name))
	}
	reply, err := o.oracle.Invoke(ctx, prompt, timeout)
	if o.progress != nil {
		o.progress.Stop()
	}
	if err != nil {
		// Timeout, empty reply, transport failure: all the same recoverable
		// oracle-failed state. The artifact is untouched; the run continues.
		rec.Status = StatusFailed
		rec.Reason = fmt.Sprintf("oracle: %v", err)
		return rec
	}

	candidate, ok := ExtractDocument(reply)
	if !ok {
		rec.Status = StatusFailed
		rec.Reason = "oracle reply contained no HTML document"
		return rec
	}

	after := scoring.ScoreWithBands(candidate, o.cfg.Bands())

	if opts.DryRun {
		rec.Status = StatusDryRun
		rec.ScoreAfter = after.Total
		rec.Delta = after.Total - before.Total
		rec.SizeAfter = len(candidate)
		return rec
	}

	if err := ValidateStructure(candidate); err != nil {
		rec.Status = StatusRejected
		rec.Reason = err.Error()
		return rec
	}

	verdict := contract.Verify(ctr, candidate, opts.Strict || o.cfg.StrictConstants)
	if !verdict.Passed {
		rec.Status = StatusRejected
		rec.Reason = verificationReason(verdict)
		return rec
	}

	if after.Total < before.Total {
		rec.Status = StatusRejected
		rec.Reason = fmt.Sprintf("quality regression: %d -> %d", before.Total, after.Total)
		return rec
	}

	// Accepted: archive the pre-step text, then replace atomically so a
	// crash cannot leave a half-written artifact.
	if _, err := o.archive.Snapshot(path, entry.Generation); err != nil {
		rec.Status = StatusFailed
		rec.Reason = fmt.Sprintf("archiving snapshot: %v", err)
		return rec
	}
	if err := archive.WriteFileAtomic(path, []byte(candidate)); err != nil {
		rec.Status = StatusFailed
		rec.Reason = fmt.Sprintf("writing artifact: %v", err)
		return rec
	}

	entry.Generation++
	rec.Status = StatusSuccess
	rec.ScoreAfter = after.Total
	rec.Delta = after.Total - before.Total
	rec.SizeAfter = len(candidate)
	return rec
}

// verificationReason condenses a failed verification into one line.
func verificationReason(v *contract.VerifyResult) string {
	if len(v.MissingConstants) > 0 {
		return fmt.Sprintf("verification failed: %d/%d features preserved, %d constants lost (first: %s)",
			v.Preserved, v.Total, len(v.MissingConstants), v.MissingConstants[0].Name)
	}
	if len(v.Missing) > 0 {
		return fmt.Sprintf("verification failed: %d/%d features preserved (first missing: %s)",
			v.Preserved, v.Total, v.Missing[0].ID)
	}
	return fmt.Sprintf("verification failed: ratio %.2f below threshold", v.PreservationRatio)
}

// logf prints run narration when verbose mode is on.
func (o *Orchestrator) logf(format string, args ...any) {
	if o.verbose && o.out != nil {
		fmt.Fprintf(o.out, format+"\n", args...)
	}
}
