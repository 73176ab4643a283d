package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/archive"
	"github.com/arcadegarden/molt/internal/history"
	"github.com/arcadegarden/molt/internal/molt"
	"github.com/arcadegarden/molt/internal/oracle"
	"github.com/arcadegarden/molt/internal/output"
	"github.com/arcadegarden/molt/internal/progress"
)

var runCmd = &cobra.Command{
	Use:   "run <artifact>",
	Short: "Run generational improvement on one artifact",
	Long: `Run generational improvement on one artifact.

Each generation extracts the artifact's behavioral contract, asks the
rewrite oracle for an improved version with a rotating focus, and accepts
the rewrite only when every behavior survives and the quality score does
not regress. The previous version is archived before every accepted write.

Examples:
  # Three generations (the configured default)
  molt run asteroid-drift

  # Preview what the oracle would produce without writing anything
  molt run asteroid-drift --dry-run

  # Require exact tuned-constant values to survive
  molt run asteroid-drift --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runMolt,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// addRunFlags registers the molt-run flag set. The root command carries the
// same flags so 'molt <artifact>' works as shorthand for 'molt run'.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("generations", "g", 0, "generation count (default from config)")
	cmd.Flags().Bool("dry-run", false, "preview without writing, archiving, or bumping counters")
	cmd.Flags().Bool("strict", false, "require exact tuned-constant values to survive")
	cmd.Flags().BoolP("verbose", "v", false, "narrate each generation step")
	cmd.Flags().Bool("no-progress", false, "disable the oracle-call spinner")
}

// runMolt is the shared implementation behind 'molt run' and the bare
// 'molt <artifact>' form.
func runMolt(cmd *cobra.Command, args []string) error {
	cfg, m, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	generations, _ := cmd.Flags().GetInt("generations")
	if generations <= 0 {
		generations = cfg.Generations
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	strict, _ := cmd.Flags().GetBool("strict")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	orc, err := oracle.NewCommandOracle(cfg.OracleCmd)
	if err != nil {
		return err
	}

	opts := []molt.Option{
		molt.WithOutput(cmd.OutOrStdout()),
		molt.WithVerbose(verbose),
	}
	if !noProgress {
		caps := progress.DetectTerminalCapabilities()
		opts = append(opts, molt.WithProgress(progress.NewSpinner(os.Stdout, caps)))
	}

	runner := molt.New(m, orc, archive.NewStore(cfg.ArchiveDir), cfg, opts...)

	started := time.Now()
	report, err := runner.Run(cmd.Context(), args[0], molt.RunOptions{
		Generations:  generations,
		DryRun:       dryRun,
		Strict:       strict,
		SaveManifest: true,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	output.PrintRunHeader(out, report.Artifact, report.Category, generations)
	for _, rec := range report.Timeline {
		output.PrintGenerationVerdict(out, rec)
	}
	output.PrintRunSummary(out, report)

	if !dryRun {
		writer := history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries)
		writer.LogRun(report.Artifact, report.FinalScore, report.TotalDelta, runOutcome(report), time.Since(started))
	}

	// A structurally complete run exits 0 even when every generation was
	// rejected; the report is the result.
	return nil
}

// runOutcome condenses a report into one history word.
func runOutcome(report *molt.Report) string {
	switch {
	case report.GenerationsSucceeded == report.GenerationsAttempted:
		return "success"
	case report.GenerationsSucceeded > 0:
		return "partial"
	default:
		return "no-change"
	}
}
