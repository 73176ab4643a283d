package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/archive"
	"github.com/arcadegarden/molt/internal/batch"
	molterrors "github.com/arcadegarden/molt/internal/errors"
	"github.com/arcadegarden/molt/internal/molt"
	"github.com/arcadegarden/molt/internal/oracle"
	"github.com/arcadegarden/molt/internal/output"
	"github.com/arcadegarden/molt/internal/selector"
)

var batchCmd = &cobra.Command{
	Use:   "batch [artifact...]",
	Short: "Molt several artifacts in parallel",
	Long: `Molt several artifacts in parallel, bounded by max_parallel.

With explicit identifiers, exactly those artifacts run. With --auto the
candidate selector picks the batch. Each artifact's generations stay
sequential inside its own worker; the manifest is saved once at the end.

Examples:
  molt batch asteroid-drift brick-fall
  molt batch --auto --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		auto, _ := cmd.Flags().GetBool("auto")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		generations, _ := cmd.Flags().GetInt("generations")

		if len(args) == 0 && !auto {
			return molterrors.NewArgumentErrorWithUsage(
				"no artifacts given",
				"molt batch [artifact...] | molt batch --auto",
				"Pass identifiers, or --auto to let the selector pick")
		}

		cfg, m, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		if generations <= 0 {
			generations = cfg.Generations
		}

		identifiers := args
		if auto {
			for _, c := range selector.Select(m, measureLibrary(m, cfg), selectorOptions(cfg)) {
				identifiers = append(identifiers, c.Title)
			}
		}
		if len(identifiers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no eligible candidates to molt")
			return nil
		}

		orc, err := oracle.NewCommandOracle(cfg.OracleCmd)
		if err != nil {
			return err
		}
		// No spinner: parallel workers would interleave animation output.
		runner := molt.New(m, orc, archive.NewStore(cfg.ArchiveDir), cfg)

		coordinator := batch.New(m, runner, cfg)
		results, err := coordinator.Run(cmd.Context(), identifiers, molt.RunOptions{
			Generations: generations,
			DryRun:      dryRun,
		})

		printBatchResults(cmd, results)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().Bool("auto", false, "select the batch with the candidate selector")
	batchCmd.Flags().Bool("dry-run", false, "preview without writing anything")
	batchCmd.Flags().IntP("generations", "g", 0, "generation count per artifact (default from config)")
	rootCmd.AddCommand(batchCmd)
}

func printBatchResults(cmd *cobra.Command, results []batch.Result) {
	out := cmd.OutOrStdout()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", red("✗"), r.Identifier, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s: %s -> %s, %d/%d generations accepted\n",
			r.Identifier,
			output.GradeBadge(r.Report.BaselineScore, r.Report.BaselineGrade),
			output.GradeBadge(r.Report.FinalScore, r.Report.FinalGrade),
			r.Report.GenerationsSucceeded, r.Report.GenerationsAttempted)
	}
	fmt.Fprintf(out, "\n%d/%d artifacts completed\n", batch.Succeeded(results), len(results))
}
