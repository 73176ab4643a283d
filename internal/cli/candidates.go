package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/config"
	"github.com/arcadegarden/molt/internal/manifest"
	"github.com/arcadegarden/molt/internal/scoring"
	"github.com/arcadegarden/molt/internal/selector"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Rank never-molted artifacts by improvement potential",
	Long: `Rank never-molted artifacts by improvement potential.

Scores every manifest entry still at generation 0, keeps those inside the
configured score band and size ceiling, and lists them lowest score first:
the worst eligible artifact has the most headroom. When the pool exceeds
the limit, each category gets at most one slot before remaining slots fill
by score.

Example:
  molt candidates --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, m, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}

		opts := selectorOptions(cfg)
		if cmd.Flags().Changed("limit") {
			opts.Limit = limit
		}

		candidates := selector.Select(m, measureLibrary(m, cfg), opts)
		out := cmd.OutOrStdout()
		if len(candidates) == 0 {
			fmt.Fprintln(out, "no eligible candidates: every artifact is molted, out of band, or oversized")
			return nil
		}

		dim := color.New(color.Faint).SprintFunc()
		for i, c := range candidates {
			fmt.Fprintf(out, "%2d. %-24s %3d  %s\n", i+1, c.Title, c.Score,
				dim(fmt.Sprintf("%s, %d bytes", c.Category, c.SizeBytes)))
		}
		return nil
	},
}

func init() {
	candidatesCmd.Flags().Int("limit", 0, "maximum candidates to list (default from config)")
	rootCmd.AddCommand(candidatesCmd)
}

// selectorOptions maps the config band onto selector options.
func selectorOptions(cfg *config.Configuration) selector.Options {
	return selector.Options{
		Limit:    cfg.Selector.Limit,
		MinScore: cfg.Selector.MinScore,
		MaxScore: cfg.Selector.MaxScore,
		MaxBytes: cfg.Selector.MaxBytes,
	}
}

// measureLibrary scores every readable manifest entry. Unreadable files are
// skipped; the selector treats absent metrics as ineligible.
func measureLibrary(m *manifest.Manifest, cfg *config.Configuration) map[string]selector.Metrics {
	metrics := make(map[string]selector.Metrics)
	base := filepath.Dir(m.Path())
	for _, e := range m.Entries() {
		data, err := os.ReadFile(filepath.Join(base, e.File))
		if err != nil {
			continue
		}
		score := scoring.ScoreWithBands(string(data), cfg.Bands())
		metrics[e.Stem()] = selector.Metrics{Score: score.Total, SizeBytes: len(data)}
	}
	return metrics
}
