package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past molt runs and score gates",
	Long: `Show past molt runs and score gates, newest last.

Examples:
  molt history
  molt history --artifact asteroid-drift --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		artifact, _ := cmd.Flags().GetString("artifact")

		cfg, err := loadConfigOnly(cmd)
		if err != nil {
			return err
		}

		h, err := history.Load(cfg.StateDir)
		if err != nil {
			return err
		}

		entries := filterHistory(h.Entries, artifact, limit)
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "no history yet")
			return nil
		}

		dim := color.New(color.Faint).SprintFunc()
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-7s %-24s %s",
				e.Timestamp.Format("2006-01-02 15:04"), e.Command, e.Artifact, e.Outcome)
			if e.Command == "run" && e.Delta != 0 {
				line += fmt.Sprintf(" (%+d)", e.Delta)
			}
			if e.Duration != "" {
				line += " " + dim(e.Duration)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "show at most this many entries")
	historyCmd.Flags().String("artifact", "", "only entries for this artifact")
	rootCmd.AddCommand(historyCmd)
}

// filterHistory keeps the newest limit entries matching the artifact
// filter.
func filterHistory(entries []history.Entry, artifact string, limit int) []history.Entry {
	var result []history.Entry
	for _, e := range entries {
		if artifact != "" && e.Artifact != artifact {
			continue
		}
		result = append(result, e)
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}
