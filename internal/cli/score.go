package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	molterrors "github.com/arcadegarden/molt/internal/errors"
	"github.com/arcadegarden/molt/internal/history"
	"github.com/arcadegarden/molt/internal/output"
	"github.com/arcadegarden/molt/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <artifact|path>",
	Short: "Score an artifact's quality on the six-dimension 0-100 scale",
	Long: `Score an artifact's quality on the six-dimension 0-100 scale.

The argument is a manifest identifier (title or file stem) or a direct
file path. With --min the command acts as a gate: it exits non-zero when
the total falls below the threshold, for use in CI.

Examples:
  molt score asteroid-drift
  molt score gallery/arcade/pong.html --min 70`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minScore, _ := cmd.Flags().GetInt("min")

		cfg, err := loadConfigOnly(cmd)
		if err != nil {
			return err
		}

		path, name, err := resolveArtifactArg(cmd, args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return molterrors.WrapWithMessage(err, molterrors.Resolution, "reading artifact")
		}

		score := scoring.ScoreWithBands(string(data), cfg.Bands())
		output.PrintScoreCard(cmd.OutOrStdout(), name, score)

		if cmd.Flags().Changed("min") {
			passed := score.Total >= minScore
			history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries).LogGate(name, score.Total, passed)
			if !passed {
				return fmt.Errorf("score %d below required minimum %d", score.Total, minScore)
			}
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().Int("min", 0, "fail when the total score is below this threshold")
	rootCmd.AddCommand(scoreCmd)
}

// resolveArtifactArg accepts either a direct file path or a manifest
// identifier. Existing paths win so scoring works outside any manifest.
func resolveArtifactArg(cmd *cobra.Command, arg string) (path, name string, err error) {
	if _, statErr := os.Stat(arg); statErr == nil {
		return arg, arg, nil
	}

	_, m, err := loadEnvironment(cmd)
	if err != nil {
		return "", "", err
	}
	path, _, entry, err := m.Resolve(arg)
	if err != nil {
		return "", "", err
	}
	return path, entry.Title, nil
}
