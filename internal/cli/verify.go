package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/contract"
	molterrors "github.com/arcadegarden/molt/internal/errors"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <artifact> <candidate-file>",
	Short: "Verify a candidate rewrite against an artifact's behavioral contract",
	Long: `Verify a candidate rewrite against an artifact's behavioral contract.

Extracts the contract from the artifact's current on-disk text and checks
whether the candidate file still exhibits every behavior. Exits non-zero
when verification fails, so the command doubles as a review gate for
rewrites produced outside the molt pipeline.

Examples:
  molt verify asteroid-drift /tmp/rewrite.html
  molt verify asteroid-drift /tmp/rewrite.html --strict`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		_, m, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		path, _, _, err := m.Resolve(args[0])
		if err != nil {
			return err
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return molterrors.WrapWithMessage(err, molterrors.Resolution, "reading artifact")
		}
		candidate, err := os.ReadFile(args[1])
		if err != nil {
			return molterrors.WrapWithMessage(err, molterrors.Resolution, "reading candidate")
		}

		ctr := contract.Extract(string(source))
		result := contract.Verify(ctr, string(candidate), strict)
		printVerifyResult(cmd, result)

		if !result.Passed {
			return fmt.Errorf("verification failed: %d/%d behaviors preserved", result.Preserved, result.Total)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().Bool("strict", false, "require exact tuned-constant values to survive")
	rootCmd.AddCommand(verifyCmd)
}

func printVerifyResult(cmd *cobra.Command, result *contract.VerifyResult) {
	out := cmd.OutOrStdout()

	if result.Passed {
		green := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s %d/%d behaviors preserved (%.0f%%)\n",
			green("✓"), result.Preserved, result.Total, result.PreservationRatio*100)
		return
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %d/%d behaviors preserved (%.0f%%)\n",
		red("✗"), result.Preserved, result.Total, result.PreservationRatio*100)
	for _, f := range result.Missing {
		marker := " "
		if f.Type.Critical() {
			marker = "!"
		}
		fmt.Fprintf(out, "  %s missing %s (line %d: %s)\n", marker, f.ID, f.LineHint, f.Evidence)
	}
	for _, c := range result.MissingConstants {
		fmt.Fprintf(out, "    lost constant %s = %s\n", c.Name, c.Expected)
	}
}
