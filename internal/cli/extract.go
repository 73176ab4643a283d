package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/contract"
	molterrors "github.com/arcadegarden/molt/internal/errors"
)

var extractCmd = &cobra.Command{
	Use:   "extract <artifact|path>",
	Short: "Extract an artifact's behavioral contract",
	Long: `Extract an artifact's behavioral contract: the inventory of event
bindings, storage keys, rendering surfaces, and other observable behaviors
the verifier will require a rewrite to preserve.

Examples:
  molt extract asteroid-drift
  molt extract gallery/arcade/pong.html --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		path, name, err := resolveArtifactArg(cmd, args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return molterrors.WrapWithMessage(err, molterrors.Resolution, "reading artifact")
		}

		ctr := contract.Extract(string(data))
		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(ctr)
		}

		white := color.New(color.FgWhite, color.Bold).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()
		fmt.Fprintf(out, "%s  %d behaviors, %d tuned constants\n", white(name), len(ctr.Features), len(ctr.Constants))

		for _, f := range ctr.Features {
			fmt.Fprintf(out, "  %-28s %s\n", f.ID, dim(fmt.Sprintf("line %d", f.LineHint)))
		}
		if len(ctr.Constants) > 0 {
			names := make([]string, 0, len(ctr.Constants))
			for n := range ctr.Constants {
				names = append(names, n)
			}
			sort.Strings(names)
			fmt.Fprintln(out)
			for _, n := range names {
				fmt.Fprintf(out, "  %s = %s\n", n, ctr.Constants[n])
			}
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().Bool("json", false, "emit the contract as JSON")
	rootCmd.AddCommand(extractCmd)
}
