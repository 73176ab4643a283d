package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/output"
	"github.com/arcadegarden/molt/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Re-score artifacts live as they change on disk",
	Long: `Re-score artifacts live as they change on disk.

Watches the library directory (by default, the manifest's directory) and
prints a fresh score line every time an artifact file settles after a
write. Useful while hand-editing an artifact. Stop with Ctrl+C.

Example:
  molt watch gallery/arcade`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, m, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}

		dir := filepath.Dir(m.Path())
		if len(args) == 1 {
			dir = args[0]
		}

		w, err := watch.New(dir, cfg.Bands())
		if err != nil {
			return err
		}
		defer w.Close()

		events, err := w.Watch(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		dim := color.New(color.Faint).SprintFunc()
		fmt.Fprintf(out, "watching %s %s\n", dir, dim("(Ctrl+C to stop)"))

		for ev := range events {
			if ev.Err != nil {
				fmt.Fprintf(out, "%s: %v\n", filepath.Base(ev.Path), ev.Err)
				continue
			}
			fmt.Fprintf(out, "%-24s %s\n", filepath.Base(ev.Path), output.GradeBadge(ev.Score.Total, ev.Score.Grade))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
