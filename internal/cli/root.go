// Package cli wires the molt commands: run, score, verify, extract,
// candidates, batch, watch, history.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arcadegarden/molt/internal/config"
	molterrors "github.com/arcadegarden/molt/internal/errors"
	"github.com/arcadegarden/molt/internal/manifest"
)

var rootCmd = &cobra.Command{
	Use:   "molt [artifact]",
	Short: "Generational rewriting engine for a library of single-file web artifacts",
	Long: `molt runs a library of self-contained single-file web artifacts through
generational improvement: each generation scores the artifact, asks the
rewrite oracle for an improved version, verifies the rewrite preserves
every observed behavior, and accepts or rejects the result. Rejected and
failed generations leave the artifact untouched; accepted generations
archive the previous version first.

Running with a bare artifact identifier is shorthand for 'molt run':

  molt asteroid-drift --generations 2
  molt run asteroid-drift --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runMolt(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to project config (default .molt/config.yml)")
	rootCmd.PersistentFlags().String("manifest", "", "path to the library manifest (overrides config)")

	addRunFlags(rootCmd)
}

// Execute runs the CLI and renders any failure with category-appropriate
// guidance. The returned error is non-nil when the process should exit
// non-zero. Interrupts cancel the command context so long-running commands
// (watch, batch) wind down cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if cliErr := molterrors.AsCLIError(err); cliErr != nil {
			molterrors.PrintError(cliErr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// loadEnvironment resolves config and manifest for a command invocation.
func loadEnvironment(cmd *cobra.Command) (*config.Configuration, *manifest.Manifest, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	manifestPath, _ := cmd.Flags().GetString("manifest")
	if manifestPath == "" {
		manifestPath = cfg.ManifestPath
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}

// loadConfigOnly is for commands that do not need the manifest.
func loadConfigOnly(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return config.Load(configPath)
}
