// Package config provides hierarchical configuration management for molt
// using koanf. Configuration is loaded with priority: environment variables
// > project config (.molt/config.yml) > user config (~/.config/molt/config.yml)
// > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arcadegarden/molt/internal/scoring"
)

// SelectorConfig bounds the molt candidate pool.
type SelectorConfig struct {
	// Limit is the maximum number of candidates to return.
	Limit int `koanf:"limit"`
	// MinScore and MaxScore bound the half-open score band [min, max):
	// artifacts scoring inside it are eligible.
	MinScore int `koanf:"min_score"`
	MaxScore int `koanf:"max_score"`
	// MaxBytes is the artifact size ceiling; larger files are skipped.
	MaxBytes int `koanf:"max_bytes"`
}

// Configuration represents the molt CLI tool configuration.
type Configuration struct {
	// ManifestPath locates the gallery manifest YAML.
	ManifestPath string `koanf:"manifest_path"`
	// ArchiveDir is the base directory for snapshots and pipeline reports.
	ArchiveDir string `koanf:"archive_dir"`
	// StateDir holds run history and other mutable tool state.
	StateDir string `koanf:"state_dir"`

	// OracleCmd is the rewrite oracle command template containing a
	// {{PROMPT}} placeholder. Can be set via MOLT_ORACLE_CMD.
	OracleCmd string `koanf:"oracle_cmd"`
	// OracleTimeout is the base oracle call timeout in seconds.
	OracleTimeout int `koanf:"oracle_timeout"`
	// OracleTimeoutPerKB adds seconds of timeout per KiB of artifact
	// source, so larger rewrites get proportionally longer deadlines.
	OracleTimeoutPerKB int `koanf:"oracle_timeout_per_kb"`

	// Generations is the default generation count per molt run.
	Generations int `koanf:"generations"`
	// StrictConstants requires exact tuned-constant values to survive
	// verification, not just the names.
	StrictConstants bool `koanf:"strict_constants"`
	// MaxParallel caps concurrent artifact runs in batch mode.
	MaxParallel int `koanf:"max_parallel"`

	// MaxHistoryEntries caps the run history file; oldest entries are
	// pruned past the limit.
	MaxHistoryEntries int `koanf:"max_history_entries"`

	Selector SelectorConfig `koanf:"selector"`
	// GradeBands overrides the default letter-grade thresholds.
	GradeBands []scoring.GradeBand `koanf:"grade_bands"`
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults.
// projectConfigPath overrides the project config location (used by tests
// and the --config flag); empty means .molt/config.yml.
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if userPath, err := UserConfigPath(); err == nil {
		if err := loadYAMLIfPresent(k, userPath, "user"); err != nil {
			return nil, err
		}
	}

	projectPath := ProjectConfigPath()
	if projectConfigPath != "" {
		projectPath = projectConfigPath
	}
	if err := loadYAMLIfPresent(k, projectPath, "project"); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("MOLT_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ManifestPath = expandHomePath(cfg.ManifestPath)
	cfg.ArchiveDir = expandHomePath(cfg.ArchiveDir)
	cfg.StateDir = expandHomePath(cfg.StateDir)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadYAMLIfPresent loads a YAML config file when it exists; a missing file
// simply means that tier contributes nothing.
func loadYAMLIfPresent(k *koanf.Koanf, path, tier string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", tier, path, err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: MOLT_ORACLE_TIMEOUT -> oracle_timeout. Selector keys nest with
// double underscores: MOLT_SELECTOR__MAX_BYTES -> selector.max_bytes.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "MOLT_"))
	return strings.ReplaceAll(key, "__", ".")
}

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// OracleTimeoutFor computes the oracle call deadline scaled to candidate
// size: base timeout plus the per-KiB allowance.
func (c *Configuration) OracleTimeoutFor(sizeBytes int) time.Duration {
	seconds := c.OracleTimeout
	if c.OracleTimeoutPerKB > 0 && sizeBytes > 0 {
		seconds += c.OracleTimeoutPerKB * (sizeBytes / 1024)
	}
	return time.Duration(seconds) * time.Second
}

// Bands returns the configured grade banding table, falling back to the
// scorer defaults when none is configured.
func (c *Configuration) Bands() []scoring.GradeBand {
	if len(c.GradeBands) == 0 {
		return scoring.DefaultGradeBands
	}
	return c.GradeBands
}
