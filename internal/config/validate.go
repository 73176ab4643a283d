package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration values for internal consistency.
// It reports the first problem found with enough context to fix it.
func Validate(cfg *Configuration) error {
	if strings.TrimSpace(cfg.ManifestPath) == "" {
		return fmt.Errorf("manifest_path must not be empty")
	}
	if strings.TrimSpace(cfg.ArchiveDir) == "" {
		return fmt.Errorf("archive_dir must not be empty")
	}
	if cfg.OracleCmd != "" && !strings.Contains(cfg.OracleCmd, "{{PROMPT}}") {
		return fmt.Errorf("oracle_cmd must contain the {{PROMPT}} placeholder")
	}
	if cfg.OracleTimeout <= 0 {
		return fmt.Errorf("oracle_timeout must be positive, got %d", cfg.OracleTimeout)
	}
	if cfg.OracleTimeoutPerKB < 0 {
		return fmt.Errorf("oracle_timeout_per_kb must not be negative, got %d", cfg.OracleTimeoutPerKB)
	}
	if cfg.Generations < 1 || cfg.Generations > 20 {
		return fmt.Errorf("generations must be between 1 and 20, got %d", cfg.Generations)
	}
	if cfg.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be at least 1, got %d", cfg.MaxParallel)
	}
	if cfg.Selector.MinScore < 0 || cfg.Selector.MaxScore > 100 || cfg.Selector.MinScore >= cfg.Selector.MaxScore {
		return fmt.Errorf("selector score band [%d, %d] must satisfy 0 <= min < max <= 100",
			cfg.Selector.MinScore, cfg.Selector.MaxScore)
	}
	if cfg.Selector.MaxBytes <= 0 {
		return fmt.Errorf("selector.max_bytes must be positive, got %d", cfg.Selector.MaxBytes)
	}
	if err := validateGradeBands(cfg); err != nil {
		return err
	}
	return nil
}

// validateGradeBands requires a descending, in-range banding table.
func validateGradeBands(cfg *Configuration) error {
	prev := 101
	for i, b := range cfg.GradeBands {
		if b.Min < 0 || b.Min > 100 {
			return fmt.Errorf("grade_bands[%d].min %d out of range 0-100", i, b.Min)
		}
		if b.Min >= prev {
			return fmt.Errorf("grade_bands must be sorted by descending min (row %d)", i)
		}
		if strings.TrimSpace(b.Grade) == "" {
			return fmt.Errorf("grade_bands[%d].grade must not be empty", i)
		}
		prev = b.Min
	}
	return nil
}
