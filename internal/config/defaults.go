package config

// GetDefaultConfigTemplate returns a fully commented config template that
// helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# molt configuration
# Priority: MOLT_* environment variables > .molt/config.yml > user config > defaults

manifest_path: ./manifest.yml         # Gallery manifest (categories -> artifacts)
archive_dir: ./archive                # Snapshots and pipeline reports
state_dir: ~/.molt/state              # Run history and tool state

# Rewrite oracle
oracle_cmd: "claude -p {{PROMPT}}"    # Command template; stdout is the reply
oracle_timeout: 300                   # Base timeout in seconds
oracle_timeout_per_kb: 4              # Extra seconds per KiB of source

# Molt run defaults
generations: 3                        # Generations per run (1-20)
strict_constants: false               # Require exact tuned-constant values
max_parallel: 4                       # Concurrent artifacts in batch mode

# History
max_history_entries: 500              # Max run history entries to retain

# Candidate selection
selector:
  limit: 5                            # Candidates per batch
  min_score: 30                       # Open score band lower bound
  max_score: 75                       # Open score band upper bound
  max_bytes: 65536                    # Artifact size ceiling

# Letter grade thresholds (descending min)
# grade_bands:
#   - { min: 95, grade: S }
#   - { min: 85, grade: A }
#   - { min: 70, grade: B }
#   - { min: 55, grade: C }
#   - { min: 40, grade: D }
#   - { min: 0,  grade: F }
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"manifest_path": "./manifest.yml",
		"archive_dir":   "./archive",
		"state_dir":     "~/.molt/state",
		// oracle_cmd: Rewrite oracle command template. The {{PROMPT}}
		// placeholder receives the improvement prompt; stdout is treated
		// as the oracle reply.
		"oracle_cmd": "claude -p {{PROMPT}}",
		// oracle_timeout: base deadline; scaled up per KiB of source so
		// large artifacts get proportionally longer calls.
		"oracle_timeout":        300,
		"oracle_timeout_per_kb": 4,
		"generations":           3,
		"strict_constants":      false,
		"max_parallel":          4,
		// max_history_entries: oldest run history entries are pruned when
		// this limit is exceeded.
		"max_history_entries": 500,
		"selector": map[string]interface{}{
			"limit":     5,
			"min_score": 30,
			"max_score": 75,
			"max_bytes": 65536,
		},
	}
}
