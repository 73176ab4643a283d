package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

const promptPlaceholder = "{{PROMPT}}"

// CommandOracle runs an external CLI tool as the rewrite oracle using a
// command template with a {{PROMPT}} placeholder, e.g.
//
//	claude -p {{PROMPT}}
//	aider --yes-always --message {{PROMPT}}
//
// The tool's stdout is the oracle reply.
type CommandOracle struct {
	template string
}

// NewCommandOracle creates a CommandOracle from a command template.
// The template must contain the {{PROMPT}} placeholder.
func NewCommandOracle(template string) (*CommandOracle, error) {
	if !strings.Contains(template, promptPlaceholder) {
		return nil, fmt.Errorf("oracle command template must contain %s placeholder", promptPlaceholder)
	}
	return &CommandOracle{template: template}, nil
}

// Validate checks that the template parses and the command exists in PATH.
func (c *CommandOracle) Validate() error {
	parts, err := c.expand("probe")
	if err != nil {
		return fmt.Errorf("oracle command: invalid template: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("oracle command: template produces no command")
	}
	if _, err := exec.LookPath(parts[0]); err != nil {
		return fmt.Errorf("oracle command: %q not found in PATH", parts[0])
	}
	return nil
}

// Invoke runs the command with the prompt substituted and returns its
// stdout. A deadline-exceeded run surfaces as a TimeoutError; empty stdout
// surfaces as ErrEmptyReply.
func (c *CommandOracle) Invoke(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	parts, err := c.expand(prompt)
	if err != nil {
		return "", fmt.Errorf("expanding oracle template: %w", err)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("oracle template expansion produced no command")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Env = os.Environ()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", NewTimeoutError(timeout)
	}
	if runErr != nil {
		return "", fmt.Errorf("oracle command failed: %w (stderr: %s)", runErr, strings.TrimSpace(stderr.String()))
	}

	reply := stdout.String()
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// expand replaces {{PROMPT}} with the shell-quoted prompt and splits the
// result into argv.
func (c *CommandOracle) expand(prompt string) ([]string, error) {
	expanded := strings.ReplaceAll(c.template, promptPlaceholder, quoteForShlex(prompt))
	return shlex.Split(expanded)
}

// quoteForShlex wraps a string in single quotes for safe shlex parsing,
// escaping embedded single quotes.
func quoteForShlex(s string) string {
	if s == "" {
		return "''"
	}
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

// Compile-time interface compliance check.
var _ Oracle = (*CommandOracle)(nil)
