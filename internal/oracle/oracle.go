// Package oracle defines the rewrite oracle capability: an opaque
// text-generation service that takes an improvement prompt and returns
// rewritten artifact text. The oracle is modeled as an injected interface
// so tests substitute deterministic fakes; production wiring selects the
// concrete backend at the edge, never inside the orchestrator.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyReply is returned when the oracle produced no output. Together
// with timeouts it is one of the only two failure signals the molt core
// understands; oracle-internal error codes are never inspected.
var ErrEmptyReply = errors.New("oracle returned empty reply")

// Oracle is the rewrite capability. Invoke must be idempotent-safe to
// retry and must respect the timeout: a call may never hang its caller
// indefinitely.
type Oracle interface {
	// Invoke sends the prompt and returns the oracle's raw text reply.
	Invoke(ctx context.Context, prompt string, timeout time.Duration) (string, error)
}

// TimeoutError reports an oracle call that exceeded its deadline.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

// Error returns a human-readable message with the exceeded deadline.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("oracle call timed out after %v (hint: raise oracle_timeout in config)", e.Timeout)
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a TimeoutError wrapping context.DeadlineExceeded.
func NewTimeoutError(timeout time.Duration) *TimeoutError {
	return &TimeoutError{Timeout: timeout, Err: context.DeadlineExceeded}
}
