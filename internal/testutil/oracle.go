// Package testutil provides shared test doubles for molt packages.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/arcadegarden/molt/internal/oracle"
)

// FakeOracle is a deterministic oracle for tests. It records every call
// and replays a scripted sequence of replies and errors; when the script
// runs out, the last step repeats.
type FakeOracle struct {
	mu sync.Mutex

	// Script is the ordered list of responses to replay.
	Script []FakeResponse

	// Calls records the prompt and timeout of every invocation.
	Calls []FakeCall

	calls int
}

// FakeResponse is one scripted oracle response.
type FakeResponse struct {
	Reply string
	Err   error
}

// FakeCall records one recorded invocation.
type FakeCall struct {
	Prompt  string
	Timeout time.Duration
}

// NewFakeOracle creates a FakeOracle that always returns reply.
func NewFakeOracle(reply string) *FakeOracle {
	return &FakeOracle{Script: []FakeResponse{{Reply: reply}}}
}

// NewFailingOracle creates a FakeOracle that always returns err.
func NewFailingOracle(err error) *FakeOracle {
	return &FakeOracle{Script: []FakeResponse{{Err: err}}}
}

// Invoke implements oracle.Oracle.
func (f *FakeOracle) Invoke(_ context.Context, prompt string, timeout time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, FakeCall{Prompt: prompt, Timeout: timeout})

	step := f.calls
	if step >= len(f.Script) {
		step = len(f.Script) - 1
	}
	f.calls++

	if step < 0 {
		return "", oracle.ErrEmptyReply
	}
	resp := f.Script[step]
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Reply, nil
}

// CallCount returns how many times Invoke ran.
func (f *FakeOracle) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Compile-time interface compliance check.
var _ oracle.Oracle = (*FakeOracle)(nil)
