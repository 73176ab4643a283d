package progress

import (
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/arcadegarden/molt/internal/molt"
)

var _ molt.ProgressIndicator = (*Spinner)(nil)

// Spinner shows a message with an animated indicator while the oracle call
// is in flight. On a non-TTY (CI, piped output) it degrades to a single
// printed line per Start so logs stay clean.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner writing to out with the detected terminal
// capabilities.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{out: out, caps: caps}
}

// Start begins animating with the given message. Calling Start while a
// previous animation runs replaces it.
func (s *Spinner) Start(message string) {
	s.Stop()

	if !s.caps.IsTTY {
		io.WriteString(s.out, message+"\n")
		return
	}

	sp := spinner.New(spinner.CharSets[spinnerCharSet(s.caps)], 100*time.Millisecond, spinner.WithWriter(s.out))
	sp.Suffix = " " + message
	if s.caps.SupportsColor {
		_ = sp.Color("cyan")
	}
	sp.Start()
	s.spinner = sp
}

// Stop halts the animation and clears the line. Safe to call when nothing
// is running.
func (s *Spinner) Stop() {
	if s.spinner == nil {
		return
	}
	s.spinner.Stop()
	s.spinner = nil
}
