package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Terminal rendering of CLIErrors. Color application goes through
// fatih/color SprintFuncs, which degrade to plain text on non-TTYs and
// under NO_COLOR, so there is no separate plain-text path.
var (
	headline = color.New(color.FgRed, color.Bold).SprintFunc()
	category = color.New(color.FgYellow).SprintFunc()
	usage    = color.New(color.FgCyan).SprintFunc()
	fix      = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// FormatError renders a CLIError: headline with category, optional usage
// line, then remediation bullets.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", headline("Error"), category(err.Category.String()), err.Message)

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", usage("Usage:"), err.Usage)
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  - %s\n", step)
		}
	}
	return sb.String()
}

// PrintError writes a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
