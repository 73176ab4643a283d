// Package output provides terminal output formatting for the molt CLI.
// It is kept dependency-light on the domain side to stay importable from
// any command without cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/arcadegarden/molt/internal/molt"
	"github.com/arcadegarden/molt/internal/scoring"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if
// unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintRunHeader prints the banner for one artifact's molt run.
func PrintRunHeader(out io.Writer, artifact, category string, generations int) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan("Molting"), artifact)
	fmt.Fprintf(out, "%s\n\n", dim(fmt.Sprintf("category: %s, generations: %d", category, generations)))
}

// PrintGenerationVerdict prints one timeline entry as it resolves.
func PrintGenerationVerdict(out io.Writer, rec molt.GenerationRecord) {
	label := fmt.Sprintf("[Gen %d/%s]", rec.Generation, rec.Focus)
	dim := color.New(color.Faint).SprintFunc()

	switch rec.Status {
	case molt.StatusSuccess:
		green := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s %s %+d (%d -> %d)\n", green("✓"), label, rec.Delta, rec.ScoreBefore, rec.ScoreAfter)
	case molt.StatusDryRun:
		blue := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintf(out, "%s %s would score %d (%+d)\n", blue("○"), label, rec.ScoreAfter, rec.Delta)
	case molt.StatusRejected:
		yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s %s rejected: %s\n", yellow("↩"), label, dim(rec.Reason))
	default:
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s %s failed: %s\n", red("✗"), label, dim(rec.Reason))
	}
}

// PrintScoreCard renders a quality score with its per-dimension breakdown.
func PrintScoreCard(out io.Writer, title string, score scoring.QualityScore) {
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s  %s\n", white(title), GradeBadge(score.Total, score.Grade))

	names := make([]string, 0, len(score.Dimensions))
	for name := range score.Dimensions {
		names = append(names, name)
	}
	sort.Strings(names)
	dim := color.New(color.Faint).SprintFunc()
	for _, name := range names {
		d := score.Dimensions[name]
		fmt.Fprintf(out, "  %-14s %s\n", name, dim(fmt.Sprintf("%d/%d", d.Score, d.Max)))
	}
}

// PrintRunSummary prints the closing lines of a pipeline report.
func PrintRunSummary(out io.Writer, report *molt.Report) {
	fmt.Fprintln(out)
	sep := strings.Repeat("─", min(GetTerminalWidth(), 48))
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintln(out, dim(sep))

	fmt.Fprintf(out, "%s -> %s", GradeBadge(report.BaselineScore, report.BaselineGrade), GradeBadge(report.FinalScore, report.FinalGrade))
	if report.TotalDelta != 0 {
		fmt.Fprintf(out, "  (%+d)", report.TotalDelta)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "generations: %d attempted, %d accepted\n", report.GenerationsAttempted, report.GenerationsSucceeded)
	if report.DryRun {
		fmt.Fprintln(out, dim("dry run: nothing was written"))
	}
}

// GradeBadge renders "87 (A)" with the grade colored by band.
func GradeBadge(total int, grade string) string {
	return fmt.Sprintf("%d (%s)", total, gradeColor(grade)(grade))
}

// gradeColor maps grades to colors: top grades green, middle yellow,
// failing red.
func gradeColor(grade string) func(a ...interface{}) string {
	switch grade {
	case "S", "A":
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	case "B", "C":
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}
