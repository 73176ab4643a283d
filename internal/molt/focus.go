package molt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arcadegarden/molt/internal/contract"
)

// Focus is one improvement emphasis for a generation. The orchestrator
// rotates through the table so consecutive generations push on different
// quality dimensions instead of re-polishing the same surface.
type Focus struct {
	Name     string
	Guidance string
}

// focusRotation is the fixed rotation order. Generation k (1-based) gets
// entry (k-1) mod len.
var focusRotation = []Focus{
	{
		Name:     "systems",
		Guidance: "Deepen the simulation: richer update loop, collision or interaction logic, particle effects, procedural variety. Do not remove existing mechanics.",
	},
	{
		Name:     "interactivity",
		Guidance: "Raise playability: tighter feedback (shake, flash), combo or streak rewards, difficulty escalation, restart affordance, high-score tracking.",
	},
	{
		Name:     "completeness",
		Guidance: "Round out the experience: pause, game-over and title states, scoring display, progression, a one-line onboarding hint.",
	},
	{
		Name:     "polish",
		Guidance: "Visual finish: transitions, gradients, shadows, glow, a coherent palette, responsive layout. Keep the markup self-contained.",
	},
}

// FocusFor returns the rotating focus for a 1-based generation number.
func FocusFor(generation int) Focus {
	if generation < 1 {
		generation = 1
	}
	return focusRotation[(generation-1)%len(focusRotation)]
}

// BuildPrompt assembles the rewrite oracle prompt for one generation:
// the focus directive, the behavioral surface that must survive, and the
// full current source.
func BuildPrompt(source string, c *contract.Contract, focus Focus) string {
	var sb strings.Builder
	sb.WriteString("Rewrite the following self-contained single-file web artifact to improve it.\n")
	sb.WriteString("Focus this round: " + focus.Name + ". " + focus.Guidance + "\n\n")
	sb.WriteString("Hard requirements:\n")
	sb.WriteString("- Return one complete HTML document and nothing else.\n")
	sb.WriteString("- The document must stay fully self-contained: no external scripts, styles, fonts, or network calls.\n")
	sb.WriteString("- Preserve every behavior listed below. Handler bodies may change; bindings, storage keys, and API usage may not disappear.\n\n")

	if len(c.Features) > 0 {
		sb.WriteString("Behaviors that must survive:\n")
		types := make([]string, 0, len(c.Summary))
		for t := range c.Summary {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			var subtypes []string
			for _, f := range c.Features {
				if string(f.Type) == t {
					subtypes = append(subtypes, f.Subtype)
				}
			}
			sb.WriteString(fmt.Sprintf("- %s: %s\n", t, strings.Join(subtypes, ", ")))
		}
		sb.WriteString("\n")
	}

	if len(c.Constants) > 0 {
		sb.WriteString("Tuned constants (keep the names; retune values only when the focus demands it):\n")
		names := make([]string, 0, len(c.Constants))
		for name := range c.Constants {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("- %s = %s\n", name, c.Constants[name]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Current source:\n\n")
	sb.WriteString(source)
	return sb.String()
}
