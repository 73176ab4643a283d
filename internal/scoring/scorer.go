// Package scoring computes the six-dimension quality score for a single-file
// web artifact. The scorer is pure: it reads nothing but the source text it
// is handed, persists nothing, and each dimension's detector set is fixed
// and independent of every other dimension's result. The same scorer backs
// the standalone gate command and the molt orchestrator's before/after
// comparison.
package scoring

import (
	"regexp"
	"strings"
)

// Dimension maximums. Totals sum to 100.
const (
	MaxStructure     = 15
	MaxScale         = 10
	MaxSystems       = 20
	MaxCompleteness  = 15
	MaxInteractivity = 25
	MaxPolish        = 15
)

// DimensionScore is one dimension's result, always within [0, Max].
type DimensionScore struct {
	Score int `json:"score"`
	Max   int `json:"max"`
}

// QualityScore is the full scoring result for one artifact.
type QualityScore struct {
	Total      int                       `json:"total"`
	Grade      string                    `json:"grade"`
	Dimensions map[string]DimensionScore `json:"dimensions"`
}

// Dimension names as they appear in reports.
const (
	DimStructure     = "structure"
	DimScale         = "scale"
	DimSystems       = "systems"
	DimCompleteness  = "completeness"
	DimInteractivity = "interactivity"
	DimPolish        = "polish"
)

// Score computes the quality score for the given artifact source.
func Score(source string) QualityScore {
	return ScoreWithBands(source, DefaultGradeBands)
}

// ScoreWithBands computes the quality score using a caller-supplied grade
// banding table, so thresholds can be tuned without touching detector logic.
func ScoreWithBands(source string, bands []GradeBand) QualityScore {
	dims := map[string]DimensionScore{
		DimStructure:     {Score: scoreStructure(source), Max: MaxStructure},
		DimScale:         {Score: scoreScale(source), Max: MaxScale},
		DimSystems:       {Score: scoreSystems(source), Max: MaxSystems},
		DimCompleteness:  {Score: scoreCompleteness(source), Max: MaxCompleteness},
		DimInteractivity: {Score: scoreInteractivity(source), Max: MaxInteractivity},
		DimPolish:        {Score: scorePolish(source), Max: MaxPolish},
	}

	total := 0
	for _, d := range dims {
		total += d.Score
	}

	return QualityScore{
		Total:      total,
		Grade:      GradeFor(total, bands),
		Dimensions: dims,
	}
}

// containsAny reports whether src contains at least one of the needles,
// case-insensitively.
func containsAny(src string, needles ...string) bool {
	lower := strings.ToLower(src)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// scoreStructure awards points for baseline document scaffolding.
func scoreStructure(src string) int {
	score := 0
	lower := strings.ToLower(src)
	if strings.Contains(lower, "<!doctype html") {
		score += 4
	}
	if strings.Contains(lower, "viewport") {
		score += 3
	}
	if strings.Contains(lower, "<title>") {
		score += 3
	}
	if strings.Contains(lower, "<style") {
		score += 2
	}
	if strings.Contains(lower, "<script") {
		score += 3
	}
	return score
}

// scoreScale awards points as line count and byte size cross graduated
// thresholds. Bigger is not linearly better; the steps flatten out.
func scoreScale(src string) int {
	score := 0
	lines := strings.Count(src, "\n") + 1
	switch {
	case lines >= 600:
		score += 5
	case lines >= 300:
		score += 4
	case lines >= 100:
		score += 2
	}
	switch {
	case len(src) >= 32768:
		score += 5
	case len(src) >= 16384:
		score += 4
	case len(src) >= 4096:
		score += 2
	}
	if score > MaxScale {
		score = MaxScale
	}
	return score
}

// systemSignals are the weighted presence checks for the systems dimension,
// 2 points each, capped at MaxSystems.
var systemSignals = [][]string{
	{"getContext(", "<canvas", "<svg"},              // rendering surface
	{"requestAnimationFrame", "setInterval"},        // timed update loop
	{"AudioContext", "new Audio", "<audio"},         // audio subsystem
	{"localStorage", "sessionStorage", "indexedDB"}, // persistent storage
	{"Math.random"}, // procedural randomness
	{"addEventListener", "onclick", "onkeydown"},                // input handling
	{"collide", "collision", "intersect", "overlap", "hitTest"}, // collision logic
	{"particle"}, // particle systems
	{"gameState", "currentState", "state ===", "setState"}, // state-machine idiom
	{"class ", "prototype", "constructor("},                // object/class idiom
}

func scoreSystems(src string) int {
	score := 0
	for _, signal := range systemSignals {
		if containsAny(src, signal...) {
			score += 2
		}
	}
	if score > MaxSystems {
		score = MaxSystems
	}
	return score
}

// completenessSignals mark the affordances of a finished experience rather
// than a tech demo. The dimension scales the hit count to its max.
var completenessSignals = [][]string{
	{"pause", "paused"},
	{"game over", "gameover", "game-over"},
	{"score"},
	{"level", "wave", "stage", "progress"},
	{"menu", "title screen", "start screen", "press start"},
	{"hud", "lives", "health", "status"},
	{"how to play", "instructions", "controls:", "click to start"},
}

func scoreCompleteness(src string) int {
	return scaledSignalScore(src, completenessSignals, MaxCompleteness)
}

// interactivitySignals capture playability depth: feedback, escalation,
// adversaries, input breadth, replay affordances.
var interactivitySignals = [][]string{
	{"shake"},
	{"flash"},
	{"combo", "streak", "multiplier"},
	{"difficulty", "easy", "hard"},
	{"enemy", "enemies"},
	{"boss"},
	{}, // object variety; handled separately below
	{"ability", "skill", "powerup", "power-up"},
	{"touchstart", "touchmove"},
	{}, // combined keyboard+pointer; handled separately below
	{"restart", "play again", "retry", "try again"},
	{"highscore", "high score", "hiscore", "best"},
}

var reClassDecl = regexp.MustCompile(`\bclass\s+([A-Z]\w*)`)

func scoreInteractivity(src string) int {
	hits := 0
	for _, signal := range interactivitySignals {
		if len(signal) > 0 && containsAny(src, signal...) {
			hits++
		}
	}
	if countObjectTypes(src) >= 5 {
		hits++
	}
	if hasCombinedControls(src) {
		hits++
	}
	return scaleToMax(hits, len(interactivitySignals), MaxInteractivity)
}

// countObjectTypes counts distinct class declarations.
func countObjectTypes(src string) int {
	seen := map[string]bool{}
	for _, m := range reClassDecl.FindAllStringSubmatch(src, -1) {
		seen[m[1]] = true
	}
	return len(seen)
}

// hasCombinedControls reports whether the artifact wires both keyboard and
// pointer input.
func hasCombinedControls(src string) bool {
	keyboard := containsAny(src, "'keydown'", `"keydown"`, "onkeydown", "'keyup'", `"keyup"`)
	pointer := containsAny(src, "'click'", `"click"`, "onclick", "'mousedown'", `"mousedown"`, "'pointerdown'", `"pointerdown"`)
	return keyboard && pointer
}

// polishSignals mark visual finish work in the style layer.
var polishSignals = [][]string{
	{"animation", "transition"},
	{"gradient"},
	{"shadow"},
	{"@media"},
	{}, // color variety; handled separately below
	{"glow", "blur", "opacity"},
}

var reColorLiteral = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b|rgba?\(|hsla?\(`)

func scorePolish(src string) int {
	hits := 0
	for _, signal := range polishSignals {
		if len(signal) > 0 && containsAny(src, signal...) {
			hits++
		}
	}
	if countColorLiterals(src) >= 5 {
		hits++
	}
	return scaleToMax(hits, len(polishSignals), MaxPolish)
}

// countColorLiterals counts distinct color literals (#hex, rgb(), hsl()).
func countColorLiterals(src string) int {
	seen := map[string]bool{}
	for _, m := range reColorLiteral.FindAllString(src, -1) {
		seen[strings.ToLower(m)] = true
	}
	return len(seen)
}

// scaledSignalScore scales the hit count of a signal table to the
// dimension max.
func scaledSignalScore(src string, signals [][]string, max int) int {
	hits := 0
	for _, signal := range signals {
		if containsAny(src, signal...) {
			hits++
		}
	}
	return scaleToMax(hits, len(signals), max)
}

// scaleToMax maps hits out of total proportionally onto [0, max] with
// round-half-up integer arithmetic.
func scaleToMax(hits, total, max int) int {
	if total == 0 || hits <= 0 {
		return 0
	}
	if hits >= total {
		return max
	}
	return (hits*max + total/2) / total
}
