package contract

import (
	"regexp"
	"strings"
)

// detector scans the full source text once and emits zero or more features
// of a single type. Detectors are independent and order-insensitive: their
// union, not their sequence, defines the contract. A detector never fails
// on malformed input; absence of a pattern simply yields no features.
type detector func(src string, lines *lineIndex) []Feature

// detectors is the fixed, ordered detector set applied by Extract.
// Order matters only for stable output ordering, never for content.
var detectors = []detector{
	detectEventBindings,
	detectInlineHandlers,
	detectStorageKeys,
	detectAnimationLoops,
	detectRenderingSurfaces,
	detectAudioSubsystems,
	detectKeyboardShortcuts,
	detectStyleAnimations,
	detectStyleTransitions,
	detectUIElements,
	detectNamedFunctions,
	detectMetadataTags,
}

// Extract builds a feature contract from artifact source text.
// Empty or whitespace-only input yields an empty contract, not an error.
func Extract(source string) *Contract {
	c := &Contract{
		Constants: map[string]string{},
		Summary:   map[FeatureType]int{},
	}
	if strings.TrimSpace(source) == "" {
		return c
	}

	lines := newLineIndex(source)
	for _, d := range detectors {
		for _, f := range d(source, lines) {
			c.Features = append(c.Features, f)
			c.Summary[f.Type]++
		}
	}
	c.Constants = extractConstants(source)
	return c
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int // byte offset of each line start
}

func newLineIndex(src string) *lineIndex {
	idx := &lineIndex{starts: []int{0}}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

// lineAt returns the 1-based line containing the given byte offset.
func (l *lineIndex) lineAt(offset int) int {
	lo, hi := 0, len(l.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// collect runs re against src and emits one deduplicated feature per
// distinct subtype. subtypeGroup selects which capture group carries the
// subtype (0 uses the whole match).
func collect(src string, lines *lineIndex, re *regexp.Regexp, t FeatureType, subtypeGroup int) []Feature {
	var out []Feature
	seen := map[string]bool{}
	for _, m := range re.FindAllStringSubmatchIndex(src, -1) {
		subtype := src[m[0]:m[1]]
		if subtypeGroup > 0 && m[2*subtypeGroup] >= 0 {
			subtype = src[m[2*subtypeGroup]:m[2*subtypeGroup+1]]
		}
		if seen[subtype] {
			continue
		}
		seen[subtype] = true
		out = append(out, Feature{
			ID:       featureID(t, subtype),
			Type:     t,
			Subtype:  subtype,
			Evidence: src[m[0]:m[1]],
			LineHint: lines.lineAt(m[0]),
		})
	}
	return out
}

var (
	reEventBinding  = regexp.MustCompile(`addEventListener\(\s*['"]([A-Za-z]+)['"]`)
	reInlineHandler = regexp.MustCompile(`\bon(click|dblclick|mousedown|mouseup|mousemove|touchstart|touchmove|touchend|keydown|keyup|keypress|input|change|submit|load)\s*=`)
	reStorageKey    = regexp.MustCompile(`(?:localStorage|sessionStorage)\.(?:getItem|setItem|removeItem)\(\s*['"]([^'"]+)['"]`)
	reAnimLoop      = regexp.MustCompile(`\b(requestAnimationFrame|setInterval)\b`)
	reCanvasCtx     = regexp.MustCompile(`getContext\(\s*['"](2d|webgl2?|bitmaprenderer)['"]`)
	reSVGSurface    = regexp.MustCompile(`<svg\b`)
	reAudio         = regexp.MustCompile(`\b(AudioContext|webkitAudioContext|createOscillator|createGain|new Audio)\b|<audio\b`)
	reKeyCompare    = regexp.MustCompile(`\.(?:key|code)\s*===?\s*['"]([^'"]+)['"]`)
	reKeyCase       = regexp.MustCompile(`case\s+['"](Arrow[A-Za-z]+|Enter|Escape|Space|Tab|[a-z])['"]\s*:`)
	reKeyframes     = regexp.MustCompile(`@keyframes\s+([A-Za-z][\w-]*)`)
	reTransition    = regexp.MustCompile(`\btransition\s*:`)
	reUIElement     = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)[^>]*\bid=["']([^"']+)["']`)
	reFuncDecl      = regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)\s*\(`)
	reArrowDecl     = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s*)?\([^()]*\)\s*=>`)
	reMetaTag       = regexp.MustCompile(`<meta\s+name=["']([^"']+)["']`)
)

func detectEventBindings(src string, lines *lineIndex) []Feature {
	return collect(src, lines, reEventBinding, TypeEventBinding, 1)
}

func detectInlineHandlers(src string, lines *lineIndex) []Feature {
	return collect(src, lines, reInlineHandler, TypeInlineHandler, 1)
}

func detectStorageKeys(src string, lines *lineIndex) []Feature {
	return collect(src, lines, reStorageKey, TypeStorageKey, 1)
}

func detectAnimationLoops(src string, lines *lineIndex) []Feature {
	return collect(src, lines, reAnimLoop, TypeAnimationLoop, 1)
}

// detectRenderingSurfaces finds canvas context acquisitions and inline SVG.
// The subtype is the context type ("2d", "webgl", ...) or "svg".
func detectRenderingSurfaces(src string, lines *lineIndex) []Feature {
	out := collect(src, lines, reCanvasCtx, TypeRenderingSurface, 1)
	if m := reSVGSurface.FindStringIndex(src); m != nil {
		out = append(out, Feature{
			ID:       featureID(TypeRenderingSurface, "svg"),
			Type:     TypeRenderingSurface,
			Subtype:  "svg",
			Evidence: src[m[0]:m[1]],
			LineHint: lines.lineAt(m[0]),
		})
	}
	return out
}

func detectAudioSubsystems(src string, lines *lineIndex) []Feature {
	var out []Feature
	seen := map[string]bool{}
	for _, m := range reAudio.FindAllStringSubmatchIndex(src, -1) {
		token := src[m[0]:m[1]]
		if m[2] >= 0 {
			token = src[m[2]:m[3]]
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		out = append(out, Feature{
			ID:       featureID(TypeAudioSubsystem, token),
			Type:     TypeAudioSubsystem,
			Subtype:  token,
			Evidence: src[m[0]:m[1]],
			LineHint: lines.lineAt(m[0]),
		})
	}
	return out
}

// detectKeyboardShortcuts finds key comparisons (e.key === 'ArrowLeft') and
// switch cases over key names. One feature per distinct key.
func detectKeyboardShortcuts(src string, lines *lineIndex) []Feature {
	out := collect(src, lines, reKeyCompare, TypeKeyboardShortcut, 1)
	seen := map[string]bool{}
	for _, f := range out {
		seen[f.Subtype] = true
	}
	for _, m := range reKeyCase.FindAllStringSubmatchIndex(src, -1) {
		key := src[m[2]:m[3]]
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Feature{
			ID:       featureID(TypeKeyboardShortcut, key),
			Type:     TypeKeyboardShortcut,
			Subtype:  key,
			Evidence: src[m[0]:m[1]],
			LineHint: lines.lineAt(m[0]),
		})
	}
	return out
}

func detectStyleAnimations(src string, lines *lineIndex) []Feature {
	return collect(src, lines, reKeyframes, TypeStyleAnimation, 1)
}

func detectStyleTransitions(src string, lines *lineIndex) []Feature {
	// A single feature regardless of how many rules declare transitions:
	// the behavior "this artifact uses CSS transitions" is the unit.
	if m := reTransition.FindStringIndex(src); m != nil {
		return []Feature{{
			ID:       featureID(TypeStyleTransition, "transition"),
			Type:     TypeStyleTransition,
			Subtype:  "transition",
			Evidence: src[m[0]:m[1]],
			LineHint: lines.lineAt(m[0]),
		}}
	}
	return nil
}

// detectUIElements finds elements carrying an id attribute. The subtype is
// the tag#id pair so a renamed tag with the same id still reads as a change.
func detectUIElements(src string, lines *lineIndex) []Feature {
	var out []Feature
	seen := map[string]bool{}
	for _, m := range reUIElement.FindAllStringSubmatchIndex(src, -1) {
		tag := strings.ToLower(src[m[2]:m[3]])
		id := src[m[4]:m[5]]
		subtype := tag + "#" + id
		if seen[subtype] {
			continue
		}
		seen[subtype] = true
		out = append(out, Feature{
			ID:       featureID(TypeUIElement, subtype),
			Type:     TypeUIElement,
			Subtype:  subtype,
			Evidence: src[m[0]:m[1]],
			LineHint: lines.lineAt(m[0]),
		})
	}
	return out
}

func detectNamedFunctions(src string, lines *lineIndex) []Feature {
	out := collect(src, lines, reFuncDecl, TypeNamedFunction, 1)
	seen := map[string]bool{}
	for _, f := range out {
		seen[f.Subtype] = true
	}
	for _, m := range reArrowDecl.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Feature{
			ID:       featureID(TypeNamedFunction, name),
			Type:     TypeNamedFunction,
			Subtype:  name,
			Evidence: src[m[0]:m[1]],
			LineHint: lines.lineAt(m[0]),
		})
	}
	return out
}

func detectMetadataTags(src string, lines *lineIndex) []Feature {
	return collect(src, lines, reMetaTag, TypeMetadataTag, 1)
}

var (
	// Bare assignment: GRAVITY = 0.98
	reConstBare = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z0-9_]{2,})\s*=\s*(-?\d+(?:\.\d+)?)`)
	// Declared assignment: const GRAVITY = 0.98
	reConstDecl = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Z][A-Z0-9_]{2,})\s*=\s*(-?\d+(?:\.\d+)?)`)
)

// constantDenylist excludes overly generic upper-case names that show up in
// color math and markup without being gameplay tuning values.
var constantDenylist = map[string]bool{
	"RGB":  true,
	"RGBA": true,
	"HSL":  true,
	"HSLA": true,
	"CSS":  true,
	"DOM":  true,
	"URL":  true,
	"API":  true,
	"HTML": true,
	"SVG":  true,
}

// extractConstants collects upper-case symbolic constants assigned numeric
// literals. The two patterns are independent; their results merge into one
// name→value mapping with last-write-wins semantics.
func extractConstants(src string) map[string]string {
	constants := map[string]string{}
	for _, re := range []*regexp.Regexp{reConstBare, reConstDecl} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			name, value := m[1], m[2]
			if constantDenylist[name] {
				continue
			}
			constants[name] = value
		}
	}
	return constants
}
