package contract

import (
	"regexp"
	"strings"
)

// PassThreshold is the minimum preservation ratio a candidate must reach.
// Below it the rewrite dropped too much surface to trust, even when every
// individual loss looks benign.
const PassThreshold = 0.90

// Verify checks whether a candidate rewrite still exhibits every behavior
// in the contract. Each feature gets a type-specific check, not a blind
// substring search of its evidence: handler bodies may change freely as
// long as the binding survives.
//
// Pass rule: preservation ratio >= PassThreshold AND zero missing features
// of a critical type AND zero missing constants. In non-strict mode a
// constant is preserved when its name reappears; strict mode additionally
// demands the exact value adjacent to the name.
//
// An empty candidate against a non-empty contract always fails. An empty
// contract passes trivially: there is nothing to preserve.
func Verify(c *Contract, candidate string, strict bool) *VerifyResult {
	result := &VerifyResult{
		Total:             len(c.Features),
		PreservationRatio: 1.0,
	}

	if c.Empty() {
		result.Passed = true
		return result
	}
	if strings.TrimSpace(candidate) == "" {
		result.Missing = append(result.Missing, c.Features...)
		result.PreservationRatio = 0
		for name, value := range c.Constants {
			result.MissingConstants = append(result.MissingConstants, MissingConstant{Name: name, Expected: value})
		}
		return result
	}

	criticalMissing := false
	for _, f := range c.Features {
		if featurePreserved(f, candidate) {
			result.Preserved++
			continue
		}
		result.Missing = append(result.Missing, f)
		if f.Type.Critical() {
			criticalMissing = true
		}
	}
	if result.Total > 0 {
		result.PreservationRatio = float64(result.Preserved) / float64(result.Total)
	}

	for name, value := range c.Constants {
		if !constantPreserved(name, value, candidate, strict) {
			result.MissingConstants = append(result.MissingConstants, MissingConstant{Name: name, Expected: value})
		}
	}

	result.Passed = result.PreservationRatio >= PassThreshold &&
		!criticalMissing &&
		len(result.MissingConstants) == 0
	return result
}

// featurePreserved dispatches to the type-specific presence check.
func featurePreserved(f Feature, candidate string) bool {
	switch f.Type {
	case TypeEventBinding:
		// A binding call with the same event subtype anywhere in the
		// candidate counts; the handler body may have been rewritten.
		return regexp.MustCompile(`addEventListener\(\s*['"]` + regexp.QuoteMeta(f.Subtype) + `['"]`).MatchString(candidate)
	case TypeInlineHandler:
		return regexp.MustCompile(`\bon` + regexp.QuoteMeta(f.Subtype) + `\s*=`).MatchString(candidate)
	case TypeStorageKey:
		// The literal key text must still be referenced somewhere.
		return strings.Contains(candidate, f.Subtype)
	case TypeAnimationLoop, TypeAudioSubsystem:
		// Platform API token presence.
		return strings.Contains(candidate, f.Subtype)
	case TypeRenderingSurface:
		if f.Subtype == "svg" {
			return strings.Contains(candidate, "<svg")
		}
		return strings.Contains(candidate, "getContext") && strings.Contains(candidate, f.Subtype)
	case TypeKeyboardShortcut, TypeUIElement, TypeStyleAnimation, TypeStyleTransition, TypeMetadataTag:
		return literalPreserved(f, candidate)
	case TypeNamedFunction:
		// Liberal token-presence check. A rewrite could rename a function's
		// meaning while keeping an unrelated identical identifier and still
		// pass here; tightening this changes acceptance behavior, so don't.
		return regexp.MustCompile(`\b` + regexp.QuoteMeta(f.Subtype) + `\b`).MatchString(candidate)
	default:
		return strings.Contains(candidate, f.Evidence)
	}
}

// literalPreserved checks literal presence of the feature's identifying
// text. UI elements match on the id alone so a tag swap (div -> section)
// with the same identifier still counts as preserved.
func literalPreserved(f Feature, candidate string) bool {
	needle := f.Subtype
	if f.Type == TypeUIElement {
		if _, id, ok := strings.Cut(f.Subtype, "#"); ok {
			needle = id
		}
	}
	return strings.Contains(candidate, needle)
}

// constantPreserved checks a tuned constant against the candidate.
// Non-strict: the name must reappear as a token. Strict: the exact value
// must reappear adjacent to the name (allowing a declaration keyword and
// assignment between them).
func constantPreserved(name, value, candidate string, strict bool) bool {
	nameRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if !nameRe.MatchString(candidate) {
		return false
	}
	if !strict {
		return true
	}
	adjacent := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b\s*=\s*` + regexp.QuoteMeta(value) + `\b`)
	return adjacent.MatchString(candidate)
}
