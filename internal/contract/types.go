// Package contract extracts and verifies behavioral feature contracts for
// single-file web artifacts. A contract is a structured inventory of the
// observable behaviors in an artifact's source text (event bindings, storage
// keys, rendering surfaces, tuned constants, ...) built from lexical pattern
// evidence. Detection is deliberately approximate: the artifact's embedded
// program text is never parsed into a syntax tree.
package contract

import "fmt"

// FeatureType identifies one category of detectable behavior.
type FeatureType string

const (
	TypeEventBinding     FeatureType = "event-binding"
	TypeInlineHandler    FeatureType = "inline-handler"
	TypeStorageKey       FeatureType = "persistent-storage-key"
	TypeAnimationLoop    FeatureType = "animation-loop"
	TypeRenderingSurface FeatureType = "rendering-surface"
	TypeAudioSubsystem   FeatureType = "audio-subsystem"
	TypeKeyboardShortcut FeatureType = "keyboard-shortcut"
	TypeStyleAnimation   FeatureType = "style-animation"
	TypeStyleTransition  FeatureType = "style-transition"
	TypeUIElement        FeatureType = "ui-element"
	TypeNamedFunction    FeatureType = "named-function"
	TypeMetadataTag      FeatureType = "declarative-metadata-tag"
)

// criticalTypes are load-bearing for user trust: a dropped save key loses
// player data, a dropped canvas or audio hookup breaks the experience
// outright. A candidate missing any feature of these types fails
// verification regardless of its overall preservation ratio.
var criticalTypes = map[FeatureType]bool{
	TypeStorageKey:       true,
	TypeRenderingSurface: true,
	TypeAudioSubsystem:   true,
}

// Critical reports whether t is in the critical feature set.
func (t FeatureType) Critical() bool {
	return criticalTypes[t]
}

// Feature is one observed behavioral unit.
// Features are compared across before/after states by semantic identity
// (type + subtype), never by source position: the oracle freely reformats
// text, so line numbers are hints for humans, not join keys.
type Feature struct {
	// ID is derived deterministically from type and subtype so re-extraction
	// of unchanged source yields identical ids.
	ID string `json:"id"`
	// Type is the feature category.
	Type FeatureType `json:"type"`
	// Subtype narrows the category: the event name for an event binding,
	// the storage key, the CSS animation name, the tag#id pair, etc.
	Subtype string `json:"subtype"`
	// Evidence is the matched source fragment.
	Evidence string `json:"evidence"`
	// LineHint is the 1-based line of the first match, for display only.
	LineHint int `json:"line_hint"`
}

// featureID builds the stable identity key for a type/subtype pair.
func featureID(t FeatureType, subtype string) string {
	return fmt.Sprintf("%s:%s", t, subtype)
}

// Contract is the full set of features and tuned constants expected to
// survive a rewrite. It is built once from the "before" state and held
// immutable for the duration of one generation's verification.
type Contract struct {
	Features []Feature `json:"features"`
	// Constants maps upper-case symbolic constant names to the numeric
	// literal they were assigned. Values are kept as source text so strict
	// verification can demand the exact literal back.
	Constants map[string]string `json:"constants"`
	// Summary counts features per type.
	Summary map[FeatureType]int `json:"summary"`
}

// Empty reports whether the contract has nothing to preserve.
func (c *Contract) Empty() bool {
	return len(c.Features) == 0 && len(c.Constants) == 0
}

// MissingConstant records a constant that a candidate rewrite dropped
// (or, under strict verification, changed the value of).
type MissingConstant struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
}

// VerifyResult is the outcome of checking a candidate against a contract.
type VerifyResult struct {
	Passed           bool              `json:"passed"`
	Total            int               `json:"total"`
	Preserved        int               `json:"preserved"`
	Missing          []Feature         `json:"missing"`
	MissingConstants []MissingConstant `json:"missing_constants"`
	// PreservationRatio is preserved features over total features.
	// It is 1.0 for an empty contract.
	PreservationRatio float64 `json:"preservation_ratio"`
}
