package molt

import (
	"fmt"
	"regexp"
	"strings"
)

// disallowedNetworkRefs match references that would break the
// self-contained guarantee: external script/style/media loads, live
// network calls, remote imports. Artifacts must run offline from a single
// file.
var disallowedNetworkRefs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:src|href)\s*=\s*["']https?://`),
	regexp.MustCompile(`(?i)\bfetch\(\s*["']https?://`),
	regexp.MustCompile(`(?i)\bnew\s+WebSocket\(`),
	regexp.MustCompile(`(?i)\bnew\s+XMLHttpRequest\(`),
	regexp.MustCompile(`(?i)\bimport\s+[^;]{0,120}from\s*["']https?://`),
	regexp.MustCompile(`(?i)@import\s+(?:url\()?["']?https?://`),
}

// ValidateStructure checks that a candidate document carries the baseline
// scaffolding of a publishable artifact and stays self-contained. It is the
// cheap pre-check before contract verification; a candidate failing here is
// rejected without a feature-by-feature diff.
func ValidateStructure(doc string) error {
	trimmed := strings.TrimSpace(doc)
	if trimmed == "" {
		return fmt.Errorf("candidate document is empty")
	}
	lower := strings.ToLower(trimmed)
	if !strings.Contains(lower, "<!doctype html") && !strings.Contains(lower, "<html") {
		return fmt.Errorf("candidate lacks document scaffolding (no doctype or <html>)")
	}
	if !strings.Contains(lower, "<script") {
		return fmt.Errorf("candidate lacks an embedded script block")
	}
	for _, re := range disallowedNetworkRefs {
		if m := re.FindString(doc); m != "" {
			return fmt.Errorf("candidate references the network: %q", strings.TrimSpace(m))
		}
	}
	return nil
}
