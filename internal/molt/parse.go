package molt

import (
	"regexp"
	"strings"
)

var (
	reFence    = regexp.MustCompile("(?s)```(?:html)?\\s*(.*?)```")
	reDocStart = regexp.MustCompile(`(?i)<!doctype\s+html|<html[\s>]`)
)

// ExtractDocument pulls a complete HTML document out of a raw oracle reply.
// Oracles wrap their output unpredictably: code fences, preambles,
// trailing commentary. The document is everything from the first doctype
// (or <html) marker through the last closing </html> tag. Returns false
// when no document can be located.
func ExtractDocument(reply string) (string, bool) {
	text := reply

	// Prefer fenced blocks when one contains a document.
	for _, m := range reFence.FindAllStringSubmatch(reply, -1) {
		if reDocStart.MatchString(m[1]) {
			text = m[1]
			break
		}
	}

	loc := reDocStart.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	end := strings.LastIndex(strings.ToLower(text), "</html>")
	if end < 0 || end < loc[0] {
		// No closing tag; take the rest of the text. Structural validation
		// decides whether the fragment stands on its own.
		return strings.TrimSpace(text[loc[0]:]), true
	}
	return strings.TrimSpace(text[loc[0] : end+len("</html>")]), true
}
