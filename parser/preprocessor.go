package parser

import "strings"

// Line is one surviving physical source line after preprocessing, paired
// with its 1-based origin line number (SPEC_FULL.md §4.1).
type Line struct {
	Text   string
	Origin int
}

// Preprocess strips comments and blank lines, normalizes internal
// whitespace, and preserves the original line number of each surviving
// line. It is idempotent: feeding the Text of the returned Lines back
// through Preprocess yields the same Text values (Invariant 3).
func Preprocess(source string) []Line {
	rawLines := strings.Split(source, "\n")
	lines := make([]Line, 0, len(rawLines))

	for i, raw := range rawLines {
		origin := i + 1

		trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "\t", " "))
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		cleaned := stripCommentAndCollapseSpace(trimmed)
		if cleaned == "" {
			continue
		}

		lines = append(lines, Line{Text: cleaned, Origin: origin})
	}

	return lines
}

// stripCommentAndCollapseSpace walks a trimmed line, stopping at the first
// '#', collapsing runs of internal spaces to one, and trimming the result.
func stripCommentAndCollapseSpace(s string) string {
	var sb strings.Builder
	spaceSeen := false

	for _, ch := range s {
		if ch == '#' {
			break
		}
		if ch == ' ' {
			if spaceSeen {
				continue
			}
			spaceSeen = true
			sb.WriteRune(ch)
			continue
		}
		spaceSeen = false
		sb.WriteRune(ch)
	}

	return strings.TrimSpace(sb.String())
}
