// Package rendering turns a canonical resume record into LaTeX markup.
package rendering

import "strings"

// Escape collapses whitespace and escapes LaTeX reserved characters in one pass.
// Special characters: \ { } $ & % # _ ^ ~
// En/em dashes become "--" and the ellipsis character becomes \ldots{}.
//
// Escape raw text exactly once: replacements are never re-scanned, so the
// output of a previous call is not safe input.
func Escape(text string) string {
	text = CollapseWhitespace(text)
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '_':
			result.WriteString(`\_`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '–', '—':
			result.WriteString("--")
		case '…':
			result.WriteString(`\ldots{}`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// CollapseWhitespace folds every run of whitespace, including newlines, into
// a single space and trims the ends.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
