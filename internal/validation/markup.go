// Package validation guards the engine's two text boundaries: external text
// going into AI prompts and markup coming out of the renderer.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-markup/internal/types"
)

// Violation types reported by CheckMarkup
const (
	ViolationUnescaped      = "unescaped_character"
	ViolationUnbalanced     = "unbalanced_braces"
	ViolationEmptyArgument  = "empty_argument"
	ViolationEmptyCommand   = "empty_command"
	ViolationStrayBackslash = "stray_backslash"
)

// zeroArgCommands legitimately end in {}
var zeroArgCommands = map[string]bool{
	"textbackslash":   true,
	"textasciicircum": true,
	"textasciitilde":  true,
	"ldots":           true,
	"par":             true,
	"newline":         true,
	"hfill":           true,
	"today":           true,
}

var (
	emptyArgPattern     = regexp.MustCompile(`\b([a-zA-Z]+)=\{\s*\}`)
	emptyCommandPattern = regexp.MustCompile(`\\([a-zA-Z]+)\{\s*\}`)
)

// CheckMarkup lints a rendered body for characters that would break or
// silently change LaTeX compilation: unescaped reserved characters,
// unbalanced braces and commands with empty arguments. A line whose first
// non-blank character is % is a comment and is skipped.
func CheckMarkup(body string) []types.Violation {
	var violations []types.Violation
	for i, line := range strings.Split(body, "\n") {
		lineNum := i + 1
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		violations = append(violations, scanLine(line, lineNum)...)

		for _, m := range emptyArgPattern.FindAllStringSubmatch(line, -1) {
			violations = append(violations, types.Violation{
				Type:       ViolationEmptyArgument,
				Severity:   types.SeverityWarning,
				Details:    fmt.Sprintf("argument %q is empty", m[1]),
				LineNumber: lineNum,
			})
		}
		for _, m := range emptyCommandPattern.FindAllStringSubmatch(line, -1) {
			if zeroArgCommands[m[1]] {
				continue
			}
			violations = append(violations, types.Violation{
				Type:       ViolationEmptyCommand,
				Severity:   types.SeverityWarning,
				Details:    fmt.Sprintf(`\%s has no content`, m[1]),
				LineNumber: lineNum,
			})
		}
	}
	return violations
}

// scanLine walks one line tracking escapes and brace depth
func scanLine(line string, lineNum int) []types.Violation {
	var violations []types.Violation
	depth := 0
	add := func(kind, details string, col int) {
		violations = append(violations, types.Violation{
			Type:       kind,
			Severity:   types.SeverityError,
			Details:    details,
			LineNumber: lineNum,
			Column:     col,
		})
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '\\':
			if i+1 >= len(line) {
				add(ViolationStrayBackslash, "line ends with a backslash", i+1)
				continue
			}
			next := line[i+1]
			switch {
			case isLetter(next):
				for i+1 < len(line) && isLetter(line[i+1]) {
					i++
				}
			case strings.IndexByte(`{}$&%#_`, next) >= 0:
				i++
			default:
				add(ViolationStrayBackslash, fmt.Sprintf(`unexpected "\%c"`, next), i+1)
				i++
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				add(ViolationUnbalanced, "closing brace without an opening brace", i+1)
				depth = 0
			}
		case '$', '&', '%', '#', '_', '^', '~':
			add(ViolationUnescaped, fmt.Sprintf("unescaped %q", c), i+1)
		}
	}
	if depth > 0 {
		add(ViolationUnbalanced, fmt.Sprintf("%d unclosed brace(s)", depth), len(line))
	}
	return violations
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
