package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-markup/internal/types"
)

// ViolationLineTooLong is reported by CheckLineLengths
const ViolationLineTooLong = "line_too_long"

var (
	// commandArgPattern matches \command{argument}; the argument is kept
	commandArgPattern = regexp.MustCompile(`\\[a-zA-Z]+\*?(?:\[[^\]]*\])?\{([^{}]*)\}`)
	// bareCommandPattern matches escapes and argument-less commands
	bareCommandPattern = regexp.MustCompile(`\\([a-zA-Z]+\*?|.)`)
)

// CheckLineLengths warns about body lines whose visible text exceeds
// maxChars. Markup commands are stripped before counting so only printed
// characters count. maxChars <= 0 disables the check.
func CheckLineLengths(body string, maxChars int) []types.Violation {
	if maxChars <= 0 {
		return nil
	}

	var violations []types.Violation
	for i, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		if n := VisibleLength(line); n > maxChars {
			violations = append(violations, types.Violation{
				Type:       ViolationLineTooLong,
				Severity:   types.SeverityWarning,
				Details:    fmt.Sprintf("%d visible characters, maximum is %d", n, maxChars),
				LineNumber: i + 1,
			})
		}
	}
	return violations
}

// VisibleLength approximates the printed width of one markup line
func VisibleLength(line string) int {
	// innermost arguments first so nested commands unwrap fully
	for {
		next := commandArgPattern.ReplaceAllString(line, "$1")
		if next == line {
			break
		}
		line = next
	}
	line = bareCommandPattern.ReplaceAllStringFunc(line, func(m string) string {
		if len(m) == 2 && strings.ContainsAny(m[1:], `{}$&%#_`) {
			return m[1:]
		}
		return ""
	})
	line = strings.NewReplacer("{", "", "}", "", "--", "-").Replace(line)
	return utf8.RuneCountInString(strings.TrimSpace(line))
}
