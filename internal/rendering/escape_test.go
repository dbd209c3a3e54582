package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
		{"plain", "This is normal text", "This is normal text"},
		{"backslash", `test\backslash`, `test\textbackslash{}backslash`},
		{"braces", "text{with}braces", `text\{with\}braces`},
		{"dollar", "cost $100", `cost \$100`},
		{"ampersand", "A & B", `A \& B`},
		{"percent", "100% complete", `100\% complete`},
		{"hash", "issue #123", `issue \#123`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "variable_name", `variable\_name`},
		{"tilde", "~/home", `\textasciitilde{}/home`},
		{"en dash", "2019–2021", "2019--2021"},
		{"em dash", "fast—reliable", "fast--reliable"},
		{"ellipsis", "and more…", `and more\ldots{}`},
		{"collapses newlines", "line one\n\n  line   two", "line one line two"},
		{"backslash then brace", `\{`, `\textbackslash{}\{`},
		{"all specials", `\{}$&%#_^~`, `\textbackslash{}\{\}\$\&\%\#\_\textasciicircum{}\textasciitilde{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

// stripEscapes removes every escape sequence Escape can produce so that any
// reserved character left over is one that was not escaped
func stripEscapes(s string) string {
	r := strings.NewReplacer(
		`\textbackslash{}`, "",
		`\textasciicircum{}`, "",
		`\textasciitilde{}`, "",
		`\ldots{}`, "",
		`\{`, "", `\}`, "", `\$`, "", `\&`, "", `\%`, "", `\#`, "", `\_`, "",
	)
	return r.Replace(s)
}

func TestEscape_NoUnescapedReservedCharacters(t *testing.T) {
	inputs := []string{
		`C:\Users\{name}`,
		"50% of $ & # _ ^ ~ {x}",
		`\\\\}}}{{{`,
		"R&D_team ~ 100%\n#1",
		`\textbf{bold}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out := stripEscapes(Escape(in))
			assert.False(t, strings.ContainsAny(out, `\{}$&%#_^~`), "unescaped character in %q", Escape(in))
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\n b\t\tc  "))
	assert.Equal(t, "", CollapseWhitespace("\n"))
}
