package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-markup/internal/types"
)

func TestVisibleLength(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"Short line", 10},
		{`\item \textbf{Go} -- built \& shipped`, 20},
		{`\textbf{\textit{nested}}`, 6},
		{`\section*{Experience}`, 10},
		{`\href[pdfnewwindow]{https://x.io}`, 12},
		{`100\% uptime \\`, 11},
		{"   ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, VisibleLength(tt.line))
		})
	}
}

func TestCheckLineLengths(t *testing.T) {
	body := strings.Join([]string{
		`\section{Experience}`,
		`\item ` + strings.Repeat("a", 100),
		`% ` + strings.Repeat("b", 200),
		`\item \textbf{` + strings.Repeat("c", 50) + `}`,
	}, "\n")

	violations := CheckLineLengths(body, 90)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationLineTooLong, violations[0].Type)
	assert.Equal(t, types.SeverityWarning, violations[0].Severity)
	assert.Equal(t, 2, violations[0].LineNumber)
	assert.Contains(t, violations[0].Details, "100 visible characters")
}

func TestCheckLineLengths_Disabled(t *testing.T) {
	assert.Nil(t, CheckLineLengths(strings.Repeat("x", 500), 0))
}
