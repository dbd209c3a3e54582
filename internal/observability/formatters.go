// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-markup/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to maxItemsToShow bullets under a heading
func writeList(sb *strings.Builder, heading, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), maxItemsToShow)] {
		fmt.Fprintf(sb, "  %s %s\n", bullet, item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

// scoreBar renders a 0-100 score as a 20 cell bar
func scoreBar(score int) string {
	filled := max(0, min(score, 100)) / 5
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

// PrintJobRequirement outputs a human-readable summary of extracted requirements.
func (p *Printer) PrintJobRequirement(req *types.JobRequirement) {
	if req == nil {
		return
	}

	var sb strings.Builder
	if req.Title != "" || req.Company != "" {
		fmt.Fprintf(&sb, "Role:     %s\n", req.Title)
		fmt.Fprintf(&sb, "Company:  %s\n", req.Company)
	}
	fmt.Fprintf(&sb, "Level:    %s\n", req.ExperienceLevel)
	fmt.Fprintf(&sb, "Source:   %s\n\n", req.Source)

	writeList(&sb, "Required Skills", "•", req.RequiredSkills)
	writeList(&sb, "Preferred Skills", "○", req.PreferredSkills)
	writeList(&sb, "Keywords", "-", req.Keywords)

	p.printBox("JOB REQUIREMENTS", sb.String())
}

// PrintMatchResult outputs the scores and lists of a match result.
func (p *Printer) PrintMatchResult(r *types.MatchResult) {
	if r == nil {
		return
	}

	var sb strings.Builder
	scores := []struct {
		label string
		value int
	}{
		{"Overall", r.OverallMatch},
		{"Skills", r.SkillsMatch},
		{"Experience", r.ExperienceMatch},
		{"Keywords", r.KeywordAlignment},
		{"ATS", r.ATSCompatibility},
	}
	for _, s := range scores {
		fmt.Fprintf(&sb, "%-11s %3d%% %s\n", s.label, s.value, scoreBar(s.value))
	}
	fmt.Fprintf(&sb, "\nMode: %s  Confidence: %s  Quality: %d\n", r.Mode, r.Confidence, r.ContentQuality)
	if r.FailureReason != "" {
		fmt.Fprintf(&sb, "AI unavailable: %s\n", r.FailureReason)
	}
	sb.WriteString("\n")

	writeList(&sb, "Matching Skills", "✓", r.MatchingSkills)
	writeList(&sb, "Missing Skills", "✗", r.MissingSkills)
	writeList(&sb, "Strong Points", "+", r.StrongPoints)
	writeList(&sb, "Recommendations", "→", r.Recommendations)

	p.printBox("JOB MATCH", sb.String())
}

// PrintQuality outputs a content quality assessment.
func (p *Printer) PrintQuality(q types.ContentQuality) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score: %d %s\n", q.Score, scoreBar(q.Score))
	if len(q.Issues) == 0 {
		sb.WriteString("✅ No missing content\n")
	} else {
		sb.WriteString("\n")
		for _, issue := range q.Issues {
			fmt.Fprintf(&sb, "⚠ %s\n", issue)
		}
	}
	p.printBox("CONTENT QUALITY", sb.String())
}

// PrintSuggestions outputs the differences between two resume versions.
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion) {
	if len(suggestions) == 0 {
		p.printBox("SUGGESTIONS", "No changes between versions")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d changes:\n\n", len(suggestions))
	for i, s := range suggestions {
		fmt.Fprintf(&sb, "[%s] %s\n", s.Type, s.Field)
		if s.Reason != "" {
			fmt.Fprintf(&sb, "  %s\n", s.Reason)
		}
		if i < len(suggestions)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("SUGGESTIONS", sb.String())
}

// PrintViolations outputs any problems found in rendered markup.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations []types.Violation) {
	if len(violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ MARKUP IS WELL FORMED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d problems:\n\n", len(violations))
	for i, v := range violations {
		details := v.Details
		if r := []rune(details); len(r) > 45 {
			details = string(r[:42]) + "..."
		}
		if v.LineNumber > 0 {
			fmt.Fprintf(&sb, "⚠ %s (line %d)\n", v.Type, v.LineNumber)
		} else {
			fmt.Fprintf(&sb, "⚠ %s\n", v.Type)
		}
		fmt.Fprintf(&sb, "  %s\n", details)
		if i < len(violations)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("MARKUP PROBLEMS", sb.String())
}
