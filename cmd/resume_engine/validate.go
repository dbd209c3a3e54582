package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/observability"
	"github.com/jonathan/resume-markup/internal/rendering"
	"github.com/jonathan/resume-markup/internal/types"
	"github.com/jonathan/resume-markup/internal/validation"
)

func newValidateCmd(_ *rootOptions) *cobra.Command {
	var (
		resumeFile   string
		maxLineChars int
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a resume renders to well-formed markup",
		Long: "Validate the resume against the input schema, render its body and lint the markup for " +
			"unescaped special characters, unbalanced braces and empty commands. " +
			"Errors fail the command; warnings fail it only with --strict.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resume, err := loadResume(resumeFile)
			if err != nil {
				return err
			}

			body := rendering.Body(resume, time.Now())
			violations := validation.CheckMarkup(body)
			violations = append(violations, validation.CheckLineLengths(body, maxLineChars)...)
			observability.NewPrinter(cmd.OutOrStdout()).PrintViolations(violations)

			failing := 0
			for _, v := range violations {
				if strict || v.Severity == types.SeverityError {
					failing++
				}
			}
			if failing > 0 {
				return fmt.Errorf("markup has %d problems", failing)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file, or - for stdin (required)")
	cmd.Flags().IntVar(&maxLineChars, "max-line-chars", 0, "Warn about lines with more visible characters than this (0 disables)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
