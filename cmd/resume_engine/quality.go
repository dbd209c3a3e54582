package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/observability"
	"github.com/jonathan/resume-markup/internal/quality"
)

func newQualityCmd(root *rootOptions) *cobra.Command {
	var resumeFile string

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Assess resume content completeness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resume, err := loadResume(resumeFile)
			if err != nil {
				return err
			}

			assessor := quality.Assessor{Weights: root.cfg.Scoring.Weights}
			q := assessor.Assess(resume)
			if root.verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintQuality(q)
			}
			return writeJSON(cmd.OutOrStdout(), q)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
