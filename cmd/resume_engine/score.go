package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/observability"
	"github.com/jonathan/resume-markup/internal/scoring"
	"github.com/jonathan/resume-markup/internal/types"
)

func newScoreCmd(root *rootOptions) *cobra.Command {
	var (
		resumeFile       string
		requirementsFile string
		job              jobFlags
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score how well a resume fits a job",
		Long: "Compute overall, skills, experience, keyword and ATS scores for a resume against a job posting " +
			"or previously extracted requirements. Scores are capped by resume content quality.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			resume, err := loadResume(resumeFile)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			in := scoring.Input{Resume: resume}
			if in.JobText, err = job.jobText(); err != nil {
				return err
			}
			if in.JobText == "" && job.url != "" {
				if in.JobText, err = a.extractor.FetchText(ctx, job.url); err != nil {
					return err
				}
			}

			switch {
			case requirementsFile != "":
				content, err := os.ReadFile(requirementsFile)
				if err != nil {
					return fmt.Errorf("failed to read requirements file: %w", err)
				}
				var req types.JobRequirement
				if err := json.Unmarshal(content, &req); err != nil {
					return fmt.Errorf("failed to parse requirements file: %w", err)
				}
				in.Requirements = &req
			case strings.TrimSpace(in.JobText) != "":
				in.Requirements = a.extractor.Analyze(ctx, in.JobText)
			}

			result := a.engine.Score(ctx, in)
			if root.verbose {
				p := observability.NewPrinter(cmd.ErrOrStderr())
				p.PrintJobRequirement(in.Requirements)
				p.PrintMatchResult(result)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file, or - for stdin (required)")
	cmd.Flags().StringVar(&requirementsFile, "requirements", "", "Path to JobRequirement JSON from analyze-job")
	addJobFlags(cmd, &job)
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
