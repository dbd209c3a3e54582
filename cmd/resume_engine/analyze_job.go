package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/observability"
	"github.com/jonathan/resume-markup/internal/types"
)

func addJobFlags(cmd *cobra.Command, j *jobFlags) {
	cmd.Flags().StringVar(&j.file, "job-file", "", "Path to job posting text file, or - for stdin")
	cmd.Flags().StringVar(&j.text, "job-text", "", "Job posting text")
	cmd.Flags().StringVar(&j.url, "job-url", "", "Job posting URL to fetch")
	cmd.MarkFlagsMutuallyExclusive("job-file", "job-text", "job-url")
}

func newAnalyzeJobCmd(root *rootOptions) *cobra.Command {
	var job jobFlags

	cmd := &cobra.Command{
		Use:   "analyze-job",
		Short: "Extract structured requirements from a job posting",
		Long: "Extract title, company, skills, experience level and keywords from a job posting. " +
			"Without an AI key, skills are detected from a fixed vocabulary.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if job.empty() {
				return fmt.Errorf("one of --job-file, --job-text or --job-url is required")
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var req *types.JobRequirement
			if job.url != "" {
				text, err := a.extractor.FetchText(ctx, job.url)
				if err != nil {
					return err
				}
				req = a.extractor.Analyze(ctx, text)
			} else {
				text, err := job.jobText()
				if err != nil {
					return err
				}
				req = a.extractor.Analyze(ctx, text)
			}

			if root.verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintJobRequirement(req)
			}
			return writeJSON(cmd.OutOrStdout(), req)
		},
	}

	addJobFlags(cmd, &job)
	return cmd
}
