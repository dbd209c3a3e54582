package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/observability"
	"github.com/jonathan/resume-markup/internal/pipeline"
)

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	var (
		resumeFile string
		templateID string
		markupFile string
		job        jobFlags
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Render a resume and score it against a job in one pass",
		Long: "Render the resume while the job posting is analyzed and scored concurrently. " +
			"Prints the combined result as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			resume, err := loadResume(resumeFile)
			if err != nil {
				return err
			}
			jobText, err := job.jobText()
			if err != nil {
				return err
			}

			a, err := newApp(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			req := pipeline.Request{
				Resume:     resume,
				TemplateID: templateID,
				JobText:    jobText,
				JobURL:     job.url,
			}
			if root.verbose {
				req.OnProgress = func(e pipeline.ProgressEvent) {
					a.log.Info(e.Message, map[string]interface{}{"step": e.Step})
				}
			}

			ev, err := pipeline.Evaluate(ctx, a.svc, req)
			if err != nil {
				return err
			}

			if markupFile != "" {
				if err := writeOutput(nil, markupFile, ev.Render.Markup); err != nil {
					return err
				}
			}
			if root.verbose {
				p := observability.NewPrinter(cmd.ErrOrStderr())
				p.PrintJobRequirement(ev.Requirements)
				p.PrintMatchResult(ev.Match)
				p.PrintQuality(ev.Quality)
			}
			return writeJSON(cmd.OutOrStdout(), ev)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file, or - for stdin (required)")
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template id (default: templates.default_id)")
	cmd.Flags().StringVar(&markupFile, "markup-out", "", "Also write the rendered .tex to this path")
	addJobFlags(cmd, &job)
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
