package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/observability"
	"github.com/jonathan/resume-markup/internal/rendering"
	"github.com/jonathan/resume-markup/internal/validation"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		resumeFile string
		templateID string
		outFile    string
		archive    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a resume into LaTeX markup",
		Long: "Render a resume JSON document into a complete LaTeX document using the named template. " +
			"An unknown template falls back to the default.",
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

			out, err := a.renderer.Render(ctx, resume, templateID)
			if err != nil {
				return err
			}
			if out.FellBack {
				a.log.Warn("template not found, used default", map[string]interface{}{
					"requested": templateID,
					"used":      out.TemplateID,
				})
			}

			if archive {
				if a.svc.Archive == nil {
					a.log.Warn("--archive needs database.url, skipping", nil)
				} else {
					id, err := a.svc.Archive.SaveRender(ctx, out.TemplateID, out.FellBack, out.Markup)
					if err != nil {
						return err
					}
					a.log.Info("render archived", map[string]interface{}{"render_id": id.String()})
				}
			}

			if root.verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintViolations(
					validation.CheckMarkup(rendering.Body(resume, time.Now())))
			}
			return writeOutput(cmd.OutOrStdout(), outFile, out.Markup)
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to resume JSON file, or - for stdin (required)")
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template id (default: templates.default_id)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Path to output .tex file (default: stdout)")
	cmd.Flags().BoolVar(&archive, "archive", false, "Archive the rendered markup in the database")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
