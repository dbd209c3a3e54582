package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/observability"
	"github.com/jonathan/resume-markup/internal/suggestions"
)

func newSuggestCmd(root *rootOptions) *cobra.Command {
	var originalFile, optimizedFile string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List the changes between an original and an optimized resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			original, err := loadResume(originalFile)
			if err != nil {
				return err
			}
			optimized, err := loadResume(optimizedFile)
			if err != nil {
				return err
			}

			changes := suggestions.Generate(original, optimized)
			if root.verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintSuggestions(changes)
			}
			return writeJSON(cmd.OutOrStdout(), changes)
		},
	}

	cmd.Flags().StringVar(&originalFile, "original", "", "Path to the original resume JSON (required)")
	cmd.Flags().StringVar(&optimizedFile, "optimized", "", "Path to the optimized resume JSON (required)")
	_ = cmd.MarkFlagRequired("original")
	_ = cmd.MarkFlagRequired("optimized")
	return cmd
}
