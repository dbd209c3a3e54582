package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/db"
	"github.com/jonathan/resume-markup/internal/templates"
)

func newTemplatesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and manage markup templates",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in template ids",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, id := range templates.BuiltinIDs() {
				marker := " "
				if id == root.cfg.Templates.DefaultID {
					marker = "*"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	var id, file string
	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Validate a template skeleton and store it in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read template file: %w", err)
			}
			asset := templates.TemplateAsset{ID: id, Skeleton: string(content)}
			if err := asset.Validate(); err != nil {
				return err
			}
			if !templates.ValidID(id) {
				return fmt.Errorf("invalid template id %q", id)
			}
			if root.cfg.Database.URL == "" {
				return fmt.Errorf("database.url is required to push templates")
			}

			ctx := cmd.Context()
			database, err := db.Connect(ctx, root.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := database.Templates().Save(ctx, asset); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stored template %s\n", id)
			return err
		},
	}
	pushCmd.Flags().StringVar(&id, "id", "", "Template id (required)")
	pushCmd.Flags().StringVarP(&file, "file", "f", "", "Path to .tex skeleton containing {{.Content}} (required)")
	_ = pushCmd.MarkFlagRequired("id")
	_ = pushCmd.MarkFlagRequired("file")

	cmd.AddCommand(listCmd, pushCmd)
	return cmd
}
