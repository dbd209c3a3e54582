// Package main provides the resume_engine CLI: rendering, job analysis,
// scoring and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-markup/internal/config"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configPath string
	verbose    bool
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "resume_engine",
		Short: "Resume markup engine",
		Long: "resume_engine renders structured resumes into LaTeX markup through swappable templates " +
			"and scores how well a resume fits a job posting.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			opts.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: ./resume-engine.{yaml,json,toml})")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print human-readable summaries to stderr")
	flags.StringVar(&opts.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRenderCmd(opts),
		newValidateCmd(opts),
		newAnalyzeJobCmd(opts),
		newScoreCmd(opts),
		newQualityCmd(opts),
		newSuggestCmd(opts),
		newEvaluateCmd(opts),
		newTemplatesCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
