// Package cli provides the Cobra command structure for syntaxdoc.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntaxdoc/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root syntaxdoc command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "syntaxdoc",
		Short: "Incremental SQL tokenizer with position queries and undo",
		Long: `syntaxdoc keeps SQL text in an editable document that re-lexes after
every change and answers position queries against the resulting tokens.

It tokenizes .sql files and SQL fenced blocks in Markdown, replays edit
scripts with undo and redo, offers an interactive editing shell, and serves
semantic tokens to editors over the Language Server Protocol.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newLexCommand())
	rootCmd.AddCommand(newAtCommand())
	rootCmd.AddCommand(newRangeCommand())
	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newShellCommand())
	rootCmd.AddCommand(newLSPCommand(info))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
