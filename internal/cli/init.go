package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new syntaxdoc configuration file",
		Long: `Create a new .syntaxdoc.yml configuration file in the current directory.
Every setting is listed with its default and commented out, so the file
changes nothing until a line is uncommented.

Examples:
  syntaxdoc init                     Create .syntaxdoc.yml
  syntaxdoc init --format toml       Create .syntaxdoc.toml instead
  syntaxdoc init --output custom.yml Write to a custom file path`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .syntaxdoc.yml or .syntaxdoc.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	format := config.FileFormat(flags.format)
	if format != config.FileYAML && format != config.FileTOML {
		return usageError(fmt.Errorf("invalid format %q: must be yaml or toml", flags.format))
	}

	outputPath := flags.output
	if outputPath == "" {
		if format == config.FileTOML {
			outputPath = ".syntaxdoc.toml"
		} else {
			outputPath = ".syntaxdoc.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return usageError(fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, config.GenerateTemplate(format), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")

	return nil
}
