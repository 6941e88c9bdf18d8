package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/reporter"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
)

type lexFlags struct {
	format    string
	dialect   string
	ignore    []string
	jobs      int
	compact   bool
	noSummary bool
}

func newLexCommand() *cobra.Command {
	flags := &lexFlags{}

	cmd := &cobra.Command{
		Use:   "lex [paths...]",
		Short: "Tokenize SQL and Markdown files",
		Long:  lexLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLex(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, msgpack, summary")
	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "SQL dialect: ansi, postgres, mysql, oracle (default: detect)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "omit token text from output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the summary line")

	return cmd
}

const lexLongDescription = `Tokenize SQL files and SQL fenced blocks in Markdown files.

By default, scans .sql, .md and .markdown files in the current directory
and subdirectories. Each file becomes its own document; Markdown files are
tokenized block by block and reported at file offsets.

The exit status is 1 when any lexer stopped part way through a document
and 74 when a file could not be read.

Examples:
  syntaxdoc lex                      # Tokenize current directory
  syntaxdoc lex queries/             # Tokenize one directory
  syntaxdoc lex report.sql           # Tokenize a single file
  syntaxdoc lex --format table       # Tabular token listing
  syntaxdoc lex --format json        # JSON for other tools
  syntaxdoc lex --dialect postgres   # Force the PostgreSQL word tables`

func runLex(cmd *cobra.Command, args []string, flags *lexFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return usageError(fmt.Errorf("invalid format: %w", err))
	}

	// Only explicitly provided flags override file configuration.
	cliCfg := &config.Config{
		Format: config.OutputFormat(format),
		Jobs:   flags.jobs,
		Ignore: flags.ignore,
	}
	if cmd.Flags().Changed("dialect") {
		cliCfg.Dialect = flags.dialect
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting lex run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldDialect, cfg.Dialect,
	)

	result, err := runner.New(nil).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("lex run failed"), err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		TabSize:     cfg.TabSize,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	switch ExitCodeFromResult(result) {
	case ExitIOError:
		return ErrUnreadableFiles
	case ExitPartial:
		return ErrPartialParse
	}
	return nil
}
