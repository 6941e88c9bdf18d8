package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/internal/ui/pretty"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// queryFile tokenizes one file the same way `lex` does and returns the
// outcome with an index over its tokens.
func queryFile(cmd *cobra.Command, path, dialect string) (runner.FileOutcome, *token.Index, *config.Config, error) {
	cliCfg := &config.Config{}
	if cmd.Flags().Changed("dialect") {
		cliCfg.Dialect = dialect
	}
	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return runner.FileOutcome{}, nil, nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return runner.FileOutcome{}, nil, nil, fmt.Errorf("resolve path: %w", err)
	}

	ctx := commandContext(cmd)
	outcome, err := runner.New(nil).TokenizeFile(ctx, abs, cfg)
	if err != nil {
		return outcome, nil, nil, err
	}
	if outcome.Parse.Partial() {
		logging.FromContext(ctx).Warn("lexer stopped early",
			logging.FieldPath, path, logging.FieldError, outcome.Parse.Err)
	}
	return outcome, token.NewIndex(outcome.Tokens), cfg, nil
}

func partialErr(outcome runner.FileOutcome) error {
	if outcome.Parse.Partial() {
		return ErrPartialParse
	}
	return nil
}

func newAtCommand() *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "at FILE POS",
		Short: "Show the token at a byte offset",
		Long: `Show the token touching byte offset POS in FILE.

A token touches every offset from its start up to and including its end,
so the offset just after a token still finds it. When two tokens meet,
the one starting at POS wins.

Examples:
  syntaxdoc at query.sql 0
  syntaxdoc at notes.md 120`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseOffset("position", args[1])
			if err != nil {
				return err
			}
			return runAt(cmd, args[0], pos, dialect)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect: ansi, postgres, mysql, oracle (default: detect)")

	return cmd
}

func runAt(cmd *cobra.Command, path string, pos int, dialect string) error {
	outcome, index, cfg, err := queryFile(cmd, path, dialect)
	if err != nil {
		return err
	}
	if pos > len(outcome.Content) {
		return usageError(fmt.Errorf("position %d is past the end of %s (%d bytes)", pos, path, len(outcome.Content)))
	}

	styles := stylesFor(cmd)
	out := cmd.OutOrStdout()

	line, column, text := sourceLine(outcome.Content, pos, cfg.TabSize)
	fmt.Fprintf(out, "%s%s\n", styles.FilePath.Render(path), styles.Location.Render(fmt.Sprintf(":%d:%d", line, column)))

	tok, ok := index.TokenAt(pos)
	if !ok {
		fmt.Fprintln(out, styles.Dim.Render("no token"))
	} else {
		fmt.Fprintln(out, styles.FormatToken(tok, outcome.Content))
	}
	writeContext(out, styles, text, column)

	return partialErr(outcome)
}

func writeContext(w io.Writer, styles *pretty.Styles, text string, column int) {
	fmt.Fprintln(w, "  "+text)
	fmt.Fprintln(w, "  "+styles.FormatCaret(column))
}

type rangeFlags struct {
	dialect string
	format  string
}

func newRangeCommand() *cobra.Command {
	flags := &rangeFlags{}

	cmd := &cobra.Command{
		Use:   "range FILE START END",
		Short: "List the tokens intersecting a byte range",
		Long: `List every token in FILE that overlaps the half-open byte range
[START, END). A token ending exactly at START or starting exactly at END
is not included.

Examples:
  syntaxdoc range query.sql 0 20
  syntaxdoc range query.sql 0 20 --format text`,
		Args: exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseOffset("start", args[1])
			if err != nil {
				return err
			}
			end, err := parseOffset("end", args[2])
			if err != nil {
				return err
			}
			if end < start {
				return usageError(fmt.Errorf("end %d is before start %d", end, start))
			}
			return runRange(cmd, args[0], start, end, flags)
		},
	}

	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "SQL dialect: ansi, postgres, mysql, oracle (default: detect)")
	cmd.Flags().StringVar(&flags.format, "format", "table", "output format: table, text")

	return cmd
}

func runRange(cmd *cobra.Command, path string, start, end int, flags *rangeFlags) error {
	if flags.format != "table" && flags.format != "text" {
		return usageError(fmt.Errorf("invalid format %q: must be table or text", flags.format))
	}

	outcome, index, cfg, err := queryFile(cmd, path, flags.dialect)
	if err != nil {
		return err
	}

	styles := stylesFor(cmd)
	out := cmd.OutOrStdout()
	tokens := slices.Collect(index.Range(start, end))

	fmt.Fprintln(out, styles.FormatFileHeader(path, outcome.Language, len(tokens)))
	switch {
	case len(tokens) == 0:
		fmt.Fprintln(out, styles.Dim.Render("no tokens"))
	case flags.format == "text":
		for _, tok := range tokens {
			fmt.Fprintln(out, "  "+styles.FormatToken(tok, outcome.Content))
		}
	default:
		formatter := pretty.NewTableFormatter(styles, terminalWidth(cmd), cfg.TabSize)
		fmt.Fprint(out, formatter.FormatTable(pretty.Rows(tokens, outcome.Content)))
	}

	return partialErr(outcome)
}
