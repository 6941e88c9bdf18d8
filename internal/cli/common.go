package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/syntaxdoc/internal/configloader"
	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/internal/ui/pretty"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/fsutil"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
)

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

// loadConfig resolves configuration from files, environment and the
// explicitly set flags in cliCfg.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}

func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}

func stylesFor(cmd *cobra.Command) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
}

func terminalWidth(cmd *cobra.Command) int {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 0
}

// parseOffset parses a non-negative byte offset argument.
func parseOffset(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usageError(fmt.Errorf("%s %q is not a number", name, arg))
	}
	if n < 0 {
		return 0, usageError(fmt.Errorf("%s %d is negative", name, n))
	}
	return n, nil
}

// openDocument reads path into a document with the lexer Run would pick
// for it. The snapshot guards a later rewrite of the same file.
func openDocument(ctx context.Context, path string, cfg *config.Config) (*document.Document, *fsutil.Snapshot, string, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, nil, "", err
	}

	lx, lang, err := runner.New(nil).LexerFor(path, content, cfg)
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	doc := document.New(
		document.WithText(string(content)),
		document.WithLexer(lx),
		document.WithLogger(logging.FromContext(ctx).With(logging.FieldPath, path)),
		document.WithUndoLimit(cfg.Undo.LimitOrDefault()),
		document.WithCoalesceTyping(cfg.Undo.CoalesceOrDefault()),
	)
	return doc, snap, lang, nil
}

// sourceLine returns the 1-based line and display column of pos, and the
// text of its line with tabs expanded.
func sourceLine(content []byte, pos, tabSize int) (line, column int, text string) {
	pos = min(max(pos, 0), len(content))
	if tabSize <= 0 {
		tabSize = config.DefaultTabSize
	}

	start := strings.LastIndexByte(string(content[:pos]), '\n') + 1
	end := strings.IndexByte(string(content[pos:]), '\n')
	if end < 0 {
		end = len(content)
	} else {
		end += pos
	}

	line = strings.Count(string(content[:start]), "\n") + 1
	tabs := strings.Repeat(" ", tabSize)
	prefix := strings.ReplaceAll(string(content[start:pos]), "\t", tabs)
	text = strings.TrimSuffix(strings.ReplaceAll(string(content[start:end]), "\t", tabs), "\r")
	return line, runewidth.StringWidth(prefix) + 1, text
}
