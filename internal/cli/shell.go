package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/internal/script"
	"github.com/yaklabco/syntaxdoc/internal/ui/pretty"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/fsutil"
	"github.com/yaklabco/syntaxdoc/pkg/langdetect"
	"github.com/yaklabco/syntaxdoc/pkg/lexer"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
)

const (
	shellPrompt  = "sql> "
	historyFile  = ".syntaxdoc_history"
	shellBanner  = "syntaxdoc shell. Type \"help\" for commands, \"quit\" to leave."
	errNoFileMsg = "no file to write; use: write PATH"
)

func newShellCommand() *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "shell [FILE]",
		Short: "Edit a document interactively",
		Long: `Open FILE, or an empty SQL document, and edit it one command at a time.

Every replay command is available, plus:

  help          list commands
  write [PATH]  save the text to FILE or PATH
  quit, exit    leave the shell

When standard input is not a terminal, commands are read from it line by
line without prompting.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, args, dialect)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect: ansi, postgres, mysql, oracle (default: detect)")

	return cmd
}

// shell is one interactive editing session.
type shell struct {
	doc    *document.Document
	path   string
	snap   *fsutil.Snapshot
	cfg    *config.Config
	exec   *script.Executor
	styles *pretty.Styles
	out    io.Writer
}

func runShell(cmd *cobra.Command, args []string, dialect string) error {
	ctx := commandContext(cmd)

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("dialect") {
		cliCfg.Dialect = dialect
	}
	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	styles := stylesFor(cmd)
	sh := &shell{
		cfg:    cfg,
		exec:   script.NewExecutor(styles),
		styles: styles,
		out:    cmd.OutOrStdout(),
	}

	if len(args) == 1 {
		sh.path = args[0]
		sh.doc, sh.snap, _, err = openDocument(ctx, sh.path, cfg)
		if err != nil {
			return err
		}
	} else {
		sh.doc, err = emptyDocument(ctx, cfg)
		if err != nil {
			return err
		}
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return sh.interactive(ctx)
	}
	return sh.batch(ctx, in)
}

func emptyDocument(ctx context.Context, cfg *config.Config) (*document.Document, error) {
	lexOpts, err := runner.LexerOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return document.New(
		document.WithLexer(lexer.DefaultRegistry.ForLanguage(langdetect.LangSQL, lexOpts)),
		document.WithLogger(logging.FromContext(ctx)),
		document.WithUndoLimit(cfg.Undo.LimitOrDefault()),
		document.WithCoalesceTyping(cfg.Undo.CoalesceOrDefault()),
	), nil
}

// batch runs commands read from r without prompting.
func (s *shell) batch(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if s.handle(ctx, scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

func (s *shell) interactive(ctx context.Context) error {
	fmt.Fprintln(s.out, s.styles.Dim.Render(shellBanner))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeOp)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		line, err := ln.Prompt(shellPrompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			// EOF (Ctrl+D) ends the session.
			fmt.Fprintln(s.out)
			break
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.handle(ctx, line) {
			break
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

// handle runs one input line and reports whether the session should end.
func (s *shell) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) > 0 {
		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return true
		case "help":
			s.help()
			return false
		case "write":
			target := ""
			if rest := strings.TrimSpace(line[strings.Index(line, fields[0])+len(fields[0]):]); rest != "" {
				target = unquote(rest)
			}
			if err := s.write(ctx, target); err != nil {
				s.fail(err)
			}
			return false
		}
	}

	cmd, ok, err := script.Parse(line)
	if err != nil {
		s.fail(err)
		return false
	}
	if !ok {
		return false
	}

	out, err := s.exec.Exec(s.doc, cmd)
	if err != nil {
		s.fail(err)
		return false
	}
	if out != "" {
		fmt.Fprintln(s.out, out)
	}
	return false
}

func (s *shell) fail(err error) {
	fmt.Fprintln(s.out, s.styles.Error.Render("error:")+" "+err.Error())
}

func (s *shell) help() {
	var b strings.Builder
	b.WriteString(s.styles.Bold.Render("Commands:") + "\n")
	for _, op := range script.Ops() {
		fmt.Fprintf(&b, "  %s\n", opUsage(op))
	}
	b.WriteString("  write [PATH]\n  quit")
	fmt.Fprintln(s.out, b.String())
}

func opUsage(op script.Op) string {
	switch op {
	case script.OpInsert:
		return `insert OFFSET "TEXT"`
	case script.OpRemove:
		return "remove OFFSET LENGTH"
	case script.OpReplace:
		return `replace OFFSET LENGTH "TEXT"`
	case script.OpSet:
		return `set "TEXT"`
	case script.OpAt:
		return "at POS"
	case script.OpRange:
		return "range START END"
	default:
		return string(op)
	}
}

// write saves the document to target, or back to the file it was opened
// from when target is empty.
func (s *shell) write(ctx context.Context, target string) error {
	content := []byte(s.doc.Text())

	if target == "" {
		if s.snap == nil {
			return errors.New(errNoFileMsg)
		}
		written, err := fsutil.Rewrite(ctx, s.snap, content, fsutil.WriteOptions{
			Backup: s.cfg.Backups.EnabledOrDefault(),
		})
		if err != nil {
			return err
		}
		if !written {
			fmt.Fprintf(s.out, "%s unchanged\n", s.path)
			return nil
		}
		// Later writes compare against what is now on disk.
		if _, snap, err := fsutil.ReadFile(ctx, s.path); err == nil {
			s.snap = snap
		}
		fmt.Fprintf(s.out, "wrote %d bytes to %s\n", len(content), s.path)
		return nil
	}

	if err := fsutil.WriteAtomic(ctx, target, content, 0); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %d bytes to %s\n", len(content), target)
	return nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

func completeOp(line string) []string {
	if strings.ContainsRune(line, ' ') {
		return nil
	}
	var matches []string
	for _, name := range append(opNames(), "help", "write", "quit") {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			matches = append(matches, name)
		}
	}
	return matches
}

func opNames() []string {
	ops := script.Ops()
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, string(op))
	}
	return names
}
