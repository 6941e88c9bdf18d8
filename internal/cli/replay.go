package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/internal/script"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/edit"
	"github.com/yaklabco/syntaxdoc/pkg/fsutil"
)

type replayFlags struct {
	dialect   string
	write     bool
	print     bool
	diff      bool
	noBackups bool
}

func newReplayCommand() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay FILE SCRIPT",
		Short: "Apply an edit script to a file's document",
		Long: `Load FILE into a document and run the edit commands in SCRIPT against it.

Scripts ending in .yml or .yaml hold a list of steps; any other file is
read one command per line:

  insert OFFSET "TEXT"        replace OFFSET LENGTH "TEXT"
  remove OFFSET LENGTH        set "TEXT"
  undo | redo | clear | seal  at POS | range START END
  text | tokens | status

Query commands print their answers. --diff prints a unified diff of the
final text against FILE. With --write the final text replaces
FILE, after a backup unless backups are disabled; the file is left alone
when it changed on disk since it was read.

Examples:
  syntaxdoc replay query.sql edits.txt
  syntaxdoc replay query.sql edits.yml --print
  syntaxdoc replay query.sql edits.txt --diff
  syntaxdoc replay query.sql edits.txt --write`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "SQL dialect: ansi, postgres, mysql, oracle (default: detect)")
	cmd.Flags().BoolVar(&flags.write, "write", false, "write the edited text back to FILE")
	cmd.Flags().BoolVar(&flags.print, "print", false, "print the final text")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff of the edits")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "disable backup creation with --write")

	return cmd
}

func runReplay(cmd *cobra.Command, path, scriptPath string, flags *replayFlags) error {
	ctx := commandContext(cmd)

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("dialect") {
		cliCfg.Dialect = flags.dialect
	}
	if flags.noBackups {
		disabled := false
		cliCfg.Backups.Enabled = &disabled
	}
	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	data, _, err := fsutil.ReadFile(ctx, scriptPath)
	if err != nil {
		return err
	}
	cmds, err := script.Load(scriptPath, data)
	if err != nil {
		return usageError(fmt.Errorf("load script %s: %w", scriptPath, err))
	}

	doc, snap, lang, err := openDocument(ctx, path, cfg)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx).With(logging.FieldPath, path)
	logger.Debug("replaying script",
		logging.FieldScript, scriptPath,
		logging.FieldSteps, len(cmds),
		logging.FieldLanguage, lang,
	)

	original := doc.Text()
	out := cmd.OutOrStdout()
	if err := script.NewExecutor(stylesFor(cmd)).Run(ctx, doc, cmds, out); err != nil {
		return usageError(fmt.Errorf("replay %s: %w", scriptPath, err))
	}

	if flags.print {
		fmt.Fprint(out, doc.Text())
	}

	if flags.diff {
		if d := edit.DiffLines(path, original, doc.Text()); d != nil {
			fmt.Fprint(out, stylesFor(cmd).FormatDiff(d))
			logger.Debug("diff", logging.FieldAdded, d.Added, logging.FieldRemoved, d.Removed)
		}
	}

	if flags.write {
		written, err := fsutil.Rewrite(ctx, snap, []byte(doc.Text()), fsutil.WriteOptions{
			Backup: cfg.Backups.EnabledOrDefault(),
		})
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if written {
			logger.Info("file written", logging.FieldBytes, doc.Len())
		} else {
			logger.Debug("file unchanged")
		}
	}

	if doc.LastParse().Partial() {
		logger.Warn("lexer stopped early", logging.FieldError, doc.LastParse().Err)
		return ErrPartialParse
	}
	return nil
}
