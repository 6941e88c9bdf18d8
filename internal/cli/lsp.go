package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/internal/lsp"
	"github.com/yaklabco/syntaxdoc/pkg/config"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
)

func newLSPCommand(info BuildInfo) *cobra.Command {
	var dialect string
	var verbosity int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Serve semantic tokens over the Language Server Protocol",
		Long: `Run a language server on standard input and output.

Each open SQL file is kept in a document that applies the client's
incremental changes, so every didChange becomes one undoable step. The
server answers semantic token requests for whole files and ranges, shows
the token under the cursor on hover, and reports warning tokens such as
unterminated strings as diagnostics.

Logs go to standard error; standard output carries the protocol.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCfg := &config.Config{}
			if cmd.Flags().Changed("dialect") {
				cliCfg.Dialect = dialect
			}
			cfg, err := loadConfig(cmd, cliCfg)
			if err != nil {
				return err
			}
			lexOpts, err := runner.LexerOptions(cfg)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrConfig, err)
			}

			server := lsp.New(lsp.Options{
				Version:      info.Version,
				LexerOptions: lexOpts,
				UndoLimit:    cfg.Undo.LimitOrDefault(),
				Logger:       logging.FromContext(commandContext(cmd)),
				Verbosity:    verbosity,
			})
			if err := server.RunStdio(); err != nil {
				return fmt.Errorf("language server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect: ansi, postgres, mysql, oracle (default: detect)")
	cmd.Flags().IntVar(&verbosity, "protocol-log", -1, "protocol log verbosity on stderr (-1 = off)")

	return cmd
}
