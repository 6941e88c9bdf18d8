package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/internal/ui/pretty"
	"github.com/yaklabco/syntaxdoc/pkg/document"
)

// Executor runs commands against a document.
type Executor struct {
	styles *pretty.Styles
}

// NewExecutor creates an executor that renders output with styles. A nil
// styles value means plain text.
func NewExecutor(styles *pretty.Styles) *Executor {
	if styles == nil {
		styles = pretty.NewStyles(false)
	}
	return &Executor{styles: styles}
}

// Exec runs cmd against doc with plain-text output.
func Exec(doc *document.Document, cmd Command) (string, error) {
	return NewExecutor(nil).Exec(doc, cmd)
}

// Exec runs one command and returns its printable output. Mutations print
// nothing on success; queries print their result without a trailing
// newline.
func (e *Executor) Exec(doc *document.Document, cmd Command) (string, error) {
	switch cmd.Op {
	case OpInsert:
		return "", doc.Insert(cmd.Offset, cmd.Text)
	case OpRemove:
		return "", doc.Remove(cmd.Offset, cmd.Length)
	case OpReplace:
		return "", doc.Replace(cmd.Offset, cmd.Length, cmd.Text)
	case OpSet:
		doc.SetText(cmd.Text)
		return "", nil
	case OpUndo:
		ok, err := doc.Undo()
		return outcome(ok, "nothing to undo"), err
	case OpRedo:
		ok, err := doc.Redo()
		return outcome(ok, "nothing to redo"), err
	case OpClear:
		doc.ClearUndo()
		return "", nil
	case OpSeal:
		doc.SealUndo()
		return "", nil
	case OpAt:
		tok, ok := doc.TokenAt(cmd.Offset)
		if !ok {
			return "no token", nil
		}
		return e.styles.FormatToken(tok, []byte(doc.Text())), nil
	case OpRange:
		content := []byte(doc.Text())
		var lines []string
		for tok := range doc.TokensInRange(cmd.Offset, cmd.End) {
			lines = append(lines, e.styles.FormatToken(tok, content))
		}
		if len(lines) == 0 {
			return "no tokens", nil
		}
		return strings.Join(lines, "\n"), nil
	case OpText:
		return fmt.Sprintf("%q", doc.Text()), nil
	case OpTokens:
		index := doc.Index()
		if index == nil {
			return "no index", nil
		}
		return e.styles.Highlight([]byte(doc.Text()), index.Tokens()), nil
	case OpStatus:
		parse := doc.LastParse()
		status := fmt.Sprintf("%d bytes, %d tokens, parse %s, undo %t, redo %t",
			doc.Len(), parse.Tokens, parse.Status, doc.CanUndo(), doc.CanRedo())
		if parse.Err != nil {
			status += ": " + parse.Err.Error()
		}
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}
}

func outcome(ok bool, miss string) string {
	if ok {
		return ""
	}
	return miss
}

// Run executes cmds in order, writing non-empty output to w. It stops at
// the first failing command and reports its position.
func (e *Executor) Run(ctx context.Context, doc *document.Document, cmds []Command, w io.Writer) error {
	logger := logging.FromContext(ctx)
	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("script cancelled: %w", err)
		}

		out, err := e.Exec(doc, cmd)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, cmd, err)
		}
		logger.Debug("step", logging.FieldOp, cmd.Op, logging.FieldOffset, cmd.Offset)
		if out != "" && w != nil {
			if _, err := fmt.Fprintln(w, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
	logger.Debug("script complete", logging.FieldSteps, len(cmds))
	return nil
}
