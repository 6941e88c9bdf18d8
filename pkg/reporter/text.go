package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/syntaxdoc/internal/ui/pretty"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
)

// TextReporter prints each file's source with tokens colored by kind.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to tokenize."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, file.Language, len(file.Tokens)))
		fmt.Fprint(r.bw, r.styles.Highlight(file.Content, file.Tokens))
		if n := len(file.Content); n > 0 && file.Content[n-1] != '\n' {
			fmt.Fprintln(r.bw)
		}
		if file.Parse.Partial() {
			fmt.Fprintln(r.bw, r.styles.Warning.Render(fmt.Sprintf("partial: %v", file.Parse.Err)))
		}
		fmt.Fprintln(r.bw)
		total += len(file.Tokens)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
