package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/syntaxdoc/pkg/runner"
)

// outputVersion identifies the JSON and msgpack document layout.
const outputVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's tokens.
type JSONFileResult struct {
	Path     string      `json:"path"`
	Language string      `json:"language,omitempty"`
	Status   string      `json:"status"`
	Bytes    int         `json:"bytes"`
	Blocks   int         `json:"blocks,omitempty"`
	Tokens   []JSONToken `json:"tokens"`
	Error    string      `json:"error,omitempty"`
}

// JSONToken represents a single token. Text is omitted in compact mode.
type JSONToken struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int            `json:"filesDiscovered"`
	FilesProcessed  int            `json:"filesProcessed"`
	FilesPartial    int            `json:"filesPartial"`
	FilesErrored    int            `json:"filesErrored"`
	TotalTokens     int            `json:"totalTokens"`
	ByKind          map[string]int `json:"byKind"`
	ByLanguage      map[string]int `json:"byLanguage"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildJSONOutput(result, r.opts)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalTokens, nil
}

func buildJSONOutput(result *runner.Result, opts Options) *JSONOutput {
	output := &JSONOutput{
		Version: outputVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByKind:     make(map[string]int),
			ByLanguage: make(map[string]int),
		},
	}
	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     opts.displayPath(file.Path),
			Language: file.Language,
			Status:   file.Parse.Status.String(),
			Bytes:    len(file.Content),
			Blocks:   file.Blocks,
			Tokens:   make([]JSONToken, 0, len(file.Tokens)),
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		} else if file.Parse.Err != nil {
			fileResult.Error = file.Parse.Err.Error()
		}

		for _, tok := range file.Tokens {
			jsonTok := JSONToken{Offset: tok.Start, Length: tok.Length, Kind: tok.Kind.String()}
			if !opts.Compact {
				jsonTok.Text = string(tok.Text(file.Content))
			}
			fileResult.Tokens = append(fileResult.Tokens, jsonTok)
		}
		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesDiscovered = stats.FilesDiscovered
	output.Summary.FilesProcessed = stats.FilesProcessed
	output.Summary.FilesPartial = stats.FilesPartial
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.TotalTokens = stats.TokensTotal
	for kind, n := range stats.TokensByKind {
		output.Summary.ByKind[kind.String()] = n
	}
	for lang, n := range stats.FilesByLanguage {
		output.Summary.ByLanguage[lang] = n
	}

	return output
}
