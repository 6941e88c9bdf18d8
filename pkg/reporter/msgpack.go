package reporter

import (
	"bufio"
	"context"
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/syntaxdoc/pkg/runner"
	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// MsgpackOutput is the binary counterpart of JSONOutput. Tokens are packed
// as fixed-width triples to keep large token streams small.
type MsgpackOutput struct {
	Version string              `msgpack:"version"`
	Kinds   []string            `msgpack:"kinds"`
	Files   []MsgpackFileResult `msgpack:"files"`
}

// MsgpackFileResult holds one file's token stream.
type MsgpackFileResult struct {
	Path     string         `msgpack:"path"`
	Language string         `msgpack:"language,omitempty"`
	Status   string         `msgpack:"status"`
	Tokens   []MsgpackToken `msgpack:"tokens"`
	Error    string         `msgpack:"error,omitempty"`
}

// MsgpackToken is encoded as an array [offset, length, kind], where kind
// indexes MsgpackOutput.Kinds.
type MsgpackToken struct {
	_msgpack struct{} `msgpack:",as_array"` //nolint:unused // Encoding directive.

	Offset uint32
	Length uint32
	Kind   uint16
}

// MsgpackReporter formats results as MessagePack.
type MsgpackReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewMsgpackReporter creates a new MessagePack reporter.
func NewMsgpackReporter(opts Options) *MsgpackReporter {
	return &MsgpackReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *MsgpackReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output, total, err := buildMsgpackOutput(result, r.opts)
	if err != nil {
		return 0, err
	}
	if err := msgpack.NewEncoder(r.bw).Encode(output); err != nil {
		return 0, fmt.Errorf("encode msgpack: %w", err)
	}
	return total, nil
}

func buildMsgpackOutput(result *runner.Result, opts Options) (*MsgpackOutput, int, error) {
	kinds := token.Kinds()
	output := &MsgpackOutput{
		Version: outputVersion,
		Kinds:   make([]string, 0, len(kinds)),
		Files:   make([]MsgpackFileResult, 0),
	}
	for _, kind := range kinds {
		output.Kinds = append(output.Kinds, kind.String())
	}
	if result == nil {
		return output, 0, nil
	}

	var total int
	for _, file := range result.Files {
		fileResult := MsgpackFileResult{
			Path:     opts.displayPath(file.Path),
			Language: file.Language,
			Status:   file.Parse.Status.String(),
			Tokens:   make([]MsgpackToken, 0, len(file.Tokens)),
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		for _, tok := range file.Tokens {
			packed, err := packToken(tok)
			if err != nil {
				return nil, 0, fmt.Errorf("%s: %w", file.Path, err)
			}
			fileResult.Tokens = append(fileResult.Tokens, packed)
		}
		total += len(file.Tokens)
		output.Files = append(output.Files, fileResult)
	}
	return output, total, nil
}

func packToken(tok token.Token) (MsgpackToken, error) {
	offset, err := safecast.Conv[uint32](tok.Start)
	if err != nil {
		return MsgpackToken{}, fmt.Errorf("token offset: %w", err)
	}
	length, err := safecast.Conv[uint32](tok.Length)
	if err != nil {
		return MsgpackToken{}, fmt.Errorf("token length: %w", err)
	}
	return MsgpackToken{Offset: offset, Length: length, Kind: uint16(tok.Kind)}, nil
}
