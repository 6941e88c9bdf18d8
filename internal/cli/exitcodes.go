package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/syntaxdoc/pkg/fsutil"
	"github.com/yaklabco/syntaxdoc/pkg/runner"
)

// Exit codes for syntaxdoc.
const (
	// ExitSuccess indicates every file lexed completely.
	ExitSuccess = 0

	// ExitPartial indicates at least one document ended with a partial parse.
	ExitPartial = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrPartialParse signals that a lexer failed part way through a
	// document. The partial token index was still reported.
	ErrPartialParse = errors.New("partial parse")

	// ErrUnreadableFiles signals that some discovered files could not be read.
	ErrUnreadableFiles = errors.New("unreadable files")

	// ErrInvalidUsage wraps argument and flag errors.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig wraps configuration loading and validation errors.
	ErrConfig = errors.New("configuration error")
)

func usageError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
}

// ExitCodeFromResult determines the exit code for a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}
	if result.Stats.FilesPartial > 0 {
		return ExitPartial
	}
	return ExitSuccess
}

// ExitCodeForError maps an error returned by a command to an exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrPartialParse):
		return ExitPartial
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnreadableFiles),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModified),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSignal reports whether err only carries an exit status and has already
// been reported to the user.
func IsSignal(err error) bool {
	return errors.Is(err, ErrPartialParse) || errors.Is(err, ErrUnreadableFiles)
}
