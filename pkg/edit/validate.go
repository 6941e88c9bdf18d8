package edit

import (
	"fmt"
	"slices"
)

// Problem classifies a ValidationError.
type Problem int

const (
	// ProblemOffset means the offset lies outside the content.
	ProblemOffset Problem = iota

	// ProblemRange means the offset is valid but the length is negative or
	// runs past the end of the content.
	ProblemRange
)

// ValidationError describes an edit that does not fit the content.
type ValidationError struct {
	Edit       TextEdit
	ContentLen int
	Problem    Problem
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit %s for content length %d: %s", e.Edit, e.ContentLen, e.Message)
}

// ConflictError describes overlapping edits within one batch.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: %s and %s", e.First, e.Second)
}

// Validate checks a single edit against the content length.
func Validate(e TextEdit, contentLen int) error {
	switch {
	case e.Offset < 0 || e.Offset > contentLen:
		return &ValidationError{Edit: e, ContentLen: contentLen, Problem: ProblemOffset,
			Message: "offset out of range"}
	case e.Length < 0:
		return &ValidationError{Edit: e, ContentLen: contentLen, Problem: ProblemRange,
			Message: "negative length"}
	case e.End() > contentLen:
		return &ValidationError{Edit: e, ContentLen: contentLen, Problem: ProblemRange,
			Message: fmt.Sprintf("end %d exceeds content length", e.End())}
	}
	return nil
}

// ValidateAll checks every edit, returning the first failure.
func ValidateAll(edits []TextEdit, contentLen int) error {
	for _, e := range edits {
		if err := Validate(e, contentLen); err != nil {
			return err
		}
	}
	return nil
}

// Sort orders edits by offset, then by end, keeping the input order of
// equal edits.
func Sort(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if a.Offset != b.Offset {
			return a.Offset - b.Offset
		}
		return a.End() - b.End()
	})
}

// DetectConflicts reports the first pair of overlapping edits in a sorted
// slice. Two insertions at the same offset conflict because their relative
// order would be ambiguous.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, curr := edits[i-1], edits[i]
		if curr.Offset < prev.End() || (curr.Offset == prev.Offset && prev.Length == 0 && curr.Length == 0) {
			return &ConflictError{First: prev, Second: curr}
		}
	}
	return nil
}

// Prepare validates a batch whose offsets all refer to the same original
// content, drops no-ops, sorts it and rejects overlaps. The input slice is
// not modified.
func Prepare(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if err := ValidateAll(edits, contentLen); err != nil {
		return nil, err
	}

	prepared := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		if !e.IsNoop() {
			prepared = append(prepared, e)
		}
	}
	Sort(prepared)

	if err := DetectConflicts(prepared); err != nil {
		return nil, err
	}
	return prepared, nil
}

// Apply applies a prepared batch to content and returns the new content.
func Apply(content []byte, prepared []TextEdit) []byte {
	if len(prepared) == 0 {
		return content
	}

	delta := 0
	for _, e := range prepared {
		delta += e.Delta()
	}

	out := make([]byte, 0, len(content)+delta)
	cursor := 0
	for _, e := range prepared {
		out = append(out, content[cursor:e.Offset]...)
		out = append(out, e.NewText...)
		cursor = e.End()
	}
	return append(out, content[cursor:]...)
}
