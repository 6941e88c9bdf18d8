// Package edit describes byte-range text edits and prepares batches of them
// for application to a document.
package edit

import "fmt"

// TextEdit replaces Length bytes at Offset with NewText.
// A zero Length is an insertion; an empty NewText is a deletion.
type TextEdit struct {
	// Offset is the byte index where the edit begins.
	Offset int `json:"offset" yaml:"offset"`

	// Length is the number of bytes replaced.
	Length int `json:"length" yaml:"length"`

	// NewText is the replacement text.
	NewText string `json:"text" yaml:"text"`
}

// Insert returns an edit inserting text at offset.
func Insert(offset int, text string) TextEdit {
	return TextEdit{Offset: offset, NewText: text}
}

// Remove returns an edit deleting length bytes at offset.
func Remove(offset, length int) TextEdit {
	return TextEdit{Offset: offset, Length: length}
}

// Replace returns an edit replacing length bytes at offset with text.
func Replace(offset, length int, text string) TextEdit {
	return TextEdit{Offset: offset, Length: length, NewText: text}
}

// End returns the byte index one past the replaced range.
func (e TextEdit) End() int {
	return e.Offset + e.Length
}

// Delta is the change in content length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - e.Length
}

// IsNoop reports whether the edit changes nothing.
func (e TextEdit) IsNoop() bool {
	return e.Length == 0 && e.NewText == ""
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d:%d]->%q", e.Offset, e.End(), e.NewText)
}
