package document

import (
	"slices"

	"github.com/yaklabco/syntaxdoc/pkg/edit"
)

// Buffer is the editable byte content of a document.
type Buffer struct {
	data []byte
}

// NewBuffer creates a buffer holding text.
func NewBuffer(text string) *Buffer {
	return &Buffer{data: []byte(text)}
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the content. The slice is only valid until the next
// mutation and must not be modified.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) String() string {
	return string(b.data)
}

// Slice returns length bytes starting at offset.
func (b *Buffer) Slice(offset, length int) (string, error) {
	if err := edit.Validate(edit.Remove(offset, length), len(b.data)); err != nil {
		return "", err
	}
	return string(b.data[offset : offset+length]), nil
}

// Replace substitutes length bytes at offset with text. The buffer is left
// untouched when the range is invalid.
func (b *Buffer) Replace(offset, length int, text string) error {
	e := edit.Replace(offset, length, text)
	if err := edit.Validate(e, len(b.data)); err != nil {
		return err
	}
	if e.IsNoop() {
		return nil
	}
	b.data = slices.Replace(b.data, offset, e.End(), []byte(text)...)
	return nil
}

// Set replaces the whole content.
func (b *Buffer) Set(text string) {
	b.data = []byte(text)
}
