package lsp

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// lineIndex converts between byte offsets and LSP positions, whose
// character counts are UTF-16 code units.
type lineIndex struct {
	text  string
	lines []int // byte offset of each line start
}

func newLineIndex(text string) *lineIndex {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &lineIndex{text: text, lines: lines}
}

// lineEnd returns the byte offset of the end of line n, excluding the line
// break.
func (ix *lineIndex) lineEnd(n int) int {
	if n+1 < len(ix.lines) {
		end := ix.lines[n+1] - 1
		if end > ix.lines[n] && ix.text[end-1] == '\r' {
			end--
		}
		return end
	}
	return len(ix.text)
}

// Offset converts a position to a byte offset. Positions past the end of a
// line clamp to the line end and lines past the end clamp to the text end.
func (ix *lineIndex) Offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(ix.lines) {
		return len(ix.text)
	}

	offset := ix.lines[line]
	end := ix.lineEnd(line)
	units := int(pos.Character)
	for offset < end && units > 0 {
		r, size := utf8.DecodeRuneInString(ix.text[offset:])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if n > units {
			break
		}
		units -= n
		offset += size
	}
	return offset
}

// Position converts a byte offset to a position. Offsets inside a multi-byte
// rune resolve to the rune start.
func (ix *lineIndex) Position(offset int) (protocol.Position, error) {
	offset = max(0, min(offset, len(ix.text)))
	line := sort.Search(len(ix.lines), func(i int) bool { return ix.lines[i] > offset }) - 1

	character := 0
	for i := ix.lines[line]; i < offset; {
		r, size := utf8.DecodeRuneInString(ix.text[i:])
		if i+size > offset {
			break
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		character += n
		i += size
	}

	l, err := safecast.Conv[protocol.UInteger](line)
	if err != nil {
		return protocol.Position{}, err
	}
	c, err := safecast.Conv[protocol.UInteger](character)
	if err != nil {
		return protocol.Position{}, err
	}
	return protocol.Position{Line: l, Character: c}, nil
}

// Range converts a byte span to an LSP range.
func (ix *lineIndex) Range(start, end int) (protocol.Range, error) {
	from, err := ix.Position(start)
	if err != nil {
		return protocol.Range{}, err
	}
	to, err := ix.Position(end)
	if err != nil {
		return protocol.Range{}, err
	}
	return protocol.Range{Start: from, End: to}, nil
}

// utf16Len counts UTF-16 code units in s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
