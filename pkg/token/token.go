// Package token defines classified source spans and the sorted index used to
// look them up by position.
package token

import "fmt"

// Token is an immutable, classified span of document bytes.
type Token struct {
	// Kind classifies what this token represents.
	Kind Kind `json:"kind" msgpack:"k"`

	// Start is the byte index where this token begins (inclusive).
	Start int `json:"start" msgpack:"s"`

	// Length is the number of bytes covered. Always positive for lexer output.
	Length int `json:"length" msgpack:"l"`
}

// New returns a token of the given kind spanning [start, start+length).
func New(kind Kind, start, length int) Token {
	return Token{Kind: kind, Start: start, Length: length}
}

// End returns the byte index one past the last byte of the token.
func (t Token) End() int {
	return t.Start + t.Length
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.Start < 0 || t.End() > len(content) || t.Length < 0 {
		return nil
	}
	return content[t.Start:t.End()]
}

// Touches reports whether pos lies within [Start, End]. The end is inclusive
// so that a caret placed right after a token still resolves to it.
func (t Token) Touches(pos int) bool {
	return t.Start <= pos && pos <= t.End()
}

// Intersects reports whether the token overlaps the half-open range [start, end).
func (t Token) Intersects(start, end int) bool {
	return t.Start < end && t.End() > start
}

// Shift returns a copy of the token moved by delta bytes.
func (t Token) Shift(delta int) Token {
	t.Start += delta
	return t
}

func (t Token) String() string {
	return fmt.Sprintf("%s[%d:%d]", t.Kind, t.Start, t.End())
}

// CompareStart orders tokens by start offset only. Index construction and
// every probe lookup go through this function and no other.
func CompareStart(t Token, start int) int {
	switch {
	case t.Start < start:
		return -1
	case t.Start > start:
		return 1
	default:
		return 0
	}
}

// Compare orders two tokens by start offset only.
func Compare(a, b Token) int {
	return CompareStart(a, b.Start)
}

// Validate checks that tokens are sorted by start, have positive lengths and
// do not overlap. It returns a descriptive error for the first violation.
func Validate(tokens []Token) error {
	for i, t := range tokens {
		if t.Start < 0 {
			return fmt.Errorf("token %d (%s): negative start", i, t)
		}
		if t.Length <= 0 {
			return fmt.Errorf("token %d (%s): non-positive length", i, t)
		}
		if i > 0 && tokens[i-1].End() > t.Start {
			return fmt.Errorf("token %d (%s) overlaps token %d (%s)", i, t, i-1, tokens[i-1])
		}
	}
	return nil
}
