package token

import (
	"iter"
	"slices"
)

// Index is an immutable snapshot of tokens sorted by start offset.
// A nil *Index is valid and behaves as an absent index: every lookup
// reports no tokens.
type Index struct {
	tokens []Token
}

// NewIndex wraps tokens, which must already be sorted by start offset and
// non-overlapping (see Validate). The index takes ownership of the slice.
func NewIndex(tokens []Token) *Index {
	return &Index{tokens: tokens}
}

// Len returns the number of tokens in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.tokens)
}

// At returns the i-th token. It panics if i is out of range.
func (ix *Index) At(i int) Token {
	return ix.tokens[i]
}

// Tokens returns a copy of the indexed tokens.
func (ix *Index) Tokens() []Token {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.tokens)
}

// All yields every token in ascending start order.
func (ix *Index) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		if ix == nil {
			return
		}
		for _, t := range ix.tokens {
			if !yield(t) {
				return
			}
		}
	}
}

// Equal reports whether both indexes hold the same token sequence.
// Two absent indexes are equal; an absent and an empty index are too.
func (ix *Index) Equal(other *Index) bool {
	return slices.Equal(ix.view(), other.view())
}

func (ix *Index) view() []Token {
	if ix == nil {
		return nil
	}
	return ix.tokens
}

// seek returns the position of the last token starting at or before pos,
// or 0 when every token starts after pos. The index must be non-empty.
func (ix *Index) seek(pos int) int {
	i, found := slices.BinarySearchFunc(ix.tokens, pos, CompareStart)
	if found {
		return i
	}
	return max(i-1, 0)
}

// TokenAt returns the token t with t.Start <= pos <= t.End(). When pos sits
// exactly between two adjacent tokens the one starting at pos wins. It
// reports false when pos is negative, falls in a gap or the index is empty.
func (ix *Index) TokenAt(pos int) (Token, bool) {
	if ix.Len() == 0 || pos < 0 {
		return Token{}, false
	}
	t := ix.tokens[ix.seek(pos)]
	if !t.Touches(pos) {
		return Token{}, false
	}
	return t, true
}

// Range yields, in ascending order, the tokens whose span intersects the
// half-open range [start, end). The sequence is lazy and every call to the
// returned function starts a fresh iteration.
func (ix *Index) Range(start, end int) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		if ix.Len() == 0 || start >= end {
			return
		}
		i := ix.seek(start)
		if ix.tokens[i].End() <= start {
			i++
		}
		for ; i < len(ix.tokens) && ix.tokens[i].Start < end; i++ {
			if !yield(ix.tokens[i]) {
				return
			}
		}
	}
}

// Between collects Range(start, end) into a slice.
func (ix *Index) Between(start, end int) []Token {
	return slices.Collect(ix.Range(start, end))
}
