// Package lexer defines the resettable scanner contract used by documents
// and provides an SQL implementation with per-dialect word tables.
package lexer

import (
	"io"

	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// Lexer converts document text into tokens.
//
// Reset starts a new pass over src. Next returns tokens in strictly
// increasing start order and io.EOF once the input is exhausted. Any other
// error aborts the pass; tokens returned before it remain valid.
type Lexer interface {
	Reset(src []byte)
	Next() (token.Token, error)
}

// All drains lx over src and returns the collected tokens. The returned
// error is nil when the lexer reached io.EOF.
func All(lx Lexer, src []byte) ([]token.Token, error) {
	lx.Reset(src)
	tokens := make([]token.Token, 0, len(src)/10) //nolint:mnd // rough tokens-per-byte estimate
	for {
		tok, err := lx.Next()
		if err == io.EOF { //nolint:errorlint // io.EOF is a sentinel returned unwrapped
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}
