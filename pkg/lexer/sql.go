package lexer

import (
	"bytes"
	"io"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/yaklabco/syntaxdoc/pkg/token"
)

// SQLOptions configures an SQL lexer.
type SQLOptions struct {
	// Dialect selects the built-in word tables. Empty means ANSI.
	Dialect Dialect

	// Keywords, Types and Functions extend the dialect tables.
	Keywords  []string
	Types     []string
	Functions []string
}

// SQL is a hand-written SQL scanner. Whitespace is skipped, so the produced
// tokens cover the text with gaps.
//
// A SQL value is not safe for concurrent use; give each document its own.
type SQL struct {
	src   []byte
	pos   int
	words map[string]token.Kind
	fold  cases.Caser
}

var _ Lexer = (*SQL)(nil)

// NewSQL creates an SQL lexer for the given options.
func NewSQL(opts SQLOptions) *SQL {
	lx := &SQL{fold: cases.Fold()}
	extra := wordSet{keywords: opts.Keywords, types: opts.Types, functions: opts.Functions}
	lx.words = words(opts.Dialect, extra, lx.fold.String)
	return lx
}

// Reset implements Lexer.
func (l *SQL) Reset(src []byte) {
	l.src = src
	l.pos = 0
}

// Next implements Lexer.
func (l *SQL) Next() (token.Token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token.Token{}, io.EOF
	}

	start := l.pos
	kind := l.scan()
	return token.New(kind, start, l.pos-start), nil
}

func (l *SQL) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c < utf8.RuneSelf {
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '\f' && c != '\v' {
				return
			}
			l.pos++
			continue
		}
		r, size := utf8.DecodeRune(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *SQL) peek(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// scan consumes one token starting at l.pos and returns its kind.
func (l *SQL) scan() token.Kind {
	c := l.src[l.pos]

	switch {
	case c == '-' && l.peek(1) == '-':
		return l.scanLineComment()
	case c == '/' && l.peek(1) == '*':
		return l.scanBlockComment()
	case c == '\'':
		return l.scanQuoted('\'', token.KindString)
	case c == '"':
		return l.scanQuoted('"', token.KindIdentifier)
	case c == '`':
		return l.scanQuoted('`', token.KindIdentifier)
	case isStringPrefix(c) && l.peek(1) == '\'':
		l.pos++
		return l.scanQuoted('\'', token.KindString)
	case isDigit(c), c == '.' && isDigit(l.peek(1)):
		return l.scanNumber()
	case c == '?':
		l.pos++
		return token.KindParameter
	case c == ':' && isIdentStart(l.peek(1)):
		l.pos++
		l.scanWordTail()
		return token.KindParameter
	case c == '$':
		return l.scanDollar()
	case isIdentStart(c):
		return l.scanWord()
	case c >= utf8.RuneSelf:
		return l.scanRune()
	}

	if n := l.operatorLen(); n > 0 {
		l.pos += n
		return token.KindOperator
	}
	if isDelimiter(c) {
		l.pos++
		return token.KindDelimiter
	}

	l.pos++
	return token.KindWarning
}

func (l *SQL) scanLineComment() token.Kind {
	end := bytes.IndexByte(l.src[l.pos:], '\n')
	if end < 0 {
		l.pos = len(l.src)
	} else {
		l.pos += end
	}
	// A trailing \r belongs to the line break, not the comment.
	if l.pos > 0 && l.src[l.pos-1] == '\r' && l.pos < len(l.src) {
		l.pos--
	}
	return token.KindComment
}

func (l *SQL) scanBlockComment() token.Kind {
	end := bytes.Index(l.src[l.pos+2:], []byte("*/"))
	if end < 0 {
		l.pos = len(l.src)
		return token.KindWarning
	}
	l.pos += 2 + end + 2
	return token.KindComment
}

// scanQuoted consumes a literal delimited by quote, where a doubled quote
// is an escaped quote character.
func (l *SQL) scanQuoted(quote byte, kind token.Kind) token.Kind {
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		if l.src[l.pos] != quote {
			l.pos++
			continue
		}
		if l.peek(1) == quote {
			l.pos += 2
			continue
		}
		l.pos++
		return kind
	}
	return token.KindWarning
}

func (l *SQL) scanNumber() token.Kind {
	if l.src[l.pos] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') && isHexDigit(l.peek(2)) {
		l.pos += 2
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}
		return token.KindNumber
	}

	l.digits()
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.pos++
		l.digits()
	} else if l.peek(0) == '.' && !isIdentStart(l.peek(1)) && l.peek(1) != '.' {
		// "1." is a valid decimal literal.
		l.pos++
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		next := l.peek(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peek(2))) {
			l.pos += 2
			l.digits()
		}
	}
	return token.KindNumber
}

func (l *SQL) digits() {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
}

// scanDollar handles $1, ${name}, $P{name} and $P!{name} parameters.
func (l *SQL) scanDollar() token.Kind {
	l.pos++ // '$'
	switch {
	case isDigit(l.peek(0)):
		l.digits()
		return token.KindParameter
	case l.peek(0) == '{':
		return l.scanBraced()
	case l.peek(0) == 'P' && l.peek(1) == '{':
		l.pos++
		return l.scanBraced()
	case l.peek(0) == 'P' && l.peek(1) == '!' && l.peek(2) == '{':
		l.pos += 2
		return l.scanBraced()
	}
	return token.KindOperator
}

func (l *SQL) scanBraced() token.Kind {
	end := bytes.IndexByte(l.src[l.pos:], '}')
	if end < 0 {
		l.pos = len(l.src)
		return token.KindWarning
	}
	l.pos += end + 1
	return token.KindParameter
}

func (l *SQL) scanWord() token.Kind {
	start := l.pos
	l.scanWordTail()
	if kind, ok := l.words[l.fold.String(string(l.src[start:l.pos]))]; ok {
		return kind
	}
	return token.KindIdentifier
}

// scanWordTail consumes identifier characters, including multi-byte letters.
func (l *SQL) scanWordTail() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c < utf8.RuneSelf {
			if !isIdentPart(c) {
				return
			}
			l.pos++
			continue
		}
		r, size := utf8.DecodeRune(l.src[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return
		}
		l.pos += size
	}
}

// scanRune handles a token starting with a non-ASCII byte.
func (l *SQL) scanRune() token.Kind {
	r, size := utf8.DecodeRune(l.src[l.pos:])
	if unicode.IsLetter(r) {
		return l.scanWord()
	}
	l.pos += size
	return token.KindWarning
}

//nolint:gochecknoglobals // Read-only lookup table, longest operators first.
var multiOperators = [][]byte{
	[]byte("->>"),
	[]byte("<>"), []byte("<="), []byte(">="), []byte("!="), []byte("||"),
	[]byte("::"), []byte("->"), []byte("=>"), []byte(":="), []byte("<<"), []byte(">>"),
}

func (l *SQL) operatorLen() int {
	rest := l.src[l.pos:]
	for _, op := range multiOperators {
		if bytes.HasPrefix(rest, op) {
			return len(op)
		}
	}
	switch rest[0] {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '|', '&', '^', '~', '@', '#', ':':
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$' || c == '#'
}

func isStringPrefix(c byte) bool {
	switch c {
	case 'N', 'n', 'E', 'e', 'X', 'x', 'B', 'b':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', ',', ';', '.', '[', ']', '{', '}':
		return true
	}
	return false
}
