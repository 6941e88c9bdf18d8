package token

import (
	"fmt"
	"strings"
)

// Kind classifies a token for highlighting purposes.
type Kind uint16

// Token kinds produced by the lexers in this module.
const (
	KindDefault Kind = iota
	KindKeyword
	KindType     // INTEGER, VARCHAR, ...
	KindFunction // COUNT, COALESCE, ...
	KindIdentifier
	KindNumber
	KindString
	KindComment
	KindOperator
	KindDelimiter // ( ) , ; .
	KindParameter // ?, :name, $1, ${name}
	KindWarning   // unterminated literal or unknown byte

	kindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	KindDefault:    "default",
	KindKeyword:    "keyword",
	KindType:       "type",
	KindFunction:   "function",
	KindIdentifier: "identifier",
	KindNumber:     "number",
	KindString:     "string",
	KindComment:    "comment",
	KindOperator:   "operator",
	KindDelimiter:  "delimiter",
	KindParameter:  "parameter",
	KindWarning:    "warning",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := range kindCount {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind resolves a kind name, ignoring case.
func ParseKind(name string) (Kind, error) {
	lower := strings.ToLower(name)
	for k, n := range kindNames {
		if n == lower {
			return Kind(k), nil
		}
	}
	return KindDefault, fmt.Errorf("unknown token kind %q", name)
}

// MarshalText implements encoding.TextMarshaler so kinds serialize by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
