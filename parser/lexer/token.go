// Package lexer implements the tokenizer for clausewitz files.
// token.go defines the token kinds produced by the Stream.
package lexer

import (
	"fmt"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
)

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Word
	String
	Assign
	BlockOpen
	BlockClose
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Word:
		return "word"
	case String:
		return "string"
	case Assign:
		return "'='"
	case BlockOpen:
		return "'{'"
	case BlockClose:
		return "'}'"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one lexical unit. Text holds the unescaped content of quoted
// strings and equals Raw for every other kind.
type Token struct {
	Kind Kind
	Raw  string
	Text string
	Pos  perrors.Location
}

// IsScalar reports whether the token can stand as a key or a scalar value.
// Numbers are words; their interpretation is left to the readers.
func (t Token) IsScalar() bool {
	return t.Kind == Word || t.Kind == String
}

// String returns the token as it should appear in error messages.
func (t Token) String() string {
	if t.Kind == EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.Raw)
}
