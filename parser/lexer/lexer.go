package lexer

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
)

// Grammar recognised by the Stream:
//   token   := WORD | STRING | '=' | '{' | '}'
//   WORD    := { any character except whitespace '=' '{' '}' '#' '"' }+
//   STRING  := '"' { any character | '\"' | '\\' } '"'
//   comment := '#' { any character } NEWLINE     (skipped)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Option configures a Stream.
type Option func(*Stream)

// WithFilename records the file name in token locations.
func WithFilename(name string) Option {
	return func(s *Stream) {
		s.file = name
	}
}

// Stream is a forward-only token cursor over an in-memory source.
// It keeps a small lookahead buffer so callers can peek without consuming;
// consumed input is never revisited.
type Stream struct {
	src  []byte
	file string

	off  int
	line int
	col  int

	ahead []Token
	err   error

	depth    int
	consumed int
}

// New creates a Stream over src. A leading UTF-8 byte order mark is skipped.
func New(src []byte, opts ...Option) *Stream {
	s := &Stream{src: src, line: 1, col: 1}
	if bytes.HasPrefix(src, bom) {
		s.off = len(bom)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewString creates a Stream over a string.
func NewString(src string, opts ...Option) *Stream {
	return New([]byte(src), opts...)
}

// Filename returns the name given with WithFilename.
func (s *Stream) Filename() string {
	return s.file
}

// Depth returns the number of '{' consumed minus the number of '}' consumed.
func (s *Stream) Depth() int {
	return s.depth
}

// Consumed returns the number of tokens consumed so far.
func (s *Stream) Consumed() int {
	return s.consumed
}

// Clone returns an independent cursor at the same position.
func (s *Stream) Clone() *Stream {
	cp := *s
	cp.ahead = append([]Token(nil), s.ahead...)
	return &cp
}

// Location returns the position of the next unconsumed token, or of the
// scan position when the next token cannot be read.
func (s *Stream) Location() perrors.Location {
	if tok, err := s.Peek(); err == nil {
		return tok.Pos
	}
	return s.here()
}

// Next consumes and returns the next token. At the end of input it keeps
// returning an EOF token.
func (s *Stream) Next() (Token, error) {
	tok, err := s.Peek()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind == EOF {
		return tok, nil
	}
	s.ahead = s.ahead[1:]
	s.consumed++
	switch tok.Kind {
	case BlockOpen:
		s.depth++
	case BlockClose:
		s.depth--
	}
	return tok, nil
}

// Peek returns the next token without consuming it.
func (s *Stream) Peek() (Token, error) {
	return s.PeekN(0)
}

// PeekN returns the token n positions ahead without consuming anything.
// Peeking past the end of input yields EOF.
func (s *Stream) PeekN(n int) (Token, error) {
	for len(s.ahead) <= n {
		if k := len(s.ahead); k > 0 && s.ahead[k-1].Kind == EOF {
			return s.ahead[k-1], nil
		}
		tok, err := s.scan()
		if err != nil {
			return Token{}, err
		}
		s.ahead = append(s.ahead, tok)
	}
	return s.ahead[n], nil
}

// Expect consumes the next token and fails unless it is of the given kind.
func (s *Stream) Expect(kind Kind) (Token, error) {
	tok, err := s.Peek()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		if tok.Kind == EOF && kind == BlockClose {
			return Token{}, perrors.New(perrors.ErrUnterminatedBlock, tok.Pos, "expected '}', got end of file")
		}
		return Token{}, perrors.New(perrors.ErrUnexpectedToken, tok.Pos, "expected %s, got %s", kind, tok)
	}
	return s.Next()
}

// KeyAhead reports whether the next two tokens are a scalar followed by '='.
// This is the rule separating the items of a bare list from the key of the
// following statement.
func (s *Stream) KeyAhead() (bool, error) {
	tok, err := s.Peek()
	if err != nil || !tok.IsScalar() {
		return false, err
	}
	after, err := s.PeekN(1)
	if err != nil {
		return false, err
	}
	return after.Kind == Assign, nil
}

func (s *Stream) here() perrors.Location {
	return perrors.Location{File: s.file, Line: s.line, Column: s.col, Offset: s.off}
}

// advance moves past one rune and returns it.
func (s *Stream) advance() rune {
	r, size := utf8.DecodeRune(s.src[s.off:])
	s.off += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *Stream) peekRune() rune {
	r, _ := utf8.DecodeRune(s.src[s.off:])
	return r
}

func (s *Stream) skipSpaceAndComments() {
	for s.off < len(s.src) {
		r := s.peekRune()
		switch {
		case r == '#':
			for s.off < len(s.src) && s.peekRune() != '\n' {
				s.advance()
			}
		case unicode.IsSpace(r):
			s.advance()
		default:
			return
		}
	}
}

func (s *Stream) scan() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}
	s.skipSpaceAndComments()
	pos := s.here()
	if s.off >= len(s.src) {
		return Token{Kind: EOF, Pos: pos}, nil
	}

	switch s.peekRune() {
	case '=':
		s.advance()
		return Token{Kind: Assign, Raw: "=", Text: "=", Pos: pos}, nil
	case '{':
		s.advance()
		return Token{Kind: BlockOpen, Raw: "{", Text: "{", Pos: pos}, nil
	case '}':
		s.advance()
		return Token{Kind: BlockClose, Raw: "}", Text: "}", Pos: pos}, nil
	case '"':
		return s.scanString(pos)
	default:
		return s.scanWord(pos), nil
	}
}

func (s *Stream) scanWord(pos perrors.Location) Token {
	start := s.off
	for s.off < len(s.src) {
		r := s.peekRune()
		if unicode.IsSpace(r) || isDelimiter(r) {
			break
		}
		s.advance()
	}
	raw := string(s.src[start:s.off])
	return Token{Kind: Word, Raw: raw, Text: raw, Pos: pos}
}

func (s *Stream) scanString(pos perrors.Location) (Token, error) {
	start := s.off
	s.advance() // opening quote

	var text strings.Builder
	for s.off < len(s.src) {
		r := s.advance()
		switch r {
		case '"':
			return Token{Kind: String, Raw: string(s.src[start:s.off]), Text: text.String(), Pos: pos}, nil
		case '\\':
			if s.off < len(s.src) {
				if next := s.peekRune(); next == '"' || next == '\\' {
					text.WriteRune(s.advance())
					continue
				}
			}
			text.WriteRune(r)
		default:
			text.WriteRune(r)
		}
	}

	s.err = perrors.New(perrors.ErrUnterminatedQuote, pos, "string opened here is never closed")
	return Token{}, s.err
}

func isDelimiter(r rune) bool {
	switch r {
	case '=', '{', '}', '#', '"':
		return true
	}
	return false
}
