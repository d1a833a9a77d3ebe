// Package dispatch implements the keyword/regex parsing engine. A Parser is a
// binding table: exact keys and regular expressions mapped to handlers that
// consume the value of a statement. Keys nobody registered for go to the
// fallback, which discards the value unless told otherwise.
//
// # Handler contract
//
// A handler is called with the stream positioned right after "key =" (or at
// the '{' of a block written without '='). It must consume exactly one value
// unit. After every handler the engine checks that the cursor moved forward
// and that the brace depth is unchanged; a Strict parser also compares the
// cursor with where read.Discard would have left it. Violations are reported
// as ErrHandlerContract and panic in Strict mode or when built with the
// clausewitzdebug tag.
package dispatch

import (
	"fmt"
	"regexp"
	"sync/atomic"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
	"github.com/daveroberts0321/clausewitz/parser/read"
)

// Handler consumes the value of the statement named key.
type Handler func(key string, s *lexer.Stream) error

// ItemHandler receives a bare scalar that is not followed by '='. Only
// parsers created with OptionalAssign accept such items.
type ItemHandler func(tok lexer.Token) error

type regexBinding struct {
	re      *regexp.Regexp
	handler Handler
}

// Parser is a binding table together with the engine that drives it. The
// table may be shared by parses running at the same time once it is fully
// registered, as long as the handlers themselves do not share state.
type Parser struct {
	keywords map[string]Handler
	regexes  []regexBinding
	fallback Handler
	items    ItemHandler

	optionalAssign bool
	strict         bool

	active atomic.Int32
}

// New returns an empty binding table whose fallback discards every value.
func New() *Parser {
	return &Parser{
		keywords: make(map[string]Handler),
		fallback: Ignore,
	}
}

func (p *Parser) mutable() {
	if p.active.Load() > 0 {
		panic("dispatch: binding registered while the table is parsing")
	}
}

// Keyword binds an exact key. Registering the same key again replaces the
// previous handler.
func (p *Parser) Keyword(key string, h Handler) *Parser {
	p.mutable()
	p.keywords[key] = h
	return p
}

// Keywords binds the same handler to several exact keys.
func (p *Parser) Keywords(h Handler, keys ...string) *Parser {
	for _, key := range keys {
		p.Keyword(key, h)
	}
	return p
}

// Regex binds every key fully matched by expr. Regular expressions are
// tried in registration order after the exact keys. It panics if expr does
// not compile.
func (p *Parser) Regex(expr string, h Handler) *Parser {
	p.mutable()
	p.regexes = append(p.regexes, regexBinding{
		re:      regexp.MustCompile("^(?:" + expr + ")$"),
		handler: h,
	})
	return p
}

// Fallback sets the handler for keys that match no binding.
func (p *Parser) Fallback(h Handler) *Parser {
	p.mutable()
	p.fallback = h
	return p
}

// Items sets the handler for bare scalars. It implies OptionalAssign.
func (p *Parser) Items(h ItemHandler) *Parser {
	p.mutable()
	p.items = h
	p.optionalAssign = true
	return p
}

// OptionalAssign accepts statements without '=': "key { ... }" is read as a
// block statement and a lone scalar as an item.
func (p *Parser) OptionalAssign() *Parser {
	p.mutable()
	p.optionalAssign = true
	return p
}

// Strict makes the engine verify every handler against read.Discard and
// panic on any contract violation.
func (p *Parser) Strict() *Parser {
	p.mutable()
	p.strict = true
	return p
}

// Lookup returns the handler key resolves to: an exact binding, then the
// first matching regular expression, then the fallback.
func (p *Parser) Lookup(key string) Handler {
	if h, ok := p.keywords[key]; ok {
		return h
	}
	for _, b := range p.regexes {
		if b.re.MatchString(key) {
			return b.handler
		}
	}
	return p.fallback
}

// ParseBlock expects a '{' and parses statements up to its matching '}'.
func (p *Parser) ParseBlock(s *lexer.Stream) error {
	if _, err := s.Expect(lexer.BlockOpen); err != nil {
		return err
	}
	return p.Parse(s)
}

// Parse reads statements until the block the stream is currently in is
// closed, consuming the closing '}', or until the end of input when the
// stream is at the top level.
func (p *Parser) Parse(s *lexer.Stream) error {
	p.active.Add(1)
	defer p.active.Add(-1)

	start := s.Depth()
	for {
		tok, err := s.Peek()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case lexer.EOF:
			if start > 0 {
				return perrors.New(perrors.ErrUnterminatedBlock, tok.Pos, "expected '}' before end of file")
			}
			return nil

		case lexer.BlockClose:
			if start == 0 {
				return perrors.New(perrors.ErrUnexpectedToken, tok.Pos, "'}' without a matching '{'")
			}
			s.Next()
			return nil

		case lexer.Assign:
			return perrors.New(perrors.ErrUnexpectedToken, tok.Pos, "expected a key, got '='")

		case lexer.BlockOpen:
			if err := p.dispatch("", tok.Pos, s); err != nil {
				return err
			}

		default:
			if err := p.statement(tok, s); err != nil {
				return err
			}
		}
	}
}

// statement handles a statement starting with the scalar tok.
func (p *Parser) statement(tok lexer.Token, s *lexer.Stream) error {
	s.Next()
	after, err := s.Peek()
	if err != nil {
		return err
	}

	switch {
	case after.Kind == lexer.Assign:
		s.Next()
		return p.dispatch(tok.Text, tok.Pos, s)
	case !p.optionalAssign:
		return perrors.WithKey(
			perrors.New(perrors.ErrUnexpectedToken, after.Pos, "expected '=' after key, got %s", after),
			tok.Text)
	case after.Kind == lexer.BlockOpen:
		return p.dispatch(tok.Text, tok.Pos, s)
	case p.items != nil:
		return p.items(tok)
	default:
		return nil
	}
}

// dispatch resolves key, runs its handler and checks the handler contract.
func (p *Parser) dispatch(key string, pos perrors.Location, s *lexer.Stream) error {
	h := p.Lookup(key)

	consumed, depth := s.Consumed(), s.Depth()
	want := -1
	if p.strict {
		probe := s.Clone()
		if err := read.Discard(probe); err == nil {
			want = probe.Consumed()
		}
	}

	if err := h(key, s); err != nil {
		return perrors.WithKey(err, key)
	}

	var violation string
	switch {
	case s.Consumed() == consumed && valueAhead(s):
		violation = "handler consumed no value"
	case s.Depth() != depth:
		violation = fmt.Sprintf("handler left brace depth at %d, want %d", s.Depth(), depth)
	case want >= 0 && s.Consumed() != want:
		violation = fmt.Sprintf("handler consumed %d tokens, the value has %d", s.Consumed()-consumed, want-consumed)
	default:
		return nil
	}

	err := perrors.WithKey(perrors.New(perrors.ErrHandlerContract, pos, "%s", violation), key)
	if p.strict || panicOnContract {
		panic(err)
	}
	return err
}

// valueAhead reports whether the next token could start a value. A handler
// that recovered from a missing value has nothing to consume.
func valueAhead(s *lexer.Stream) bool {
	tok, err := s.Peek()
	if err != nil {
		return false
	}
	return tok.IsScalar() || tok.Kind == lexer.BlockOpen
}
