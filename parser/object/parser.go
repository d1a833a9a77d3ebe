package object

import (
	"io"

	"github.com/daveroberts0321/clausewitz/parser/errors"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
	"github.com/daveroberts0321/clausewitz/parser/read"
	"github.com/daveroberts0321/clausewitz/source"
)

// Grammar accepted by the generic parser:
//   file      := statement*
//   statement := key '=' value
//              | key block           ('=' before a block is optional)
//              | scalar              (anonymous item, not followed by '=' or '{')
//              | block               (anonymous block)
//   value     := scalar | list | block
//   list      := scalar scalar+      (ends before a scalar followed by '=')
//   block     := '{' statement* '}'

// Parse reads statements until the end of the stream and returns the root node.
func Parse(s *lexer.Stream) (*Node, error) {
	n, err := parseContents(s, s.Location(), false)
	return n, errors.InFile(err, s.Filename())
}

// ParseString parses a whole document held in a string.
func ParseString(src string) (*Node, error) {
	return Parse(lexer.NewString(src))
}

// ParseBytes parses a whole document.
func ParseBytes(src []byte, filename string) (*Node, error) {
	return Parse(lexer.New(src, lexer.WithFilename(filename)))
}

// ParseReader parses a whole document read from r.
func ParseReader(r io.Reader, filename string) (*Node, error) {
	data, err := source.Read(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data, filename)
}

// ParseFile parses the file at path, decoding legacy encodings if needed.
func ParseFile(path string) (*Node, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data, path)
}

// ParseBlock expects a '{' and parses the block up to its matching '}'.
func ParseBlock(s *lexer.Stream) (*Node, error) {
	open, err := s.Expect(lexer.BlockOpen)
	if err != nil {
		return nil, err
	}
	return parseContents(s, open.Pos, true)
}

// ParseValue parses exactly one value unit after a key and its '='.
func ParseValue(s *lexer.Stream) (Value, error) {
	tok, err := s.Peek()
	if err != nil {
		return Value{}, err
	}
	if tok.Kind == lexer.BlockOpen {
		n, err := ParseBlock(s)
		if err != nil {
			return Value{}, err
		}
		return NewBlock(n), nil
	}

	run, err := read.Run(s)
	if err != nil {
		return Value{}, err
	}
	items := make([]Scalar, len(run))
	for i, t := range run {
		items[i] = scalarOf(t)
	}
	return NewList(items), nil
}

func parseContents(s *lexer.Stream, open errors.Location, closed bool) (*Node, error) {
	n := &Node{}
	for {
		tok, err := s.Peek()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case lexer.EOF:
			if closed {
				return nil, errors.New(errors.ErrUnterminatedBlock, open, "block is never closed")
			}
			return n, nil

		case lexer.BlockClose:
			s.Next()
			if !closed {
				return nil, errors.New(errors.ErrUnexpectedToken, tok.Pos, "'}' without a matching '{'")
			}
			return n, nil

		case lexer.Assign:
			return nil, errors.New(errors.ErrUnexpectedToken, tok.Pos, "expected a key, got '='")

		case lexer.BlockOpen:
			child, err := ParseBlock(s)
			if err != nil {
				return nil, err
			}
			n.add(Entry{Value: NewBlock(child), Pos: tok.Pos})

		default:
			s.Next()
			after, err := s.Peek()
			if err != nil {
				return nil, err
			}
			switch after.Kind {
			case lexer.Assign:
				s.Next()
				v, err := ParseValue(s)
				if err != nil {
					return nil, errors.WithKey(err, tok.Text)
				}
				n.add(Entry{Key: tok.Text, Value: v, Pos: tok.Pos})
			case lexer.BlockOpen:
				child, err := ParseBlock(s)
				if err != nil {
					return nil, errors.WithKey(err, tok.Text)
				}
				n.add(Entry{Key: tok.Text, Value: NewBlock(child), Pos: tok.Pos})
			default:
				n.add(Entry{Value: NewScalar(tok.Text, tok.Kind == lexer.String), Pos: tok.Pos})
			}
		}
	}
}

func scalarOf(t lexer.Token) Scalar {
	return Scalar{Text: t.Text, Quoted: t.Kind == lexer.String}
}
