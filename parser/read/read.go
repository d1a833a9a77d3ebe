// Package read provides the primitive value readers. Every reader expects
// the stream to be positioned right after a key and its '=' and consumes
// exactly one value unit, also when it reports ErrMalformedValue, so the
// caller may log the failure and carry on.
package read

import (
	"math"
	"strconv"
	"strings"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
)

// String reads one scalar token and returns its text.
func String(s *lexer.Stream) (string, error) {
	tok, err := s.Peek()
	if err != nil {
		return "", err
	}
	switch {
	case tok.IsScalar():
		s.Next()
		return tok.Text, nil
	case tok.Kind == lexer.BlockOpen:
		if err := Discard(s); err != nil {
			return "", err
		}
		return "", perrors.New(perrors.ErrMalformedValue, tok.Pos, "expected a scalar, got a block")
	default:
		return "", perrors.New(perrors.ErrMalformedValue, tok.Pos, "expected a scalar, got %s", tok)
	}
}

// Int reads one scalar as an integer. Integral decimal spellings such as
// "42.000" are accepted.
func Int(s *lexer.Stream) (int, error) {
	pos := s.Location()
	text, err := String(s)
	if err != nil {
		return 0, err
	}
	return parseInt(text, pos)
}

// Float reads one scalar as a floating point number.
func Float(s *lexer.Stream) (float64, error) {
	pos := s.Location()
	text, err := String(s)
	if err != nil {
		return 0, err
	}
	return parseFloat(text, pos)
}

// Bool reads a yes/no scalar.
func Bool(s *lexer.Stream) (bool, error) {
	pos := s.Location()
	text, err := String(s)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(text) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, perrors.New(perrors.ErrMalformedValue, pos, "expected yes or no, got %q", text)
	}
}

// Strings reads a list of scalars written as a block "{ a b c }", as a bare
// run "a b c", or as a single scalar.
func Strings(s *lexer.Stream) ([]string, error) {
	tok, err := s.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.BlockOpen {
		run, err := Run(s)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(run))
		for i, t := range run {
			out[i] = t.Text
		}
		return out, nil
	}

	s.Next()
	var out []string
	for {
		tok, err := s.Peek()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Kind == lexer.BlockClose:
			s.Next()
			return out, nil
		case tok.Kind == lexer.EOF:
			return nil, perrors.New(perrors.ErrUnterminatedBlock, tok.Pos, "expected '}' to close the list")
		case tok.IsScalar():
			s.Next()
			out = append(out, tok.Text)
		default:
			if err := skipBlockContents(s); err != nil {
				return nil, err
			}
			return nil, perrors.New(perrors.ErrMalformedValue, tok.Pos, "expected a list of scalars, got %s", tok)
		}
	}
}

// Ints reads a list of integers; see Strings for the accepted shapes.
func Ints(s *lexer.Stream) ([]int, error) {
	pos := s.Location()
	items, err := Strings(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(items))
	for i, item := range items {
		if out[i], err = parseInt(item, pos); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Floats reads a list of floating point numbers; see Strings for the
// accepted shapes.
func Floats(s *lexer.Stream) ([]float64, error) {
	pos := s.Location()
	items, err := Strings(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		if out[i], err = parseFloat(item, pos); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Run reads a scalar followed by every scalar that is not the key of the
// next statement. A run of length one is a plain scalar; longer runs are
// bare lists.
func Run(s *lexer.Stream) ([]lexer.Token, error) {
	tok, err := s.Peek()
	if err != nil {
		return nil, err
	}
	if !tok.IsScalar() {
		return nil, perrors.New(perrors.ErrMalformedValue, tok.Pos, "expected a value, got %s", tok)
	}
	s.Next()
	run := []lexer.Token{tok}
	for {
		next, err := s.Peek()
		if err != nil {
			return nil, err
		}
		if !next.IsScalar() {
			return run, nil
		}
		key, err := s.KeyAhead()
		if err != nil {
			return nil, err
		}
		if key {
			return run, nil
		}
		s.Next()
		run = append(run, next)
	}
}

// Discard consumes one value unit without interpreting it: a scalar, a bare
// list, or a block together with everything nested inside it. The stream is
// left right after the value.
func Discard(s *lexer.Stream) error {
	tok, err := s.Peek()
	if err != nil {
		return err
	}
	if tok.Kind != lexer.BlockOpen {
		_, err := Run(s)
		return err
	}
	s.Next()
	return skipBlockContents(s)
}

// skipBlockContents consumes tokens up to and including the '}' that closes
// the innermost block the stream is currently in.
func skipBlockContents(s *lexer.Stream) error {
	target := s.Depth() - 1
	for s.Depth() > target {
		tok, err := s.Next()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.EOF {
			return perrors.New(perrors.ErrUnterminatedBlock, tok.Pos, "expected '}' before end of file")
		}
	}
	return nil
}

func parseInt(text string, pos perrors.Location) (int, error) {
	if i, err := strconv.Atoi(text); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt || f < math.MinInt {
		return 0, perrors.New(perrors.ErrMalformedValue, pos, "expected an integer, got %q", text)
	}
	return int(f), nil
}

func parseFloat(text string, pos perrors.Location) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, perrors.New(perrors.ErrMalformedValue, pos, "expected a number, got %q", text)
	}
	return f, nil
}
