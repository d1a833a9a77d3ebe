package dispatch

import (
	"errors"
	"log/slog"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
	"github.com/daveroberts0321/clausewitz/parser/object"
	"github.com/daveroberts0321/clausewitz/parser/read"
)

// Ignore discards the value. It is the default fallback.
func Ignore(_ string, s *lexer.Stream) error {
	return read.Discard(s)
}

// String stores a scalar into dst.
func String(dst *string) Handler {
	return func(_ string, s *lexer.Stream) error {
		v, err := read.String(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Int stores an integer into dst.
func Int(dst *int) Handler {
	return func(_ string, s *lexer.Stream) error {
		v, err := read.Int(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Float stores a number into dst.
func Float(dst *float64) Handler {
	return func(_ string, s *lexer.Stream) error {
		v, err := read.Float(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Bool stores a yes/no value into dst.
func Bool(dst *bool) Handler {
	return func(_ string, s *lexer.Stream) error {
		v, err := read.Bool(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Strings appends the items of a list to dst, so repeated keys accumulate.
func Strings(dst *[]string) Handler {
	return func(_ string, s *lexer.Stream) error {
		v, err := read.Strings(s)
		if err != nil {
			return err
		}
		*dst = append(*dst, v...)
		return nil
	}
}

// Present records that the key occurred and discards its value.
func Present(dst *bool) Handler {
	return func(_ string, s *lexer.Stream) error {
		*dst = true
		return read.Discard(s)
	}
}

// Value stores the value parsed into the generic object tree.
func Value(dst *object.Value) Handler {
	return func(_ string, s *lexer.Stream) error {
		v, err := object.ParseValue(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Object stores a block parsed into the generic object tree. A scalar value
// is consumed and reported as malformed.
func Object(dst **object.Node) Handler {
	return func(_ string, s *lexer.Stream) error {
		v, err := object.ParseValue(s)
		if err != nil {
			return err
		}
		n := v.Block()
		if n == nil {
			return perrors.New(perrors.ErrMalformedValue, s.Location(), "expected a block, got %s", v.Kind())
		}
		*dst = n
		return nil
	}
}

// Block parses the value with a nested binding table.
func Block(p *Parser) Handler {
	return func(_ string, s *lexer.Stream) error {
		return p.ParseBlock(s)
	}
}

// Func adapts a handler that does not need the key.
func Func(fn func(s *lexer.Stream) error) Handler {
	return func(_ string, s *lexer.Stream) error {
		return fn(s)
	}
}

// Recover wraps h so that malformed values are logged and skipped instead of
// aborting the parse. Other errors are passed through.
func Recover(logger *slog.Logger, h Handler) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(key string, s *lexer.Stream) error {
		err := h(key, s)
		if err == nil || !errors.Is(err, perrors.ErrMalformedValue) {
			return err
		}
		attrs := []any{"key", key, "error", err}
		if loc := perrors.LocationOf(err); loc.IsValid() {
			attrs = append(attrs, "location", loc.String())
		}
		logger.Warn("skipping malformed value", attrs...)
		return nil
	}
}
