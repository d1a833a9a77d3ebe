// Package errors defines the error kinds reported by the clausewitz parser.
// error.go contains the located error type and the key path helpers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error kinds. Compare with errors.Is.
var (
	ErrUnterminatedQuote = stderrors.New("unterminated quote")
	ErrUnterminatedBlock = stderrors.New("unterminated block")
	ErrMalformedValue    = stderrors.New("malformed value")
	ErrHandlerContract   = stderrors.New("handler contract violation")
	ErrUnexpectedToken   = stderrors.New("unexpected token")
)

// Location is a position in a source file.
type Location struct {
	File   string
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // byte offset
}

// String returns "file:line:column", or "line L, column C" when the file is unknown.
func (l Location) String() string {
	if l.File != "" {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}

// IsValid reports whether the location points into a source.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// Error is a parse error with its source location and the path of keys
// leading to the faulty statement, outermost first.
type Error struct {
	Err      error
	Detail   string
	Location Location
	Path     []string
}

// New creates a located error of the given kind.
func New(kind error, loc Location, format string, args ...any) *Error {
	return &Error{
		Err:      kind,
		Detail:   fmt.Sprintf(format, args...),
		Location: loc,
	}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if len(e.Path) > 0 {
		sb.WriteString(" at ")
		sb.WriteString(strings.Join(e.Path, "."))
	}
	if e.Location.IsValid() {
		sb.WriteString(" (")
		sb.WriteString(e.Location.String())
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithKey prepends key to the key path of err. Errors that are not located
// parse errors are wrapped so the path is still reported.
func WithKey(err error, key string) error {
	if err == nil {
		return nil
	}
	if key == "" {
		return err
	}
	var pe *Error
	if stderrors.As(err, &pe) {
		cp := *pe
		cp.Path = append([]string{key}, pe.Path...)
		return &cp
	}
	return &Error{Err: err, Path: []string{key}}
}

// InFile stamps the file name on a located error.
func InFile(err error, file string) error {
	if err == nil || file == "" {
		return err
	}
	var pe *Error
	if stderrors.As(err, &pe) {
		cp := *pe
		cp.Location.File = file
		return &cp
	}
	return fmt.Errorf("%s: %w", file, err)
}

// PathOf returns the dot-joined key path carried by err, or "".
func PathOf(err error) string {
	var pe *Error
	if stderrors.As(err, &pe) {
		return strings.Join(pe.Path, ".")
	}
	return ""
}

// LocationOf returns the location carried by err, or the zero Location.
func LocationOf(err error) Location {
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe.Location
	}
	return Location{}
}

// KindOf returns the first error kind found in err's chain, or nil.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrUnterminatedQuote,
		ErrUnterminatedBlock,
		ErrMalformedValue,
		ErrHandlerContract,
		ErrUnexpectedToken,
	} {
		if stderrors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
