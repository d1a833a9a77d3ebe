package read

import (
	"errors"
	"testing"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
	"github.com/daveroberts0321/clausewitz/parser/lexer"
)

// afterAssign returns a stream positioned after "key =".
func afterAssign(t *testing.T, src string) *lexer.Stream {
	t.Helper()
	s := lexer.NewString(src)
	if _, err := s.Expect(lexer.Word); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := s.Expect(lexer.Assign); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return s
}

func nextText(t *testing.T, s *lexer.Stream) string {
	t.Helper()
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	return tok.Text
}

// Test the scalar readers on well-formed input.
func TestScalars(t *testing.T) {
	s := afterAssign(t, `name = "Stockholm" rest`)
	if v, err := String(s); err != nil || v != "Stockholm" {
		t.Fatalf("String: %q %v", v, err)
	}
	if nextText(t, s) != "rest" {
		t.Fatal("String consumed more than one token")
	}

	s = afterAssign(t, `value = 42`)
	if v, err := Int(s); err != nil || v != 42 {
		t.Fatalf("Int: %d %v", v, err)
	}

	s = afterAssign(t, `value = 42.000`)
	if v, err := Int(s); err != nil || v != 42 {
		t.Fatalf("Int with decimals: %d %v", v, err)
	}

	s = afterAssign(t, `base_tax = -3.125`)
	if v, err := Float(s); err != nil || v != -3.125 {
		t.Fatalf("Float: %v %v", v, err)
	}

	s = afterAssign(t, `hre = yes`)
	if v, err := Bool(s); err != nil || !v {
		t.Fatalf("Bool: %v %v", v, err)
	}
}

// Test that malformed values are reported and the value is still consumed.
func TestMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		read func(*lexer.Stream) error
	}{
		{"int from word", `value = high next`, func(s *lexer.Stream) error { _, err := Int(s); return err }},
		{"fractional int", `value = 1.5 next`, func(s *lexer.Stream) error { _, err := Int(s); return err }},
		{"int out of range", `value = 1e30 next`, func(s *lexer.Stream) error { _, err := Int(s); return err }},
		{"int overflow", `value = 9999999999999999999 next`, func(s *lexer.Stream) error { _, err := Int(s); return err }},
		{"float from word", `value = x next`, func(s *lexer.Stream) error { _, err := Float(s); return err }},
		{"bool from word", `hre = maybe next`, func(s *lexer.Stream) error { _, err := Bool(s); return err }},
		{"string from block", `name = { a = { b } } next`, func(s *lexer.Stream) error { _, err := String(s); return err }},
		{"list with block", `cores = { A { B } C } next`, func(s *lexer.Stream) error { _, err := Strings(s); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := afterAssign(t, tt.src)
			err := tt.read(s)
			if !errors.Is(err, perrors.ErrMalformedValue) {
				t.Fatalf("expected malformed value, got %v", err)
			}
			if got := nextText(t, s); got != "next" {
				t.Fatalf("expected the stream after the value, got %q", got)
			}
		})
	}
}

// Test that a missing value is reported without consuming the delimiter.
func TestMissingValue(t *testing.T) {
	s := lexer.NewString(`{ value = }`)
	s.Next()
	s.Next()
	s.Next()
	if _, err := String(s); !errors.Is(err, perrors.ErrMalformedValue) {
		t.Fatalf("expected malformed value, got %v", err)
	}
	if tok, _ := s.Peek(); tok.Kind != lexer.BlockClose {
		t.Fatalf("expected '}' to remain, got %v", tok)
	}
}

// Test the three accepted list shapes.
func TestStrings(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{`cores = { SWE "DAN" NOR } next = 1`, []string{"SWE", "DAN", "NOR"}},
		{`cores = SWE DAN NOR next = 1`, []string{"SWE", "DAN", "NOR"}},
		{`cores = SWE next = 1`, []string{"SWE"}},
		{`cores = { } next = 1`, nil},
	}
	for _, tt := range tests {
		s := afterAssign(t, tt.src)
		got, err := Strings(s)
		if err != nil {
			t.Fatalf("%s: %v", tt.src, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("%s: got %q", tt.src, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%s: got %q", tt.src, got)
			}
		}
		if nextText(t, s) != "next" {
			t.Fatalf("%s: list read past its end", tt.src)
		}
	}
}

// Test numeric lists.
func TestNumericLists(t *testing.T) {
	s := afterAssign(t, `color = { 12 34 255 }`)
	ints, err := Ints(s)
	if err != nil || len(ints) != 3 || ints[2] != 255 {
		t.Fatalf("Ints: %v %v", ints, err)
	}
	s = afterAssign(t, `weights = 0.5 1.25`)
	floats, err := Floats(s)
	if err != nil || len(floats) != 2 || floats[1] != 1.25 {
		t.Fatalf("Floats: %v %v", floats, err)
	}
}

// Test that Discard lands on the first token after any value shape,
// regardless of nesting depth.
func TestDiscardIsDepthCorrect(t *testing.T) {
	values := []string{
		`42`,
		`"quoted value"`,
		`A B C`,
		`{ }`,
		`{ a = 1 b = { c = { d = { e = 2 } } f = "}" } g = { 1 2 3 } }`,
		`{ { a = 1 } { b = 2 } }`,
	}
	for _, v := range values {
		s := afterAssign(t, "key = "+v+" after = 1")
		if err := Discard(s); err != nil {
			t.Fatalf("%s: %v", v, err)
		}
		if s.Depth() != 0 {
			t.Fatalf("%s: depth %d after discard", v, s.Depth())
		}
		if got := nextText(t, s); got != "after" {
			t.Fatalf("%s: expected 'after', got %q", v, got)
		}
	}
}

// Test that discarding an unclosed block fails as a structural error.
func TestDiscardUnterminated(t *testing.T) {
	s := afterAssign(t, `key = { a = { b = 1 }`)
	if err := Discard(s); !errors.Is(err, perrors.ErrUnterminatedBlock) {
		t.Fatalf("expected unterminated block, got %v", err)
	}
}
