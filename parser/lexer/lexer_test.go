package lexer

import (
	"errors"
	"testing"

	perrors "github.com/daveroberts0321/clausewitz/parser/errors"
)

func collect(t *testing.T, s *Stream) []Token {
	t.Helper()
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Kind == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// Test the token classification of a small statement sequence.
func TestTokenKinds(t *testing.T) {
	src := `relations = { value = 42 last_war = "1660.1.1" } # trailing comment
cores = TAG1 TAG2`
	toks := collect(t, NewString(src))

	want := []struct {
		kind Kind
		text string
	}{
		{Word, "relations"}, {Assign, "="}, {BlockOpen, "{"},
		{Word, "value"}, {Assign, "="}, {Word, "42"},
		{Word, "last_war"}, {Assign, "="}, {String, "1660.1.1"},
		{BlockClose, "}"},
		{Word, "cores"}, {Assign, "="}, {Word, "TAG1"}, {Word, "TAG2"},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Fatalf("token %d: expected %s %q, got %s %q", i, w.kind, w.text, toks[i].Kind, toks[i].Text)
		}
	}
}

// Test that words stop at delimiters even without surrounding whitespace.
func TestWordsStopAtDelimiters(t *testing.T) {
	toks := collect(t, NewString(`a=b{c}d#comment`+"\n"+`e"f g"`))
	var texts []string
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}
	want := []string{"a", "=", "b", "{", "c", "}", "d", "e", "f g"}
	if len(texts) != len(want) {
		t.Fatalf("unexpected tokens %q", texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("unexpected tokens %q", texts)
		}
	}
}

// Test quoted string content, escapes and raw text.
func TestQuotedStrings(t *testing.T) {
	toks := collect(t, NewString(`name = "Holy Roman Empire." path = "C:\Games\eu4" quote = "say \"hi\""`))
	if toks[2].Text != "Holy Roman Empire." || toks[2].Raw != `"Holy Roman Empire."` {
		t.Fatalf("unexpected string token %+v", toks[2])
	}
	if toks[5].Text != `C:\Games\eu4` {
		t.Fatalf("expected backslashes to be kept, got %q", toks[5].Text)
	}
	if toks[8].Text != `say "hi"` {
		t.Fatalf("expected escaped quotes to be unescaped, got %q", toks[8].Text)
	}
}

// Test that an unterminated quote is fatal and reports where it opened.
func TestUnterminatedQuote(t *testing.T) {
	s := NewString("a = 1\nb = \"never closed\n", WithFilename("broken.txt"))
	var err error
	for err == nil {
		var tok Token
		tok, err = s.Next()
		if err == nil && tok.Kind == EOF {
			t.Fatal("expected an error before end of file")
		}
	}
	if !errors.Is(err, perrors.ErrUnterminatedQuote) {
		t.Fatalf("unexpected error %v", err)
	}
	loc := perrors.LocationOf(err)
	if loc.File != "broken.txt" || loc.Line != 2 || loc.Column != 5 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if _, again := s.Next(); !errors.Is(again, perrors.ErrUnterminatedQuote) {
		t.Fatalf("expected the error to be sticky, got %v", again)
	}
}

// Test that peeking does not consume and that depth follows consumed braces.
func TestPeekAndDepth(t *testing.T) {
	s := NewString("a = { b = c }")
	third, err := s.PeekN(2)
	if err != nil || third.Kind != BlockOpen {
		t.Fatalf("unexpected peek %v %v", third, err)
	}
	if s.Consumed() != 0 || s.Depth() != 0 {
		t.Fatalf("peek consumed input: consumed=%d depth=%d", s.Consumed(), s.Depth())
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", s.Depth())
	}
	collect(t, s)
	if s.Depth() != 0 || s.Consumed() != 7 {
		t.Fatalf("expected depth 0 after 7 tokens, got depth=%d consumed=%d", s.Depth(), s.Consumed())
	}
	if tok, _ := s.PeekN(5); tok.Kind != EOF {
		t.Fatalf("expected EOF past the end, got %v", tok)
	}
}

// Test the key lookahead used to end bare lists.
func TestKeyAhead(t *testing.T) {
	s := NewString("TAG2 TAG3 owner = SWE")
	ok, err := s.KeyAhead()
	if err != nil || ok {
		t.Fatalf("expected TAG2 not to be a key, got %v %v", ok, err)
	}
	s.Next()
	s.Next()
	if ok, _ := s.KeyAhead(); !ok {
		t.Fatal("expected owner to be a key")
	}
}

// Test token positions, including a byte order mark and multi-byte runes.
func TestPositions(t *testing.T) {
	s := New(append([]byte{0xEF, 0xBB, 0xBF}, []byte("name = \"Köln\" x\n  y")...))
	toks := collect(t, s)
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Fatalf("unexpected first position %+v", toks[0].Pos)
	}
	if toks[3].Text != "x" || toks[3].Pos.Column != 15 {
		t.Fatalf("unexpected position of x: %+v", toks[3].Pos)
	}
	if toks[4].Pos.Line != 2 || toks[4].Pos.Column != 3 {
		t.Fatalf("unexpected position of y: %+v", toks[4].Pos)
	}
}

// Test that a clone advances independently.
func TestClone(t *testing.T) {
	s := NewString("a b c")
	s.Peek()
	c := s.Clone()
	c.Next()
	c.Next()
	tok, _ := s.Next()
	if tok.Text != "a" {
		t.Fatalf("clone moved the original cursor: %v", tok)
	}
	tok, _ = c.Next()
	if tok.Text != "c" {
		t.Fatalf("unexpected clone token %v", tok)
	}
}
