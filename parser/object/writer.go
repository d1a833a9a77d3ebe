package object

import (
	"io"
	"strings"
)

// String renders the node in canonical form.
func (n *Node) String() string {
	var b strings.Builder
	writeEntries(&b, n, 0)
	return b.String()
}

// WriteTo writes the canonical form of the node to w. Parsing the output
// yields a tree that serializes to the same text.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	c, err := io.WriteString(w, n.String())
	return int64(c), err
}

// String renders a single value in canonical form.
func (v Value) String() string {
	var b strings.Builder
	writeValue(&b, v, 0)
	return b.String()
}

func writeEntries(b *strings.Builder, n *Node, depth int) {
	for _, e := range n.Entries() {
		indent(b, depth)
		// a list under an empty key would read back as anonymous scalars
		if e.Key != "" || e.Value.kind == ListKind {
			b.WriteString(quoteIfNeeded(e.Key, false))
			b.WriteString(" = ")
		}
		writeValue(b, e.Value, depth)
		b.WriteByte('\n')
	}
}

func writeValue(b *strings.Builder, v Value, depth int) {
	switch v.kind {
	case ScalarKind:
		b.WriteString(quoteIfNeeded(v.scalar.Text, v.scalar.Quoted))
	case ListKind:
		for i, item := range v.list {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(quoteIfNeeded(item.Text, item.Quoted))
		}
	case BlockKind:
		writeBlock(b, v.block, depth)
	}
}

func writeBlock(b *strings.Builder, n *Node, depth int) {
	if n.Len() == 0 {
		b.WriteString("{ }")
		return
	}
	if tokenOnly(n) {
		b.WriteString("{ ")
		for _, e := range n.entries {
			b.WriteString(quoteIfNeeded(e.Value.scalar.Text, e.Value.scalar.Quoted))
			b.WriteByte(' ')
		}
		b.WriteByte('}')
		return
	}
	b.WriteString("{\n")
	writeEntries(b, n, depth+1)
	indent(b, depth)
	b.WriteByte('}')
}

// tokenOnly reports whether every entry of n is an anonymous scalar.
func tokenOnly(n *Node) bool {
	for _, e := range n.entries {
		if e.Key != "" || e.Value.kind != ScalarKind {
			return false
		}
	}
	return true
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteByte('\t')
	}
}

// quoteIfNeeded quotes text when it was quoted in the source or when it
// could not be read back as a single bare word.
func quoteIfNeeded(text string, quoted bool) string {
	if !quoted && text != "" && !strings.ContainsAny(text, " \t\r\n={}#\"") {
		return text
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range text {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
