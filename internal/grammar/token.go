package grammar

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"scenec/internal/source"
)

// Token is a node of the raw parse tree. Text is the matched source text;
// Message is set only on KindSyntaxError tokens.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Message  string
	Children []*Token
}

func (t *Token) add(child *Token) {
	if child != nil {
		t.Children = append(t.Children, child)
	}
}

// Child returns the first direct child of kind k.
func (t *Token) Child(k Kind) *Token {
	if t == nil {
		return nil
	}
	for _, c := range t.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// ChildAt returns the i-th direct child, or nil.
func (t *Token) ChildAt(i int) *Token {
	if t == nil || i < 0 || i >= len(t.Children) {
		return nil
	}
	return t.Children[i]
}

// SyntaxError returns the first direct SyntaxError child.
func (t *Token) SyntaxError() *Token {
	return t.Child(KindSyntaxError)
}

// Walk visits t and its descendants in pre-order until fn returns false.
func (t *Token) Walk(fn func(*Token) bool) bool {
	if t == nil {
		return true
	}
	if !fn(t) {
		return false
	}
	for _, c := range t.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Errors collects every SyntaxError token in the subtree.
func (t *Token) Errors() []*Token {
	var out []*Token
	t.Walk(func(n *Token) bool {
		if n.Kind == KindSyntaxError {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Dump writes an indented listing of the tree, one token per line.
func (t *Token) Dump(w io.Writer) error {
	var b strings.Builder
	t.dump(&b, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Token) dump(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(b, "%s %d..%d", t.Kind, t.Span.Start, t.Span.End)
	switch t.Kind {
	case KindName, KindClosingName, KindString:
		b.WriteString(" " + strconv.Quote(t.Text))
	case KindComment:
		b.WriteString(" " + strconv.Quote(abbrev(t.Text, 32)))
	case KindSyntaxError:
		b.WriteString(" " + strconv.Quote(t.Message))
	}
	b.WriteByte('\n')
	for _, c := range t.Children {
		c.dump(b, depth+1)
	}
}

func abbrev(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
