// Package testkit holds structural checks shared by unit tests and fuzzers.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"scenec/internal/ast"
	"scenec/internal/grammar"
	"scenec/internal/source"
)

// CheckTokenInvariants validates a raw grammar tree against its source:
//  1. the document token spans the whole input;
//  2. every token lies inside its parent and points into file;
//  3. siblings are ordered and do not overlap;
//  4. Text is exactly the spanned source.
func CheckTokenInvariants(root *grammar.Token, src []byte, file source.FileID) error {
	if root == nil {
		return fmt.Errorf("nil root token")
	}
	size, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("source too large: %w", err)
	}
	if root.Kind != grammar.KindDocument {
		return fmt.Errorf("root kind = %v, want document", root.Kind)
	}
	if root.Span.Start != 0 || root.Span.End != size {
		return fmt.Errorf("document span %v does not cover [0,%d)", root.Span, size)
	}
	return checkToken(root, src, file)
}

func checkToken(tok *grammar.Token, src []byte, file source.FileID) error {
	sp := tok.Span
	if sp.File != file {
		return fmt.Errorf("%v token points to file %d, want %d", tok.Kind, sp.File, file)
	}
	if sp.Start > sp.End || int(sp.End) > len(src) {
		return fmt.Errorf("%v token has bad span %v", tok.Kind, sp)
	}
	if got := string(src[sp.Start:sp.End]); got != tok.Text {
		return fmt.Errorf("%v token text %q differs from source %q", tok.Kind, tok.Text, got)
	}
	prevEnd := sp.Start
	for _, child := range tok.Children {
		if child == nil {
			return fmt.Errorf("%v token has a nil child", tok.Kind)
		}
		if !sp.Contains(child.Span) {
			return fmt.Errorf("%v child %v escapes parent %v %v", child.Kind, child.Span, tok.Kind, sp)
		}
		if child.Span.Start < prevEnd {
			return fmt.Errorf("%v child %v overlaps its previous sibling (ends at %d)", child.Kind, child.Span, prevEnd)
		}
		prevEnd = child.Span.End
		if err := checkToken(child, src, file); err != nil {
			return err
		}
	}
	return nil
}

// CheckNodeInvariants validates a typed tree: nodes nest inside their
// parents, parent links are consistent, and every diagnostic points into
// the document.
func CheckNodeInvariants(doc *ast.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	bounds := doc.Span()
	var failure error
	ast.Walk(doc, func(n ast.Node) bool {
		if failure != nil {
			return false
		}
		if parent := n.Parent(); parent != nil {
			if !parent.Span().Contains(n.Span()) {
				failure = fmt.Errorf("%v span %v escapes parent %v %v", n.Kind(), n.Span(), parent.Kind(), parent.Span())
				return false
			}
		} else if n != ast.Node(doc) {
			failure = fmt.Errorf("%v at %v has no parent", n.Kind(), n.Span())
			return false
		}
		for _, d := range n.Diagnostics() {
			if d.Primary.File != bounds.File || !bounds.Contains(d.Primary) {
				failure = fmt.Errorf("diagnostic %q at %v outside document %v", d.Message, d.Primary, bounds)
				return false
			}
		}
		return true
	})
	return failure
}
