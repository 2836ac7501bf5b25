package ast

import (
	"fmt"

	"scenec/internal/diag"
)

// Walk visits n and its descendants in pre-order. A tag's attributes are
// visited before its children. Returning false from fn skips the subtree of
// the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Document:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Tag:
		for _, a := range n.Attributes {
			Walk(a, fn)
		}
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Attribute, *Comment:
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
}

// Visitor dispatches on the concrete node type.
type Visitor interface {
	VisitDocument(*Document)
	VisitTag(*Tag)
	VisitAttribute(*Attribute)
	VisitComment(*Comment)
}

// Accept calls the Visitor method matching n.
func Accept(n Node, v Visitor) {
	switch n := n.(type) {
	case *Document:
		v.VisitDocument(n)
	case *Tag:
		v.VisitTag(n)
	case *Attribute:
		v.VisitAttribute(n)
	case *Comment:
		v.VisitComment(n)
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
}

// Tags returns every tag under n in document order.
func Tags(n Node) []*Tag {
	var out []*Tag
	Walk(n, func(x Node) bool {
		if t, ok := x.(*Tag); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// CollectDiagnostics flattens the diagnostics of n's subtree deepest first:
// a node's own diagnostics follow those of its attributes and children.
func CollectDiagnostics(n Node) []diag.Diagnostic {
	var out []diag.Diagnostic
	collect(n, &out)
	return out
}

func collect(n Node, out *[]diag.Diagnostic) {
	switch n := n.(type) {
	case *Document:
		for _, c := range n.Children {
			collect(c, out)
		}
	case *Tag:
		for _, a := range n.Attributes {
			collect(a, out)
		}
		for _, c := range n.Children {
			collect(c, out)
		}
	case *Attribute, *Comment:
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
	*out = append(*out, n.Diagnostics()...)
}

// HasErrors reports whether any node under n carries an error diagnostic.
func HasErrors(n Node) bool {
	for _, d := range CollectDiagnostics(n) {
		if d.IsError() {
			return true
		}
	}
	return false
}
