package ast

import (
	"scenec/internal/diag"
	"scenec/internal/grammar"
	"scenec/internal/source"
)

// Kind identifies the concrete node type.
type Kind uint8

const (
	KindDocument Kind = iota + 1
	KindTag
	KindAttribute
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindTag:
		return "Tag"
	case KindAttribute:
		return "Attribute"
	case KindComment:
		return "Comment"
	}
	return "Invalid"
}

// Node is the closed set {*Document, *Tag, *Attribute, *Comment}.
// The unexported method keeps other packages from adding variants.
type Node interface {
	Kind() Kind
	Span() source.Span
	Raw() *grammar.Token
	Parent() Node
	Diagnostics() []diag.Diagnostic
	AddDiagnostic(d diag.Diagnostic)
	Reporter() diag.Reporter
	sealed()
}

// Base holds what every node shares. Diagnostics are append-only.
type Base struct {
	span   source.Span
	raw    *grammar.Token
	parent Node // не владеет
	diags  []diag.Diagnostic
}

func newBase(raw *grammar.Token, parent Node) Base {
	b := Base{raw: raw, parent: parent}
	if raw != nil {
		b.span = raw.Span
	}
	return b
}

func (b *Base) Span() source.Span   { return b.span }
func (b *Base) Raw() *grammar.Token { return b.raw }
func (b *Base) Parent() Node        { return b.parent }

// Diagnostics returns a copy of the node's own diagnostics.
func (b *Base) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(b.diags))
	copy(out, b.diags)
	return out
}

func (b *Base) AddDiagnostic(d diag.Diagnostic) {
	b.diags = append(b.diags, d)
}

// HasErrors reports whether the node itself carries an error.
func (b *Base) HasErrors() bool {
	for i := range b.diags {
		if b.diags[i].IsError() {
			return true
		}
	}
	return false
}

// Reporter returns a diag.Reporter that attaches to this node.
func (b *Base) Reporter() diag.Reporter {
	return nodeReporter{b}
}

type nodeReporter struct{ b *Base }

func (r nodeReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.b.AddDiagnostic(diag.Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}
