// Package sema validates a canonical scene document: root tag, closed tag
// vocabulary, per-category attribute schemas, value formats, id uniqueness
// and material references. Findings are attached to the nodes they concern;
// the walk never stops early.
package sema

import (
	"fmt"
	"strings"

	"scenec/internal/ast"
	"scenec/internal/diag"
	"scenec/internal/grammar"
)

const rootTagName = "scene"

// Options configure one validation run.
type Options struct {
	// Strict adds warnings for attributes outside a known tag's schema.
	Strict bool
}

// Result describes what one Validate call attached.
type Result struct {
	// Diagnostics lists the diagnostics attached by this call, in attach order.
	Diagnostics []diag.Diagnostic
	// IDs maps every declared id to the tag of its first declaration.
	IDs map[string]*ast.Tag
}

// HasErrors reports whether this run attached at least one error.
func (r Result) HasErrors() bool {
	for i := range r.Diagnostics {
		if r.Diagnostics[i].IsError() {
			return true
		}
	}
	return false
}

// Validate runs both passes over doc with a fresh id registry: the first
// registers every id and reports duplicates, the second applies the per-tag
// rules and resolves material references against the complete registry.
//
// Validating the same tree again reports the same Result.Diagnostics but
// attaches nothing new: a node keeps one copy of each finding.
func Validate(doc *ast.Document, opts Options) Result {
	v := &validator{opts: opts, ids: newIDRegistry()}
	if doc == nil {
		return v.result
	}
	v.registerIDs(doc)
	v.check(doc)
	v.result.IDs = v.ids.owners()
	return v.result
}

type validator struct {
	opts   Options
	ids    *idRegistry
	result Result
}

// reporter attaches to n and records the diagnostic in the run result.
func (v *validator) reporter(n ast.Node) diag.Reporter {
	return diag.ReporterFunc(func(d diag.Diagnostic) {
		if !carries(n, &d) {
			n.AddDiagnostic(d)
		}
		v.result.Diagnostics = append(v.result.Diagnostics, d)
	})
}

// carries reports whether n already holds d from an earlier run.
func carries(n ast.Node, d *diag.Diagnostic) bool {
	for _, have := range n.Diagnostics() {
		if have.Code == d.Code && have.Severity == d.Severity &&
			have.Message == d.Message && have.Primary == d.Primary {
			return true
		}
	}
	return false
}

func (v *validator) report(n ast.Node, code diag.Code, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(v.reporter(n), code, n.Span(), fmt.Sprintf(format, args...))
}

func (v *validator) registerIDs(doc *ast.Document) {
	ast.Walk(doc, func(n ast.Node) bool {
		if a, ok := n.(*ast.Attribute); ok && a.Valid && a.Key == "id" {
			v.ids.register(a)
		}
		return true
	})
	v.ids.duplicates(func(id string, decls []*ast.Attribute) {
		for i, a := range decls {
			other := decls[0]
			if i == 0 {
				other = decls[1]
			}
			v.report(a, diag.SemaDuplicateID, "Invalid attribute id. Value must be uniq and is duplicated on this document.").
				WithNote(other.Span(), fmt.Sprintf("id %q is also declared here", id)).
				Emit()
		}
	})
}

func (v *validator) check(doc *ast.Document) {
	switch root := doc.Root(); {
	case root == nil:
		v.report(doc, diag.SemaInvalidRoot, "Type error: Invalid document. Scene must start and finish with <scene> tag.").Emit()
	case root.Name != rootTagName:
		v.report(root, diag.SemaInvalidRoot, "Type error: Invalid document. Scene must start and finish with <scene> tag.").Emit()
	}

	ast.Walk(doc, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Tag:
			v.checkTag(n)
		case *ast.Attribute:
			if n.Valid && n.Key == "material" {
				v.checkMaterialRef(n)
			}
		}
		return true
	})
}

func (v *validator) checkTag(tag *ast.Tag) {
	cat, known := LookupTag(tag.Name)
	if !known {
		rb := v.report(tag, diag.SemaUnknownTag, "Type error: Tag <%s> does not exist.", tag.Name)
		if name, ok := suggestTag(tag.Name); ok {
			if edits := renameEdits(tag, name); len(edits) > 0 {
				rb.WithFix(fmt.Sprintf("did you mean <%s>?", name), edits...)
			}
		}
		rb.Emit()
		return
	}

	for _, rule := range Rules(cat) {
		attr, ok := tag.Attr(rule.Name)
		if !ok {
			if rule.Required {
				v.report(tag, diag.SemaMissingAttribute, "Missing attribute %s in %s.", rule.Name, tag.Name).Emit()
			}
			continue
		}
		if reason := FormatOf(rule.Name).Check(attr.Value); reason != "" {
			v.report(attr, diag.SemaInvalidValue, "Invalid attribute %s. %s.", attr.Key, reason).Emit()
		}
	}

	if v.opts.Strict {
		for _, attr := range tag.Attributes {
			if attr.Valid && !Declares(cat, attr.Key) {
				diag.ReportWarning(v.reporter(attr), diag.SemaUnknownAttribute, attr.Span(),
					fmt.Sprintf("Unknown attribute %s in %s.", attr.Key, tag.Name)).Emit()
			}
		}
	}
}

const unresolvedMaterial = "Invalid attribute material. Must reference a <material> id declared in this document with the form #id."

// checkMaterialRef requires "#<id>" where id belongs to a <material> tag.
// The message is the same for every failure; the note names the cause.
func (v *validator) checkMaterialRef(attr *ast.Attribute) {
	id, ok := strings.CutPrefix(attr.Value, "#")
	if !ok || id == "" {
		v.report(attr, diag.SemaUnresolvedMaterial, unresolvedMaterial).
			WithNote(attr.Span(), fmt.Sprintf("%q is not of the form #id", attr.Value)).
			Emit()
		return
	}
	decl, ok := v.ids.first(id)
	if !ok {
		v.report(attr, diag.SemaUnresolvedMaterial, unresolvedMaterial).
			WithNote(attr.Span(), fmt.Sprintf("id %q is not declared in this document", id)).
			Emit()
		return
	}
	if owner := decl.OwnerTag(); owner == nil || owner.Name != "material" {
		ownerName := "?"
		if owner != nil {
			ownerName = owner.Name
		}
		v.report(attr, diag.SemaUnresolvedMaterial, unresolvedMaterial).
			WithNote(decl.Span(), fmt.Sprintf("id %q is declared here on <%s>", id, ownerName)).
			Emit()
	}
}

// renameEdits replaces the opening and, when present, closing tag names.
func renameEdits(tag *ast.Tag, name string) []diag.FixEdit {
	raw := tag.Raw()
	if raw == nil {
		return nil
	}
	var edits []diag.FixEdit
	for _, tok := range []*grammar.Token{raw.ChildAt(0), raw.Child(grammar.KindClosingName)} {
		if tok != nil && (tok.Kind == grammar.KindName || tok.Kind == grammar.KindClosingName) && tok.Text == tag.Name {
			edits = append(edits, diag.FixEdit{Span: tok.Span, NewText: name})
		}
	}
	return edits
}
