// Package canon turns the raw grammar tree into the typed AST and converts
// recovery artifacts into diagnostics attached to the smallest enclosing node.
package canon

import (
	"encoding/json"
	"errors"
	"fmt"

	"scenec/internal/ast"
	"scenec/internal/diag"
	"scenec/internal/grammar"
)

// ErrInvalidProgram is returned only when the grammar produced no root,
// which means the engine itself is broken.
var ErrInvalidProgram = errors.New("invalid program")

// Canonicalize builds the Document for root. Malformed input never produces
// an error; it produces diagnostics on nodes.
func Canonicalize(root *grammar.Token) (*ast.Document, error) {
	if root == nil || root.Kind != grammar.KindDocument {
		return nil, ErrInvalidProgram
	}
	doc := ast.NewDocument(root)
	for _, child := range root.Children {
		if n := structural(child, doc); n != nil {
			doc.Children = append(doc.Children, n)
		}
	}
	return doc, nil
}

// structural converts a Tag/Comment token; SyntaxError tokens become a
// diagnostic on parent and yield no node.
func structural(tok *grammar.Token, parent ast.Node) ast.Node {
	switch tok.Kind {
	case grammar.KindTag:
		return canonTag(tok, parent)
	case grammar.KindComment:
		return canonComment(tok, parent)
	case grammar.KindSyntaxError:
		diag.ReportError(parent.Reporter(), diag.SynUnexpectedInput, tok.Span, "Syntax error: "+tok.Message).Emit()
	}
	return nil
}

func canonTag(tok *grammar.Token, parent ast.Node) *ast.Tag {
	name := tok.ChildAt(0)
	tag := ast.NewTag(tok, parent, name.Text)

	var headerErr *grammar.Token
	for _, child := range tok.Children[1:] {
		switch child.Kind {
		case grammar.KindAttribute:
			tag.Attributes = append(tag.Attributes, canonAttribute(child, tag))
		case grammar.KindSelfClose:
			tag.SelfClosed = true
		case grammar.KindBody:
			for _, c := range child.Children {
				if n := structural(c, tag); n != nil {
					tag.Children = append(tag.Children, n)
				}
			}
		case grammar.KindClosingName:
			tag.ClosingName = child.Text
		case grammar.KindSyntaxError:
			headerErr = child
		}
	}

	if tag.SelfClosed {
		return tag
	}
	if tag.ClosingName != tag.Name || tag.ClosingName == "" {
		rb := diag.ReportError(tag.Reporter(), diag.SynTagNotClosed, tok.Span,
			fmt.Sprintf("Syntax error: Tag <%s> is not closed", tag.Name))
		if headerErr != nil {
			rb.WithNote(headerErr.Span, headerErr.Message)
		}
		if headerErr == nil && tag.ClosingName == "" {
			rb.WithFix(fmt.Sprintf("insert </%s>", tag.Name), diag.FixEdit{
				Span:    tok.Span.ZeroideToEnd(),
				NewText: "</" + tag.Name + ">",
			})
		}
		if tag.ClosingName != "" {
			closing := tok.Child(grammar.KindClosingName)
			rb.WithNote(closing.Span, fmt.Sprintf("closed by </%s>", tag.ClosingName))
		}
		rb.Emit()
		return tag
	}
	if headerErr != nil {
		diag.ReportError(tag.Reporter(), diag.SynMalformedTag, headerErr.Span,
			fmt.Sprintf("Syntax error: Tag <%s> is malformed: %s", tag.Name, headerErr.Message)).Emit()
	}
	return tag
}

func canonAttribute(tok *grammar.Token, owner *ast.Tag) *ast.Attribute {
	attr := ast.NewAttribute(tok, owner)
	key := tok.Child(grammar.KindName)
	if serr := tok.SyntaxError(); serr != nil {
		label := tok.Text
		if key != nil && key.Text != "" {
			label = key.Text
		}
		diag.ReportError(attr.Reporter(), diag.SynInvalidAttribute, tok.Span,
			fmt.Sprintf("Syntax error: Invalid attribute %q", label)).
			WithNote(serr.Span, serr.Message).
			Emit()
		return attr
	}
	str := tok.Child(grammar.KindString)
	value, err := decodeString(str.Text)
	if err != nil {
		// грамматика уже проверила экранирование; сюда попадаем только при рассинхроне
		diag.ReportError(attr.Reporter(), diag.SynInvalidAttribute, str.Span,
			fmt.Sprintf("Syntax error: Invalid attribute %q", key.Text)).
			WithNote(str.Span, err.Error()).
			Emit()
		return attr
	}
	attr.Key = key.Text
	attr.Value = DecodeEntities(value)
	attr.Valid = true
	return attr
}

func canonComment(tok *grammar.Token, parent ast.Node) *ast.Comment {
	c := ast.NewComment(tok, parent, tok.Text)
	if serr := tok.SyntaxError(); serr != nil {
		diag.ReportError(c.Reporter(), diag.SynUnclosedComment, tok.Span, "SyntaxError: "+serr.Message).
			WithFix("insert -->", diag.FixEdit{Span: tok.Span.ZeroideToEnd(), NewText: "-->"}).
			Emit()
	}
	return c
}

// decodeString decodes a quoted JSON string literal.
func decodeString(lit string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(lit), &s); err != nil {
		return "", fmt.Errorf("cannot decode string literal: %w", err)
	}
	return s, nil
}
