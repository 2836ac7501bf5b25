package ast

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SimpleNode is the comment-free projection handed to generators and the
// parse command.
type SimpleNode struct {
	Tag      string            `json:"tag" yaml:"tag" msgpack:"tag"`
	Attrs    map[string]string `json:"attrs" yaml:"attrs" msgpack:"attrs"`
	Children []*SimpleNode     `json:"children" yaml:"children" msgpack:"children"`
}

// SimplifyOptions controls attribute key presentation.
type SimplifyOptions struct {
	// CamelCase turns hyphenated keys into lowerCamelCase (look-at -> lookAt).
	CamelCase bool
}

// Simplify projects the document's root tag; it returns nil when the
// document has no tag.
func Simplify(doc *Document, opts SimplifyOptions) *SimpleNode {
	if doc == nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}
	return SimplifyTag(root, opts)
}

// SimplifyTag projects t and its tag descendants. Invalid attributes are
// dropped; for repeated keys the first occurrence wins.
func SimplifyTag(t *Tag, opts SimplifyOptions) *SimpleNode {
	out := &SimpleNode{
		Tag:      t.Name,
		Attrs:    make(map[string]string, len(t.Attributes)),
		Children: []*SimpleNode{},
	}
	for _, a := range t.Attributes {
		if !a.Valid {
			continue
		}
		key := a.Key
		if opts.CamelCase {
			key = CamelCase(key)
		}
		if _, dup := out.Attrs[key]; !dup {
			out.Attrs[key] = a.Value
		}
	}
	for _, c := range t.Tags() {
		out.Children = append(out.Children, SimplifyTag(c, opts))
	}
	return out
}

// CamelCase converts a hyphenated name into lowerCamelCase.
func CamelCase(name string) string {
	// Caser хранит состояние, поэтому новый на каждый вызов
	titleCaser := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(name, "-")
	var b strings.Builder
	b.Grow(len(name))
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(titleCaser.String(part))
	}
	return b.String()
}
