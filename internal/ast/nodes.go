package ast

import (
	"scenec/internal/grammar"
)

// Document is the root of one parsed file.
type Document struct {
	Base
	Children []Node // *Tag and *Comment
}

// Tag is an element such as <box position="1 2 3"/>.
type Tag struct {
	Base
	Name        string
	ClosingName string // empty when self-closed or never closed
	SelfClosed  bool
	Attributes  []*Attribute
	Children    []Node // *Tag and *Comment
}

// Attribute is a key="value" pair owned by a Tag. When Valid is false the
// grammar could not produce a well-formed pair: Key and Value are absent,
// not empty.
type Attribute struct {
	Base
	Key   string
	Value string
	Valid bool
}

// Comment holds the full <!-- ... --> text including delimiters.
type Comment struct {
	Base
	Text string
}

func NewDocument(raw *grammar.Token) *Document {
	return &Document{Base: newBase(raw, nil)}
}

func NewTag(raw *grammar.Token, parent Node, name string) *Tag {
	return &Tag{Base: newBase(raw, parent), Name: name}
}

func NewAttribute(raw *grammar.Token, parent *Tag) *Attribute {
	var p Node
	if parent != nil {
		p = parent
	}
	return &Attribute{Base: newBase(raw, p)}
}

func NewComment(raw *grammar.Token, parent Node, text string) *Comment {
	return &Comment{Base: newBase(raw, parent), Text: text}
}

func (*Document) Kind() Kind  { return KindDocument }
func (*Tag) Kind() Kind       { return KindTag }
func (*Attribute) Kind() Kind { return KindAttribute }
func (*Comment) Kind() Kind   { return KindComment }

func (*Document) sealed()  {}
func (*Tag) sealed()       {}
func (*Attribute) sealed() {}
func (*Comment) sealed()   {}

// Root returns the first Tag child, the logical scene root.
func (d *Document) Root() *Tag {
	for _, c := range d.Children {
		if t, ok := c.(*Tag); ok {
			return t
		}
	}
	return nil
}

// Attr returns the first valid attribute with the given key.
func (t *Tag) Attr(key string) (*Attribute, bool) {
	for _, a := range t.Attributes {
		if a.Valid && a.Key == key {
			return a, true
		}
	}
	return nil, false
}

// Tags returns the tag children, skipping comments.
func (t *Tag) Tags() []*Tag {
	out := make([]*Tag, 0, len(t.Children))
	for _, c := range t.Children {
		if tag, ok := c.(*Tag); ok {
			out = append(out, tag)
		}
	}
	return out
}

// OwnerTag returns the tag holding a, or nil for a detached attribute.
func (a *Attribute) OwnerTag() *Tag {
	t, _ := a.Parent().(*Tag)
	return t
}
