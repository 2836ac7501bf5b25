package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"scenec/internal/source"
)

// Rule names a start rule accepted by ParseRule.
type Rule string

const (
	RuleDocument  Rule = "document"
	RuleTag       Rule = "tag"
	RuleAttribute Rule = "attribute"
	RuleComment   Rule = "comment"
)

// Parser is a recursive-descent matcher over the scene grammar. One Parser
// serves one call; it keeps no state between documents.
type Parser struct {
	c Cursor
}

// Parse matches src against the document rule. The returned root is never
// nil: malformed input yields SyntaxError tokens inside the tree.
func Parse(src []byte, file source.FileID) *Token {
	p := &Parser{c: NewCursor(string(src), file)}
	return p.document()
}

// ParseRule matches a prefix of src against rule. It returns nil when the
// rule does not match at offset 0 before its commit point.
func ParseRule(src []byte, file source.FileID, rule Rule) (*Token, error) {
	p := &Parser{c: NewCursor(string(src), file)}
	switch rule {
	case RuleDocument:
		return p.document(), nil
	case RuleTag:
		return p.tag(), nil
	case RuleAttribute:
		return p.attribute(), nil
	case RuleComment:
		return p.comment(), nil
	}
	return nil, fmt.Errorf("unknown grammar rule %q", rule)
}

// frame is one rule invocation. Until commit a failure rewinds the cursor to
// start and the rule reports no match; after commit the rule has to produce a
// token and failures become SyntaxError children.
type frame struct {
	start     Mark
	committed bool
}

func (p *Parser) enter() frame {
	return frame{start: p.c.Mark()}
}

// backtrack rewinds an uncommitted frame and reports whether it did.
func (p *Parser) backtrack(f *frame) bool {
	if f.committed {
		return false
	}
	p.c.Reset(f.start)
	return true
}

// document ::= WS* (comment WS*)* tag? WS* (comment WS*)*
func (p *Parser) document() *Token {
	start := p.c.Mark()
	doc := &Token{Kind: KindDocument}

	// пролог: комментарии и мусор до корневого тега
	for {
		p.skipWS()
		if p.c.EOF() || p.atTagStart() {
			break
		}
		if p.c.At("<!--") {
			doc.add(p.comment())
			continue
		}
		doc.add(p.unexpected())
	}

	if p.atTagStart() {
		doc.add(p.tag())
	}

	for {
		p.skipWS()
		if p.c.EOF() {
			break
		}
		if p.c.At("<!--") {
			doc.add(p.comment())
			continue
		}
		m := p.c.Mark()
		p.c.SeekEnd()
		sp := p.c.SpanFrom(m)
		doc.add(&Token{
			Kind:    KindSyntaxError,
			Span:    sp,
			Text:    p.c.Text(sp),
			Message: fmt.Sprintf("Unexpected %s after the root tag", describe(p.c.Text(sp))),
		})
	}

	doc.Span = p.c.SpanFrom(start)
	doc.Text = p.c.Text(doc.Span)
	return doc
}

// tag ::= '<' name (WS+ attribute)* WS* ('/>' | '>' WS* body WS* ('</' closingName '>')?)
//
// The rule commits once the name has matched. Returns nil before that.
func (p *Parser) tag() *Token {
	f := p.enter()
	if !p.c.Eat('<') || !isNameStart(p.c.Peek()) {
		p.backtrack(&f)
		return nil
	}
	tag := &Token{Kind: KindTag}
	name := p.name(KindName)
	tag.add(name)
	f.committed = true

	for {
		m := p.c.Mark()
		if p.skipWS() == 0 {
			break
		}
		attr := p.attribute()
		if attr == nil {
			p.c.Reset(m)
			break
		}
		tag.add(attr)
	}
	p.skipWS()

	switch {
	case p.c.At("/>"):
		m := p.c.Mark()
		p.c.EatString("/>")
		sp := p.c.SpanFrom(m)
		tag.add(&Token{Kind: KindSelfClose, Span: sp, Text: "/>"})
	case p.c.Eat('>'):
		tag.add(p.body())
		if closing := p.closing(""); closing != nil {
			tag.add(closing)
		}
	default:
		if p.backtrack(&f) {
			return nil
		}
		found := p.found()
		m := p.c.Mark()
		p.resync()
		sp := p.c.SpanFrom(m)
		tag.add(&Token{
			Kind:    KindSyntaxError,
			Span:    sp,
			Text:    p.c.Text(sp),
			Message: fmt.Sprintf("Expected '>' or '/>' after <%s, found %s", name.Text, found),
		})
		// после восстановления принимаем только собственный закрывающий тег
		if closing := p.closing(name.Text); closing != nil {
			tag.add(closing)
		}
	}

	tag.Span = p.c.SpanFrom(f.start)
	tag.Text = p.c.Text(tag.Span)
	return tag
}

// closing matches '</' name '>' and returns the ClosingName token. When want
// is non-empty only that exact name is accepted. The cursor is left untouched
// on failure.
func (p *Parser) closing(want string) *Token {
	m := p.c.Mark()
	if !p.c.EatString("</") || !isNameStart(p.c.Peek()) {
		p.c.Reset(m)
		return nil
	}
	name := p.name(KindClosingName)
	if !p.c.Eat('>') || (want != "" && name.Text != want) {
		p.c.Reset(m)
		return nil
	}
	return name
}

// body ::= ((comment | tag) WS*)*
//
// Stray input becomes a SyntaxError token followed by a resync to '<'.
func (p *Parser) body() *Token {
	start := p.c.Mark()
	body := &Token{Kind: KindBody}
	for {
		p.skipWS()
		switch {
		case p.c.EOF(), p.c.At("</") && isNameStart(p.c.PeekAt(2)):
			body.Span = p.c.SpanFrom(start)
			body.Text = p.c.Text(body.Span)
			return body
		case p.c.At("<!--"):
			body.add(p.comment())
		case p.atTagStart():
			body.add(p.tag())
		default:
			body.add(p.unexpected())
		}
	}
}

// attribute ::= name WS* '=' WS* string
//
// Commits after the name. Returns nil only when no name is present.
func (p *Parser) attribute() *Token {
	f := p.enter()
	if !isNameStart(p.c.Peek()) {
		p.backtrack(&f)
		return nil
	}
	attr := &Token{Kind: KindAttribute}
	name := p.name(KindName)
	attr.add(name)
	f.committed = true

	afterName := p.c.Mark()
	p.skipWS()
	if !p.c.Eat('=') {
		if p.backtrack(&f) {
			return nil
		}
		p.c.Reset(afterName)
		attr.add(&Token{
			Kind:    KindSyntaxError,
			Span:    p.c.Here(),
			Message: fmt.Sprintf("Expected '=' after attribute %s, found %s", name.Text, p.found()),
		})
		attr.Span = p.c.SpanFrom(f.start)
		attr.Text = p.c.Text(attr.Span)
		return attr
	}
	p.skipWS()
	attr.add(p.str())
	attr.Span = p.c.SpanFrom(f.start)
	attr.Text = p.c.Text(attr.Span)
	return attr
}

// str matches a double-quoted string with JSON escapes. On failure it returns
// a SyntaxError token covering the rejected text: up to and including the next
// quote, stopping before a newline or at EOF.
func (p *Parser) str() *Token {
	start := p.c.Mark()
	if !p.c.Eat('"') {
		return &Token{
			Kind:    KindSyntaxError,
			Span:    p.c.Here(),
			Message: "Expected a double-quoted string, found " + p.found(),
		}
	}
	var problem string
	for problem == "" {
		if p.c.EOF() {
			problem = "Unterminated string"
			break
		}
		b := p.c.Peek()
		switch {
		case b == '"':
			p.c.Bump()
			sp := p.c.SpanFrom(start)
			return &Token{Kind: KindString, Span: sp, Text: p.c.Text(sp)}
		case b == '\\':
			if msg := p.escape(); msg != "" {
				problem = msg
			}
		case b < 0x20:
			problem = fmt.Sprintf("Invalid character %s in string", strconv.QuoteRune(rune(b)))
		default:
			p.c.BumpRune()
		}
	}
	for !p.c.EOF() && p.c.Peek() != '\n' {
		if p.c.Bump() == '"' {
			break
		}
	}
	sp := p.c.SpanFrom(start)
	return &Token{Kind: KindSyntaxError, Span: sp, Text: p.c.Text(sp), Message: problem}
}

// escape consumes one backslash escape, returning a message when it is invalid.
func (p *Parser) escape() string {
	p.c.Bump() // '\'
	switch p.c.Peek() {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		p.c.Bump()
		return ""
	case 'u':
		p.c.Bump()
		for range 4 {
			if !isHex(p.c.Peek()) {
				return "Invalid unicode escape in string"
			}
			p.c.Bump()
		}
		return ""
	case 0:
		if p.c.EOF() {
			return "Unterminated string"
		}
	}
	return fmt.Sprintf("Invalid escape sequence \\%c in string", p.c.Peek())
}

// comment ::= '<!--' (!'-->' .)* '-->'   commits after '<!--'
func (p *Parser) comment() *Token {
	f := p.enter()
	if !p.c.EatString("<!--") {
		p.backtrack(&f)
		return nil
	}
	f.committed = true
	tok := &Token{Kind: KindComment}
	if i := strings.Index(p.c.Rest(), "-->"); i >= 0 {
		p.c.Off += uint32(i) + 3 // #nosec G115
	} else {
		p.c.SeekEnd()
		tok.add(&Token{
			Kind:    KindSyntaxError,
			Span:    p.c.Here(),
			Message: "Unexpected end of input. Missing '-->'",
		})
	}
	tok.Span = p.c.SpanFrom(f.start)
	tok.Text = p.c.Text(tok.Span)
	return tok
}

// name ::= [a-zA-Z][a-zA-Z0-9-]*
func (p *Parser) name(kind Kind) *Token {
	m := p.c.Mark()
	if isNameStart(p.c.Peek()) {
		p.c.Bump()
		for isNameChar(p.c.Peek()) {
			p.c.Bump()
		}
	}
	sp := p.c.SpanFrom(m)
	return &Token{Kind: kind, Span: sp, Text: p.c.Text(sp)}
}

// unexpected skips at least one character and then everything up to the next
// '<', returning a SyntaxError token for the skipped text.
func (p *Parser) unexpected() *Token {
	m := p.c.Mark()
	p.c.BumpRune()
	p.resync()
	sp := p.c.SpanFrom(m)
	text := p.c.Text(sp)
	return &Token{
		Kind:    KindSyntaxError,
		Span:    sp,
		Text:    text,
		Message: "Unexpected " + describe(text),
	}
}

// resync seeks the next '<' without consuming it.
func (p *Parser) resync() {
	p.c.SeekByte('<')
}

func (p *Parser) atTagStart() bool {
	return p.c.Peek() == '<' && isNameStart(p.c.PeekAt(1))
}

// skipWS consumes [ \t\r\n]* and returns how many bytes were skipped.
func (p *Parser) skipWS() int {
	n := 0
	for isWS(p.c.Peek()) {
		p.c.Bump()
		n++
	}
	return n
}

// found describes the next input character for messages.
func (p *Parser) found() string {
	if p.c.EOF() {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(p.c.Rest())
	return strconv.QuoteRune(r)
}

func describe(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "end of input"
	}
	if r := []rune(text); len(r) > 24 {
		text = string(r[:24]) + "..."
	}
	return "input " + strconv.Quote(text)
}

func isWS(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isNameStart(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || ('0' <= b && b <= '9') || b == '-'
}

func isHex(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}
