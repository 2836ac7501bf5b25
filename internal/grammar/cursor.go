package grammar

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"scenec/internal/source"
)

// Cursor - явная позиция в исходном тексте; откат делается через Mark/Reset.
type Cursor struct {
	src  string
	file source.FileID
	Off  uint32
	lim  uint32
}

// NewCursor creates a cursor at offset 0.
func NewCursor(src string, file source.FileID) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("len source overflow: %w", err))
	}
	return Cursor{src: src, file: file, lim: limit}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.lim
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.lim {
		return 0
	}
	return c.src[c.Off+n]
}

// At reports whether the remaining input starts with s.
func (c *Cursor) At(s string) bool {
	return strings.HasPrefix(c.src[c.Off:], s)
}

// Rest returns the unread input.
func (c *Cursor) Rest() string {
	return c.src[c.Off:]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	return b
}

// BumpRune advances over one UTF-8 sequence (one byte for invalid encodings).
func (c *Cursor) BumpRune() rune {
	if c.EOF() {
		return utf8.RuneError
	}
	r, size := utf8.DecodeRuneInString(c.src[c.Off:])
	c.Off += uint32(size) // #nosec G115 -- size <= 4
	return r
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// EatString consumes s if the input continues with it.
func (c *Cursor) EatString(s string) bool {
	if c.At(s) {
		c.Off += uint32(len(s)) // #nosec G115 -- bounded by lim
		return true
	}
	return false
}

// SeekByte moves to the next occurrence of b without consuming it, or to EOF.
func (c *Cursor) SeekByte(b byte) {
	if i := strings.IndexByte(c.src[c.Off:], b); i >= 0 {
		c.Off += uint32(i) // #nosec G115
		return
	}
	c.Off = c.lim
}

// SeekEnd moves to EOF.
func (c *Cursor) SeekEnd() {
	c.Off = c.lim
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// SpanFrom returns the span between m and the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

// Here is an empty span at the current offset.
func (c *Cursor) Here() source.Span {
	return source.Span{File: c.file, Start: c.Off, End: c.Off}
}

// Text returns the source text of sp. Substrings share the source buffer.
func (c *Cursor) Text(sp source.Span) string {
	return c.src[sp.Start:sp.End]
}
