// Package lexer tokenizes a stored or immediate command line: the getword
// word reader and a quoted-string reader for the format command, both
// operating over a materialized line of text rather than a stream.
package lexer

import (
	"errors"
	"strings"
)

// Cursor is a read position into a line of text. Lines are short (command
// input), so Cursor holds the whole string rather than streaming it.
type Cursor struct {
	s   string
	pos int
}

// NewCursor returns a Cursor positioned at the start of s.
func NewCursor(s string) *Cursor { return &Cursor{s: s} }

// String returns the line this cursor reads from.
func (c *Cursor) String() string { return c.s }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// SetPos repositions the cursor within its line. Out-of-range values are
// clamped.
func (c *Cursor) SetPos(p int) {
	if p < 0 {
		p = 0
	}
	if p > len(c.s) {
		p = len(c.s)
	}
	c.pos = p
}

// SkipSpaces advances past any run of literal space characters (getword
// only treats ' ' as a separator, not tabs).
func (c *Cursor) SkipSpaces() {
	for c.pos < len(c.s) && c.s[c.pos] == ' ' {
		c.pos++
	}
}

// Peek returns the byte at the cursor without advancing, or 0 at end of
// line.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.s) {
		return 0
	}
	return c.s[c.pos]
}

// Next returns the byte at the cursor and advances past it, or 0 at end of
// line (the cursor does not advance past the end).
func (c *Cursor) Next() byte {
	b := c.Peek()
	if b != 0 {
		c.pos++
	}
	return b
}

// AtEnd reports whether only spaces (or nothing) remain.
func (c *Cursor) AtEnd() bool {
	p := c.pos
	c.SkipSpaces()
	end := c.pos >= len(c.s)
	c.pos = p
	return end
}

// Rest returns the unconsumed remainder of the line, spaces included.
func (c *Cursor) Rest() string { return c.s[c.pos:] }

func isWordByte(b byte) bool {
	switch {
	case b == '?' || b == '.':
		return true
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	}
	return false
}

// Word reads the next getword-style token: skip leading spaces, then
// consume the maximal run of alphanumeric, '?', and '.' bytes. Returns ""
// at end of line.
func (c *Cursor) Word() string {
	c.SkipSpaces()
	start := c.pos
	for c.pos < len(c.s) && isWordByte(c.s[c.pos]) {
		c.pos++
	}
	return c.s[start:c.pos]
}

// PeekWord reads the next word without consuming it.
func (c *Cursor) PeekWord() string {
	p := c.pos
	w := c.Word()
	c.pos = p
	return w
}

// ErrUnterminatedQuote is returned by QuotedString when the closing quote
// is missing.
var ErrUnterminatedQuote = errors.New("lexer: unterminated quoted string")

// QuotedString reads a double-quoted string starting at the cursor
// (leading spaces are skipped first). A backslash escapes the following
// byte verbatim (so \" embeds a literal quote, \\ a literal backslash).
// The opening quote must be the next non-space byte or QuotedString
// reports ok=false without consuming anything.
func (c *Cursor) QuotedString() (s string, ok bool, err error) {
	p := c.pos
	c.SkipSpaces()
	if c.Peek() != '"' {
		c.pos = p
		return "", false, nil
	}
	c.pos++ // skip opening quote
	var b strings.Builder
	for {
		ch := c.Next()
		if ch == 0 {
			return "", false, ErrUnterminatedQuote
		}
		if ch == '"' {
			return b.String(), true, nil
		}
		if ch == '\\' {
			esc := c.Next()
			if esc == 0 {
				return "", false, ErrUnterminatedQuote
			}
			b.WriteByte(esc)
			continue
		}
		b.WriteByte(ch)
	}
}
