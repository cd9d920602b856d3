package protocol

import (
	"bytes"
	"fmt"
)

// cursor is a read position over the accumulation buffer,
// every slice it hands out is a window into buf (zero-copy)
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) rest() []byte {
	return c.buf[c.pos:]
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.buf)
}

func (c *cursor) peek() (byte, bool) {
	if c.eof() {
		return 0, false
	}
	return c.buf[c.pos], true
}

// expect consumes lit. if the buffer ends inside lit it is incomplete,
// if it diverges from lit it is invalid; nothing is consumed on error
func (c *cursor) expect(lit string) error {
	rest := c.rest()
	if len(rest) < len(lit) {
		if bytes.Equal(rest, []byte(lit[:len(rest)])) {
			return errIncomplete
		}
		return fmt.Errorf("%w: expected %q", errInvalid, lit)
	}
	if string(rest[:len(lit)]) != lit {
		return fmt.Errorf("%w: expected %q", errInvalid, lit)
	}
	c.pos += len(lit)
	return nil
}

// upto returns bytes before the first byte from set and stops on it,
// ok is false when no such byte is in the buffer
func (c *cursor) upto(set string) ([]byte, bool) {
	idx := bytes.IndexAny(c.rest(), set)
	if idx == -1 {
		return nil, false
	}
	tok := c.buf[c.pos : c.pos+idx]
	c.pos += idx
	return tok, true
}

// index of literal lit from the current position, -1 if absent
func (c *cursor) index(lit string) int {
	return bytes.Index(c.rest(), []byte(lit))
}

// span consumes the longest run of bytes accepted by fn
func (c *cursor) span(fn func(byte) bool) []byte {
	st := c.pos
	for c.pos < len(c.buf) && fn(c.buf[c.pos]) {
		c.pos++
	}
	return c.buf[st:c.pos]
}

// take consumes exactly n bytes, ok is false when fewer are present
func (c *cursor) take(n int) ([]byte, bool) {
	if len(c.buf)-c.pos < n {
		return nil, false
	}
	tok := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return tok, true
}

// token characters for header names: letters, digits and a fixed punctuation set
var tokenTable = func() (t [256]bool) {
	for c := 'a'; c <= 'z'; c++ {
		t[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		t[c] = true
	}
	for _, c := range "!#$%&'*+-.^_`|~" {
		t[c] = true
	}
	return t
}()

func isToken(b byte) bool {
	return tokenTable[b]
}

func notToken(r rune) bool {
	return r > 0xff || !tokenTable[r]
}
