package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/ntclean/internal/model"
)

var (
	// ErrSyntax marks a line that does not decompose into one statement
	ErrSyntax = errors.New("ntriples syntax error")
	// ErrEmpty marks a blank or comment-only line
	ErrEmpty = errors.New("no statement on line")
)

// ParseLine splits a single N-Triple statement into its three raw terms.
// The line may carry its trailing newline.
func ParseLine(line string) (model.Triple, error) {
	c := &cursor{input: strings.TrimRight(line, "\r\n")}

	c.skipWS()
	if c.eof() || c.peek() == '#' {
		return model.Triple{}, ErrEmpty
	}

	subject, err := c.parseSubject()
	if err != nil {
		return model.Triple{}, err
	}
	predicate, err := c.parseIRI()
	if err != nil {
		return model.Triple{}, err
	}
	object, err := c.parseObject()
	if err != nil {
		return model.Triple{}, err
	}

	if !c.consume('.') {
		return model.Triple{}, c.errorf("expected '.' at end of statement")
	}
	c.skipWS()
	if !c.eof() && c.peek() != '#' {
		return model.Triple{}, c.errorf("unexpected content after statement")
	}

	return model.Triple{Subject: subject, Predicate: predicate, Object: object}, nil
}

type cursor struct {
	input string
	pos   int
}

func (c *cursor) eof() bool { return c.pos >= len(c.input) }

func (c *cursor) peek() byte { return c.input[c.pos] }

func (c *cursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t':
			c.pos++
		default:
			return
		}
	}
}

func (c *cursor) consume(ch byte) bool {
	c.skipWS()
	if !c.eof() && c.peek() == ch {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) parseSubject() (model.Term, error) {
	c.skipWS()
	if c.eof() {
		return model.Term{}, c.errorf("missing subject")
	}
	switch {
	case c.peek() == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.peek() == '"':
		return model.Term{}, c.errorf("literal not allowed as subject")
	default:
		return model.Term{}, c.errorf("unexpected token in subject")
	}
}

func (c *cursor) parseObject() (model.Term, error) {
	c.skipWS()
	if c.eof() {
		return model.Term{}, c.errorf("missing object")
	}
	switch {
	case c.peek() == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.peek() == '"':
		return c.parseLiteral()
	default:
		return model.Term{}, c.errorf("unexpected token in object")
	}
}

func (c *cursor) parseIRI() (model.Term, error) {
	if !c.consume('<') {
		return model.Term{}, c.errorf("expected IRI")
	}
	end := strings.IndexByte(c.input[c.pos:], '>')
	if end < 0 {
		return model.Term{}, c.errorf("unterminated IRI")
	}
	value := c.input[c.pos : c.pos+end]
	if strings.ContainsAny(value, " \t<\"") {
		return model.Term{}, c.errorf("invalid character in IRI")
	}
	if strings.IndexByte(value, '\\') < 0 {
		c.pos += end + 1
		return model.Reference(value), nil
	}

	// Only \u and \U escapes are allowed inside an IRI
	stop := c.pos + end
	var b strings.Builder
	for c.pos < stop {
		ch := c.input[c.pos]
		if ch != '\\' {
			b.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= stop || (c.input[c.pos+1] != 'u' && c.input[c.pos+1] != 'U') {
			return model.Term{}, c.errorf("invalid escape in IRI")
		}
		if err := c.unescape(&b); err != nil {
			return model.Term{}, err
		}
	}
	c.pos = stop + 1
	return model.Reference(b.String()), nil
}

func (c *cursor) parseBlankNode() (model.Term, error) {
	c.pos += 2
	start := c.pos
	for !c.eof() && !isTermDelimiter(c.peek()) {
		c.pos++
	}
	if start == c.pos {
		return model.Term{}, c.errorf("blank node label missing")
	}
	return model.Term{Kind: model.KindBlank, Value: c.input[start:c.pos]}, nil
}

func (c *cursor) parseLiteral() (model.Term, error) {
	c.pos++ // opening quote

	var b strings.Builder
	closed := false
	for !c.eof() {
		ch := c.peek()
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch != '\\' {
			b.WriteByte(ch)
			c.pos++
			continue
		}
		if err := c.unescape(&b); err != nil {
			return model.Term{}, err
		}
	}
	if !closed {
		return model.Term{}, c.errorf("unterminated literal")
	}
	lexical := b.String()

	if c.eof() {
		return model.Literal(lexical, ""), nil
	}
	switch {
	case c.peek() == '@':
		c.pos++
		start := c.pos
		for !c.eof() && isLangChar(c.peek()) {
			c.pos++
		}
		if start == c.pos {
			return model.Term{}, c.errorf("empty language tag")
		}
		return model.Literal(lexical, c.input[start:c.pos]), nil
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		if _, err := c.parseIRI(); err != nil {
			return model.Term{}, err
		}
	}
	return model.Literal(lexical, ""), nil
}

// unescape decodes one backslash sequence at the cursor into b
func (c *cursor) unescape(b *strings.Builder) error {
	if c.pos+1 >= len(c.input) {
		return c.errorf("unterminated escape")
	}
	next := c.input[c.pos+1]
	switch next {
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 'f':
		b.WriteByte('\f')
	case '"', '\'', '\\':
		b.WriteByte(next)
	case 'u', 'U':
		width := 4
		if next == 'U' {
			width = 8
		}
		start := c.pos + 2
		if start+width > len(c.input) {
			return c.errorf("short unicode escape")
		}
		code, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
		}
		b.WriteRune(rune(code))
		c.pos = start + width
		return nil
	default:
		return c.errorf("unknown escape \\%c", next)
	}
	c.pos += 2
	return nil
}

func (c *cursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: column %d: %s", ErrSyntax, c.pos+1, fmt.Sprintf(format, args...))
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '.':
		return true
	default:
		return false
	}
}

func isLangChar(ch byte) bool {
	return ch == '-' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
