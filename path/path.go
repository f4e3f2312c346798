// Package path implements the dotted/bracketed Path literal syntax used
// to address a single location in a nodel tree, grounded on the lexer
// style of internal/regtext (small lookahead buffer, explicit token
// classification, offset-carrying errors) from the teacher repo.
package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nodel-go/nodel"
)

// Path is a parsed sequence of steps, each a nodel.Key, ready to be
// walked against a root Value.
type Path struct {
	steps []nodel.Key
}

// Steps returns the parsed key sequence.
func (p Path) Steps() []nodel.Key { return append([]nodel.Key(nil), p.steps...) }

// Create builds a root-relative Path from an explicit key list, useful
// when constructing addresses programmatically rather than parsing text.
func Create(steps ...nodel.Key) Path {
	return Path{steps: append([]nodel.Key(nil), steps...)}
}

// String renders p back into literal syntax.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p.steps {
		str, isStr := s.AsStr()
		if isStr && isBareIdent(str) {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(str)
			continue
		}
		b.WriteByte('[')
		if isStr {
			b.WriteByte('"')
			b.WriteString(escapeLiteral(str))
			b.WriteByte('"')
		} else {
			b.WriteString(s.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Parse reads a Path literal: dotted bare identifiers (`a.b.c`) and/or
// bracketed steps (`a["b c"][3]`), with a leading dot optional. A
// backslash escapes the next byte literally, both in a bare identifier
// (`a\.b` is the single key "a.b") and inside a bracketed quoted
// string, as it does in the JSON parser's strings.
func Parse(s string) (Path, error) {
	lx := &lexer{src: s}
	var steps []nodel.Key
	first := true
	for lx.pos < len(lx.src) {
		if lx.peek() == '.' {
			lx.pos++
			first = false
			continue
		}
		if lx.peek() == '[' {
			lx.pos++
			k, err := lx.readBracketStep()
			if err != nil {
				return Path{}, err
			}
			steps = append(steps, k)
			first = false
			continue
		}
		ident, err := lx.readIdent()
		if err != nil {
			return Path{}, err
		}
		if ident == "" && first {
			return Path{}, lx.errorf("empty path")
		}
		steps = append(steps, nodel.StrKey(ident))
		first = false
	}
	return Path{steps: steps}, nil
}

type lexer struct {
	src string
	pos int
}

func (lx *lexer) peek() byte {
	if lx.pos >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("path: %s (at offset %d)", fmt.Sprintf(format, args...), lx.pos)
}

func (lx *lexer) readIdent() (string, error) {
	start := lx.pos
	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '.' || c == '[' {
			break
		}
		if c == '\\' && lx.pos+1 < len(lx.src) {
			b.WriteByte(lx.src[lx.pos+1])
			lx.pos += 2
			continue
		}
		b.WriteByte(c)
		lx.pos++
	}
	if lx.pos == start {
		return "", nil
	}
	return b.String(), nil
}

func (lx *lexer) readBracketStep() (nodel.Key, error) {
	if lx.pos >= len(lx.src) {
		return nodel.Key{}, lx.errorf("unterminated bracket step")
	}
	if lx.peek() == '"' || lx.peek() == '\'' {
		quote := lx.peek()
		lx.pos++
		var b strings.Builder
		for lx.pos < len(lx.src) && lx.src[lx.pos] != quote {
			if lx.src[lx.pos] == '\\' && lx.pos+1 < len(lx.src) {
				b.WriteByte(lx.src[lx.pos+1])
				lx.pos += 2
				continue
			}
			b.WriteByte(lx.src[lx.pos])
			lx.pos++
		}
		if lx.pos >= len(lx.src) {
			return nodel.Key{}, lx.errorf("unterminated quoted step")
		}
		lx.pos++ // closing quote
		if lx.pos >= len(lx.src) || lx.src[lx.pos] != ']' {
			return nodel.Key{}, lx.errorf("expected ']'")
		}
		lx.pos++
		return nodel.StrKey(b.String()), nil
	}
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != ']' {
		lx.pos++
	}
	if lx.pos >= len(lx.src) {
		return nodel.Key{}, lx.errorf("unterminated bracket step")
	}
	raw := lx.src[start:lx.pos]
	lx.pos++
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return nodel.IntKey(i), nil
	}
	return nodel.StrKey(raw), nil
}
