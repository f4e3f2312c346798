// Package json implements a relaxed recursive-descent JSON reader that
// loads its whole input and produces nodel.Value trees directly, grounded on the
// small-lookahead-buffer lexer/parser style of internal/regtext in the
// teacher repo. The grammar is intentionally relaxed from strict JSON:
// both single and double quotes open a string, a backslash escapes
// whatever byte follows it (not just the fixed JSON escape set), and a
// later duplicate object key overwrites an earlier one rather than
// erroring.
package json

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nodel-go/nodel"
)

// ErrUnexpectedEOF is returned when input ends mid-value.
var ErrUnexpectedEOF = errors.New("json: unexpected end of input")

// ParseError carries the byte offset of a syntax error, matching the
// *nodel.NodelError ParseError convention used elsewhere in the module.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("json: %s (at offset %d)", e.Message, e.Offset)
}

// Options configures map construction. OMap (default) preserves
// insertion order; setting SMap instead sorts object keys.
type Options struct {
	SMap bool
}

// Parse reads a complete JSON (relaxed-grammar) document from r.
func Parse(r io.Reader, opts Options) (nodel.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nodel.Nil, err
	}
	p := &parser{src: data, opts: opts}
	p.skipWS()
	v, err := p.parseValue()
	if err != nil {
		return nodel.Nil, err
	}
	p.skipWS()
	if p.pos != len(p.src) {
		return nodel.Nil, &ParseError{Offset: p.pos, Message: "trailing content after top-level value"}
	}
	return v, nil
}

// ProbeType reads r up to the first non-whitespace byte (through the end
// of a leading number) to report which Kind the document would parse as:
// a number is INT unless it has a fraction or exponent or overflows
// int64, as in Parse. r is read through a bufio.Reader, so more of it may
// be consumed. Used by the fs backend's ProbeType without materializing
// content.
func ProbeType(r io.Reader) (nodel.Kind, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nodel.KindNil, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return nodel.KindOMap, nil
		case '[':
			return nodel.KindList, nil
		case '"', '\'':
			return nodel.KindStr, nil
		case 't', 'f':
			return nodel.KindBool, nil
		case 'n':
			return nodel.KindNil, nil
		default:
			if b == '-' || (b >= '0' && b <= '9') {
				raw := []byte{b}
				for {
					c, err := br.ReadByte()
					if err != nil || !(c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' || (c >= '0' && c <= '9')) {
						break
					}
					raw = append(raw, c)
				}
				s := string(raw)
				if strings.ContainsAny(s, ".eE") {
					return nodel.KindFloat, nil
				}
				if _, err := strconv.ParseInt(s, 10, 64); err != nil {
					return nodel.KindFloat, nil
				}
				return nodel.KindInt, nil
			}
			return nodel.KindError, fmt.Errorf("json: unrecognized leading byte %q", b)
		}
	}
}

type parser struct {
	src  []byte
	pos  int
	opts Options
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) skipWS() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (nodel.Value, error) {
	if p.pos >= len(p.src) {
		return nodel.Nil, ErrUnexpectedEOF
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"' || c == '\'':
		s, err := p.parseString()
		if err != nil {
			return nodel.Nil, err
		}
		return nodel.Str(s), nil
	case c == 't':
		return p.parseLiteral("true", nodel.Bool(true))
	case c == 'f':
		return p.parseLiteral("false", nodel.Bool(false))
	case c == 'n':
		return p.parseLiteral("null", nodel.Nil)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nodel.Nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseLiteral(lit string, val nodel.Value) (nodel.Value, error) {
	if p.pos+len(lit) > len(p.src) || string(p.src[p.pos:p.pos+len(lit)]) != lit {
		return nodel.Nil, p.errorf("invalid literal, expected %q", lit)
	}
	p.pos += len(lit)
	return val, nil
}

func (p *parser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == quote {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", ErrUnexpectedEOF
}

func (p *parser) parseNumber() (nodel.Value, error) {
	start := p.pos
	isFloat := false
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		isFloat = true
		p.pos++
		if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
	}
	raw := string(p.src[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nodel.Nil, p.errorf("invalid number %q", raw)
		}
		return nodel.Float(f), nil
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return nodel.Nil, p.errorf("invalid number %q", raw)
		}
		return nodel.Float(f), nil
	}
	return nodel.Int(i), nil
}

func (p *parser) parseArray() (nodel.Value, error) {
	p.pos++ // '['
	list := nodel.NewList()
	idx := 0
	p.skipWS()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return list, nil
	}
	for {
		p.skipWS()
		v, err := p.parseValue()
		if err != nil {
			return nodel.Nil, err
		}
		if err := list.Set(context.Background(), nodel.IntKey(int64(idx)), v); err != nil {
			return nodel.Nil, err
		}
		idx++
		p.skipWS()
		if p.pos >= len(p.src) {
			return nodel.Nil, ErrUnexpectedEOF
		}
		if p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return list, nil
		}
		return nodel.Nil, p.errorf("expected ',' or ']'")
	}
}

func (p *parser) parseObject() (nodel.Value, error) {
	p.pos++ // '{'
	var obj nodel.Value
	if p.opts.SMap {
		obj = nodel.NewSMap()
	} else {
		obj = nodel.NewOMap()
	}
	p.skipWS()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipWS()
		if p.pos >= len(p.src) || (p.src[p.pos] != '"' && p.src[p.pos] != '\'') {
			return nodel.Nil, p.errorf("expected string key")
		}
		key, err := p.parseString()
		if err != nil {
			return nodel.Nil, err
		}
		p.skipWS()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nodel.Nil, p.errorf("expected ':'")
		}
		p.pos++
		p.skipWS()
		val, err := p.parseValue()
		if err != nil {
			return nodel.Nil, err
		}
		// A later duplicate key overwrites the earlier one; Set already
		// implements overwrite-in-place for OMAP (preserving position)
		// and upsert-in-order for SMAP.
		if err := obj.Set(context.Background(), nodel.StrKey(key), val); err != nil {
			return nodel.Nil, err
		}
		p.skipWS()
		if p.pos >= len(p.src) {
			return nodel.Nil, ErrUnexpectedEOF
		}
		if p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return obj, nil
		}
		return nodel.Nil, p.errorf("expected ',' or '}'")
	}
}
