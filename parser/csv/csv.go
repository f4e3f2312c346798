// Package csv implements a row/field CSV reader producing a nodel LIST
// of LIST-of-STR rows, in the same recursive-descent lexer style as
// parser/json. Blank lines are dropped rather than producing an empty
// row, matching the relaxed-grammar philosophy used across nodel's
// parsers.
package csv

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nodel-go/nodel"
	"github.com/nodel-go/nodel/internal/support/intern"
)

// ParseError carries the byte offset of a syntax error.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv: %s (at offset %d)", e.Message, e.Offset)
}

// Options configures the reader. Delimiter defaults to ',' when zero.
// Interner, if non-nil, is used to intern field strings — callers
// processing many rows on one goroutine can pass their own
// *intern.Table to cut allocation for repeated column values.
type Options struct {
	Delimiter byte
	Interner  *intern.Table
}

// Parse reads a complete CSV document into a LIST of LIST-of-STR rows.
func Parse(r io.Reader, opts Options) (nodel.Value, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nodel.Nil, err
	}
	p := &parser{src: data, delim: opts.Delimiter, interner: opts.Interner}
	ctx := context.Background()
	rows := nodel.NewList()
	rowIdx := 0
	for p.pos < len(p.src) {
		row, blank, err := p.parseRow()
		if err != nil {
			return nodel.Nil, err
		}
		if blank {
			continue
		}
		if err := rows.Set(ctx, nodel.IntKey(int64(rowIdx)), row); err != nil {
			return nodel.Nil, err
		}
		rowIdx++
	}
	return rows, nil
}

type parser struct {
	src      []byte
	pos      int
	delim    byte
	interner *intern.Table
}

func (p *parser) intern(s string) string {
	if p.interner == nil {
		return s
	}
	return p.interner.Intern(s)
}

func (p *parser) parseRow() (nodel.Value, bool, error) {
	start := p.pos
	// A line consisting only of the trailing newline (or nothing) is blank.
	if p.pos < len(p.src) && (p.src[p.pos] == '\n' || (p.src[p.pos] == '\r' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n')) {
		p.skipNewline()
		return nodel.Nil, true, nil
	}

	ctx := context.Background()
	row := nodel.NewList()
	fieldIdx := 0
	for {
		field, err := p.parseField()
		if err != nil {
			return nodel.Nil, false, err
		}
		if err := row.Set(ctx, nodel.IntKey(int64(fieldIdx)), nodel.Str(p.intern(field))); err != nil {
			return nodel.Nil, false, err
		}
		fieldIdx++
		if p.pos >= len(p.src) {
			break
		}
		if p.src[p.pos] == p.delim {
			p.pos++
			continue
		}
		if p.src[p.pos] == '\n' || p.src[p.pos] == '\r' {
			p.skipNewline()
			break
		}
	}
	if p.pos == start {
		return nodel.Nil, true, nil
	}
	return row, false, nil
}

func (p *parser) skipNewline() {
	if p.pos < len(p.src) && p.src[p.pos] == '\r' {
		p.pos++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '\n' {
		p.pos++
	}
}

func (p *parser) parseField() (string, error) {
	if p.pos < len(p.src) && p.src[p.pos] == '"' {
		return p.parseQuotedField()
	}
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == p.delim || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) parseQuotedField() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '"' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '"' {
				b.WriteByte('"')
				p.pos += 2
				continue
			}
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", &ParseError{Offset: p.pos, Message: "unterminated quoted field"}
}
