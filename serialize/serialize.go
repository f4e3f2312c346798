// Package serialize renders nodel Value trees to JSON, CSV, and raw text
// byte streams, grounded on hive/printer's Options/DefaultOptions and
// per-format-file (json.go/text.go/reg.go) layout from the teacher repo.
package serialize

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nodel-go/nodel"
)

// Options controls JSON pretty-printing. Indent <= 0 produces compact
// output with no inserted whitespace; Indent > 0 uses that many spaces
// per nesting level, mirroring hive/printer.Options.IndentSize.
type Options struct {
	Indent int
}

// DefaultOptions matches the teacher's DefaultOptions() convention: two
// spaces of indent, a reasonable default for human-facing output.
func DefaultOptions() Options {
	return Options{Indent: 2}
}

// JSON renders v as a JSON document.
func JSON(ctx context.Context, v nodel.Value, opts Options) (string, error) {
	var b strings.Builder
	if err := writeJSON(ctx, &b, v, opts, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(ctx context.Context, b *strings.Builder, v nodel.Value, opts Options, depth int) error {
	nl, pad, padIn := newlineAndPad(opts, depth)
	switch v.Kind(ctx) {
	case nodel.KindNil:
		b.WriteString("null")
	case nodel.KindBool:
		bv, _ := v.AsBool()
		b.WriteString(strconv.FormatBool(bv))
	case nodel.KindInt:
		i, _ := v.AsInt()
		b.WriteString(strconv.FormatInt(i, 10))
	case nodel.KindUint:
		u, _ := v.AsUint()
		b.WriteString(strconv.FormatUint(u, 10))
	case nodel.KindFloat:
		f, _ := v.AsFloat()
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case nodel.KindStr:
		s, _ := v.AsStr()
		writeJSONString(b, s)
	case nodel.KindList:
		n, _ := v.Size(ctx)
		if n == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		b.WriteString(nl)
		first := true
		var werr error
		v.IterValues(ctx, func(item nodel.Value) bool {
			if !first {
				b.WriteByte(',')
				b.WriteString(nl)
			}
			first = false
			b.WriteString(padIn)
			if err := writeJSON(ctx, b, item, opts, depth+1); err != nil {
				werr = err
				return false
			}
			return true
		})
		if werr != nil {
			return werr
		}
		b.WriteString(nl)
		b.WriteString(pad)
		b.WriteByte(']')
	case nodel.KindOMap, nodel.KindSMap, nodel.KindDataSource:
		n, _ := v.Size(ctx)
		if n == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		b.WriteString(nl)
		first := true
		var werr error
		v.IterItems(ctx, func(k nodel.Key, val nodel.Value) bool {
			if !first {
				b.WriteByte(',')
				b.WriteString(nl)
			}
			first = false
			b.WriteString(padIn)
			writeJSONString(b, k.String())
			b.WriteByte(':')
			if opts.Indent > 0 {
				b.WriteByte(' ')
			}
			if err := writeJSON(ctx, b, val, opts, depth+1); err != nil {
				werr = err
				return false
			}
			return true
		})
		if werr != nil {
			return werr
		}
		b.WriteString(nl)
		b.WriteString(pad)
		b.WriteByte('}')
	case nodel.KindOpaque:
		o, _ := v.AsOpaque()
		writeJSONString(b, o.ToString())
	case nodel.KindError:
		return fmt.Errorf("serialize: cannot render ERROR value: %s", v.Error())
	}
	return nil
}

func newlineAndPad(opts Options, depth int) (nl, pad, padIn string) {
	if opts.Indent <= 0 {
		return "", "", ""
	}
	return "\n", strings.Repeat(" ", opts.Indent*depth), strings.Repeat(" ", opts.Indent*(depth+1))
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// CSV renders v as CSV text: each value of v is a row, and each value of
// a row (in its iteration order) is a cell. A row that is not a
// container produces an empty line; non-scalar cells are rendered as
// compact JSON, as Raw does.
func CSV(ctx context.Context, v nodel.Value) (string, error) {
	var b strings.Builder
	var outerErr error
	v.IterValues(ctx, func(row nodel.Value) bool {
		first := true
		row.IterValues(ctx, func(cell nodel.Value) bool {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(csvField(ctx, cell))
			return true
		})
		b.WriteString("\n")
		return true
	})
	return b.String(), outerErr
}

func csvField(ctx context.Context, v nodel.Value) string {
	s := Raw(ctx, v)
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Raw renders a scalar Value as plain text (no quoting/escaping),
// matching hive/printer's text.go convention for unstructured output.
func Raw(ctx context.Context, v nodel.Value) string {
	switch v.Kind(ctx) {
	case nodel.KindNil:
		return ""
	case nodel.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case nodel.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case nodel.KindUint:
		u, _ := v.AsUint()
		return strconv.FormatUint(u, 10)
	case nodel.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case nodel.KindStr:
		s, _ := v.AsStr()
		return s
	case nodel.KindOpaque:
		o, _ := v.AsOpaque()
		return o.ToString()
	default:
		s, _ := JSON(ctx, v, Options{})
		return s
	}
}

// SortedKeys is a small helper used by callers that want deterministic
// key order over an OMAP for display purposes without mutating it into
// an SMAP.
func SortedKeys(ctx context.Context, v nodel.Value) []nodel.Key {
	var keys []nodel.Key
	v.IterKeys(ctx, func(k nodel.Key) bool {
		keys = append(keys, k)
		return true
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
