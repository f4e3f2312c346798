package kvdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nodel-go/nodel"
	jsonparser "github.com/nodel-go/nodel/parser/json"
	"github.com/nodel-go/nodel/serialize"
)

// Key/value tag bytes. Encoded keys sort by tag first (nil < false-bool
// < true-bool < int < uint < float < string) and then by payload, so
// unsigned lexicographic BLOB comparison (what SQLite's primary key
// index uses) matches nodel's Key ordering among keys of one kind.
// Across numeric kinds it does not: Key.Less compares bool, int, uint
// and float keys by value, while here every int sorts before every uint
// and float (IntKey(5) before FloatKey(1.5)).
const (
	tagNil byte = iota
	tagBoolFalse
	tagBoolTrue
	tagInt
	tagUint
	tagFloat
	tagStr
)

// encodeKey renders k as a sortable byte string: a tag byte followed by
// a big-endian payload. Signed integers are bias-flipped (XOR the sign
// bit) so two's-complement ordering becomes unsigned-lexicographic
// ordering, the standard trick for sortable binary integer encodings.
func encodeKey(k nodel.Key) []byte {
	switch k.Kind() {
	case nodel.KeyNil:
		return []byte{tagNil}
	case nodel.KeyBool:
		b, _ := k.AsBool()
		if b {
			return []byte{tagBoolTrue}
		}
		return []byte{tagBoolFalse}
	case nodel.KeyInt:
		i, _ := k.AsInt()
		buf := make([]byte, 9)
		buf[0] = tagInt
		binary.BigEndian.PutUint64(buf[1:], uint64(i)^(1<<63))
		return buf
	case nodel.KeyUint:
		u, _ := k.AsUint()
		buf := make([]byte, 9)
		buf[0] = tagUint
		binary.BigEndian.PutUint64(buf[1:], u)
		return buf
	case nodel.KeyFloat:
		f, _ := k.AsFloat()
		bits := math.Float64bits(f)
		if f < 0 {
			bits = ^bits
		} else {
			bits |= 1 << 63
		}
		buf := make([]byte, 9)
		buf[0] = tagFloat
		binary.BigEndian.PutUint64(buf[1:], bits)
		return buf
	default:
		s, _ := k.AsStr()
		buf := make([]byte, 0, len(s)+1)
		buf = append(buf, tagStr)
		buf = append(buf, s...)
		return buf
	}
}

func decodeKey(b []byte) (nodel.Key, error) {
	if len(b) == 0 {
		return nodel.Key{}, fmt.Errorf("kvdb: empty key encoding")
	}
	switch b[0] {
	case tagNil:
		return nodel.NilKey, nil
	case tagBoolFalse:
		return nodel.BoolKey(false), nil
	case tagBoolTrue:
		return nodel.BoolKey(true), nil
	case tagInt:
		u := binary.BigEndian.Uint64(b[1:9])
		return nodel.IntKey(int64(u ^ (1 << 63))), nil
	case tagUint:
		return nodel.UintKey(binary.BigEndian.Uint64(b[1:9])), nil
	case tagFloat:
		bits := binary.BigEndian.Uint64(b[1:9])
		if bits&(1<<63) != 0 {
			bits &^= 1 << 63
		} else {
			bits = ^bits
		}
		return nodel.FloatKey(math.Float64frombits(bits)), nil
	case tagStr:
		return nodel.StrKey(string(b[1:])), nil
	default:
		return nodel.Key{}, fmt.Errorf("kvdb: unknown key tag %d", b[0])
	}
}

// encodeValue tag-prefixes v the same way Values are elsewhere,
// recursing into JSON encoding for composite (LIST/OMAP/SMAP) values.
func encodeValue(ctx context.Context, v nodel.Value) ([]byte, error) {
	switch v.Kind(ctx) {
	case nodel.KindNil:
		return []byte{tagNil}, nil
	case nodel.KindBool:
		b, _ := v.AsBool()
		if b {
			return []byte{tagBoolTrue}, nil
		}
		return []byte{tagBoolFalse}, nil
	case nodel.KindInt:
		i, _ := v.AsInt()
		buf := make([]byte, 9)
		buf[0] = tagInt
		binary.BigEndian.PutUint64(buf[1:], uint64(i))
		return buf, nil
	case nodel.KindUint:
		u, _ := v.AsUint()
		buf := make([]byte, 9)
		buf[0] = tagUint
		binary.BigEndian.PutUint64(buf[1:], u)
		return buf, nil
	case nodel.KindFloat:
		f, _ := v.AsFloat()
		buf := make([]byte, 9)
		buf[0] = tagFloat
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
		return buf, nil
	case nodel.KindStr:
		s, _ := v.AsStr()
		var b bytes.Buffer
		b.WriteByte(tagStr)
		b.WriteString(s)
		return b.Bytes(), nil
	default:
		text, err := serialize.JSON(ctx, v, serialize.Options{})
		if err != nil {
			return nil, err
		}
		var b bytes.Buffer
		b.WriteByte(0xFF) // composite tag: JSON payload follows
		b.WriteString(text)
		return b.Bytes(), nil
	}
}

func decodeValue(b []byte) (nodel.Value, error) {
	if len(b) == 0 {
		return nodel.Nil, fmt.Errorf("kvdb: empty value encoding")
	}
	switch b[0] {
	case tagNil:
		return nodel.Nil, nil
	case tagBoolFalse:
		return nodel.Bool(false), nil
	case tagBoolTrue:
		return nodel.Bool(true), nil
	case tagInt:
		return nodel.Int(int64(binary.BigEndian.Uint64(b[1:9]))), nil
	case tagUint:
		return nodel.Uint(binary.BigEndian.Uint64(b[1:9])), nil
	case tagFloat:
		return nodel.Float(math.Float64frombits(binary.BigEndian.Uint64(b[1:9]))), nil
	case tagStr:
		return nodel.Str(string(b[1:])), nil
	case 0xFF:
		return jsonparser.Parse(bytes.NewReader(b[1:]), jsonparser.Options{})
	default:
		return nodel.Nil, fmt.Errorf("kvdb: unknown value tag %d", b[0])
	}
}
