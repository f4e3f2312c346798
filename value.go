package nodel

import (
	"context"

	"github.com/nodel-go/nodel/internal/support/ref"
)

// Value is the universal dynamically-typed handle: a tagged union over
// nil/bool/int/uint/float/string/list/ordered-map/sorted-map/opaque, plus
// a DataSource-backed variant and an error-carrying variant.
//
// Scalars are stored inline. Str/List/OMap/SMap/DataSource variants carry
// a pointer to a shared, intrusively refcounted heap cell (see
// internal/support/ref). A Value also carries a weak parent back-link:
// for heap-backed kinds the link lives on the shared cell (so clearing it
// is visible to every alias); for scalars it lives directly on the Value
// struct, since scalars have no shared identity to protect.
type Value struct {
	kind Kind

	b bool
	i int64
	u uint64
	f float64

	str  *strCell
	cont *container
	opq  Opaque
	err  *NodelError

	// scalar-only parent back-link (heap kinds use str/cont's own link).
	parent    *container
	parentKey Key
}

// strCell is the heap cell backing an owned STR Value.
type strCell struct {
	ref.Counted
	s      string
	parent *container
	pkey   Key
}

// --- Construction ---

// Nil is the canonical absent/null Value.
var Nil = Value{kind: KindNil}

func Bool(v bool) Value    { return Value{kind: KindBool, b: v} }
func Int(v int64) Value    { return Value{kind: KindInt, i: v} }
func Uint(v uint64) Value  { return Value{kind: KindUint, u: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Str creates an owned copy of s as a new, unparented STR Value.
func Str(s string) Value {
	return Value{kind: KindStr, str: &strCell{Counted: ref.NewCounted(), s: s}}
}

// NewList creates an empty, unparented LIST Value.
func NewList() Value {
	return Value{kind: KindList, cont: newContainer(KindList)}
}

// NewOMap creates an empty, unparented OMAP Value (insertion-ordered).
func NewOMap() Value {
	return Value{kind: KindOMap, cont: newContainer(KindOMap)}
}

// NewSMap creates an empty, unparented SMAP Value (key-ordered).
func NewSMap() Value {
	return Value{kind: KindSMap, cont: newContainer(KindSMap)}
}

// NewOpaque wraps an Opaque payload.
func NewOpaque(o Opaque) Value {
	return Value{kind: KindOpaque, opq: o}
}

// NewError wraps a diagnostic as an ERROR Value.
func NewError(err *NodelError) Value {
	return Value{kind: KindError, err: err}
}

// Errorf builds an ERROR Value directly from a kind and message.
func Errorf(kind ErrorKind, format string, args ...any) Value {
	return NewError(newError(kind, format, args...))
}

// FromDataSource wraps a freshly bound DataSource as a root Value. Used by
// uri.Bind when no initial Value is supplied.
func FromDataSource(ds DataSource) Value {
	c := newContainer(KindDataSource)
	c.ds = newDsrcState(ds)
	return Value{kind: KindDataSource, cont: c}
}

// --- Type inspection ---

// Kind returns v's variant, resolving through a DataSource wrapper via a
// cheap type probe so a bound source is transparent to callers. ctx is
// used only when a probe requires I/O; pass context.Background() when
// none of the bound sources need cancellation.
func (v Value) Kind(ctx context.Context) Kind {
	if v.kind == KindDataSource {
		k, err := v.cont.ds.probeType(ctx)
		if err != nil {
			return KindError
		}
		return k
	}
	return v.kind
}

// rawKind returns the variant tag without resolving DSRC — used
// internally where the wrapper itself (not its reported content) is what
// matters, e.g. when deciding how to release a cell.
func (v Value) rawKind() Kind { return v.kind }

func (v Value) IsNil(ctx context.Context) bool     { return v.Kind(ctx) == KindNil }
func (v Value) IsBool(ctx context.Context) bool    { return v.Kind(ctx) == KindBool }
func (v Value) IsInt(ctx context.Context) bool     { return v.Kind(ctx) == KindInt }
func (v Value) IsUint(ctx context.Context) bool    { return v.Kind(ctx) == KindUint }
func (v Value) IsFloat(ctx context.Context) bool   { return v.Kind(ctx) == KindFloat }
func (v Value) IsStr(ctx context.Context) bool     { return v.Kind(ctx) == KindStr }
func (v Value) IsList(ctx context.Context) bool    { return v.Kind(ctx) == KindList }
func (v Value) IsOMap(ctx context.Context) bool    { return v.Kind(ctx) == KindOMap }
func (v Value) IsSMap(ctx context.Context) bool    { return v.Kind(ctx) == KindSMap }
func (v Value) IsMap(ctx context.Context) bool {
	k := v.Kind(ctx)
	return k == KindOMap || k == KindSMap
}
func (v Value) IsContainer(ctx context.Context) bool { return v.Kind(ctx).isContainer() }
func (v Value) IsOpaque() bool                       { return v.kind == KindOpaque }
func (v Value) IsError() bool                        { return v.kind == KindError }
func (v Value) IsValid() bool                        { return v.kind != KindError }

// IsNumeric reports whether v is bool/int/uint/float (participates in the
// numeric comparison rules).
func (v Value) IsNumeric(ctx context.Context) bool {
	switch v.Kind(ctx) {
	case KindBool, KindInt, KindUint, KindFloat:
		return true
	default:
		return false
	}
}

// Error returns v's diagnostic if v is an ERROR Value, else nil.
func (v Value) Error() *NodelError {
	if v.kind != KindError {
		return nil
	}
	return v.err
}

// --- Scalar access ---

// AsBool returns v's bool payload and whether v is a BOOL Value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns v's int payload and whether v is an INT Value.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsUint returns v's uint payload and whether v is a UINT Value.
func (v Value) AsUint() (uint64, bool) { return v.u, v.kind == KindUint }

// AsFloat returns v's float payload and whether v is a FLOAT Value.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsStr returns v's string payload and whether v is a STR Value. The
// returned string aliases the shared cell's storage; Go strings are
// immutable so this is safe to hand out freely.
func (v Value) AsStr() (string, bool) {
	if v.kind != KindStr || v.str == nil {
		return "", false
	}
	return v.str.s, true
}

// AsOpaque returns v's Opaque payload and whether v is an OPAQUE Value.
func (v Value) AsOpaque() (Opaque, bool) {
	if v.kind != KindOpaque {
		return nil, false
	}
	return v.opq, true
}

// AsKey converts v to a Key for use as a map key or path step. Only
// scalar kinds convert; containers/opaque/error/datasource do not.
func (v Value) AsKey() (Key, bool) {
	switch v.kind {
	case KindNil:
		return NilKey, true
	case KindBool:
		return BoolKey(v.b), true
	case KindInt:
		return IntKey(v.i), true
	case KindUint:
		return UintKey(v.u), true
	case KindFloat:
		return FloatKey(v.f), true
	case KindStr:
		return StrKey(v.str.s), true
	default:
		return Key{}, false
	}
}

// FromKey lifts a Key back into a Value (e.g. for map iteration results).
func FromKey(k Key) Value {
	switch k.Kind() {
	case KeyNil:
		return Nil
	case KeyBool:
		b, _ := k.AsBool()
		return Bool(b)
	case KeyInt:
		i, _ := k.AsInt()
		return Int(i)
	case KeyUint:
		u, _ := k.AsUint()
		return Uint(u)
	case KeyFloat:
		f, _ := k.AsFloat()
		return Float(f)
	case KeyStr:
		s, _ := k.AsStr()
		return Str(s)
	default:
		return Nil
	}
}

// Is reports whether v and other are handles to the same payload cell
// (pointer identity for heap kinds; value identity for scalars, which
// have no separate heap existence).
func (v Value) Is(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindStr:
		return v.str == other.str
	case KindList, KindOMap, KindSMap, KindDataSource:
		return v.cont == other.cont
	case KindOpaque:
		return v.opq == other.opq
	case KindError:
		return v.err == other.err
	default:
		return v.Equal(context.Background(), other)
	}
}

// Id returns a stable opaque identifier: kind tag plus pointer-derived
// bits for containers/strings, value bits for scalars.
func (v Value) Id() uint64 {
	return identityOf(v)
}
