// Package nodel implements a dynamically-typed, tree-structured data model
// with pluggable external storage. Programs build or parse heterogeneous
// trees of maps, lists, and scalars using a single polymorphic Value
// handle, and may bind subtrees to external backing stores so that reads
// lazily populate an in-memory cache and writes flush on an explicit Save.
//
// # Key Types
//
//   - Key: a small tagged scalar usable as a map key or path step.
//   - Value: the universal handle — nil/bool/int/uint/float/string/list/
//     ordered-map/sorted-map/opaque/data-source/error.
//
// See path, query, datasource, and the fs/archive/kvdb/uri packages for the
// addressing and storage layers built on top of Value.
package nodel

import "github.com/nodel-go/nodel/internal/support/integer"

// KeyKind identifies the scalar kind held by a Key.
type KeyKind uint8

const (
	KeyNil KeyKind = iota
	KeyBool
	KeyInt
	KeyUint
	KeyFloat
	KeyStr
)

// Key is a small tagged scalar usable as a map key or as one Path step.
// Unlike Value, Key has no container variants — it is a closed, inline,
// comparable-by-value type.
type Key struct {
	kind KeyKind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
}

// NilKey is the canonical nil Key.
var NilKey = Key{kind: KeyNil}

func BoolKey(v bool) Key    { return Key{kind: KeyBool, b: v} }
func IntKey(v int64) Key    { return Key{kind: KeyInt, i: v} }
func UintKey(v uint64) Key  { return Key{kind: KeyUint, u: v} }
func FloatKey(v float64) Key { return Key{kind: KeyFloat, f: v} }
func StrKey(v string) Key   { return Key{kind: KeyStr, s: v} }

// Kind reports the scalar kind of k.
func (k Key) Kind() KeyKind { return k.kind }

func (k Key) IsNil() bool   { return k.kind == KeyNil }
func (k Key) IsStr() bool   { return k.kind == KeyStr }
func (k Key) IsInt() bool   { return k.kind == KeyInt }
func (k Key) IsUint() bool  { return k.kind == KeyUint }
func (k Key) IsFloat() bool { return k.kind == KeyFloat }
func (k Key) IsBool() bool  { return k.kind == KeyBool }

// IsNumeric reports whether k holds int, uint, float, or bool (all of
// which participate in the numeric comparison rules).
func (k Key) IsNumeric() bool {
	switch k.kind {
	case KeyInt, KeyUint, KeyFloat, KeyBool:
		return true
	default:
		return false
	}
}

// AsStr returns the string payload and whether k is a string Key.
func (k Key) AsStr() (string, bool) { return k.s, k.kind == KeyStr }

// AsInt returns the int payload and whether k is an int Key.
func (k Key) AsInt() (int64, bool) { return k.i, k.kind == KeyInt }

// AsUint returns the uint payload and whether k is a uint Key.
func (k Key) AsUint() (uint64, bool) { return k.u, k.kind == KeyUint }

// AsFloat returns the float payload and whether k is a float Key.
func (k Key) AsFloat() (float64, bool) { return k.f, k.kind == KeyFloat }

// AsBool returns the bool payload and whether k is a bool Key.
func (k Key) AsBool() (bool, bool) { return k.b, k.kind == KeyBool }

// AsIndex interprets k as a list index, accepting int, uint, and
// integral-valued bool/float keys. Used by List.Get/Set/Del.
func (k Key) AsIndex() (int, bool) {
	switch k.kind {
	case KeyInt:
		return int(k.i), true
	case KeyUint:
		return int(k.u), true
	case KeyBool:
		return int(integer.BoolAsInt(k.b)), true
	case KeyFloat:
		if k.f == float64(int64(k.f)) {
			return int(k.f), true
		}
	}
	return 0, false
}

// Equal reports whether k and other are the same Key under the numeric
// promotion rules defined for Value equality (§3 of the data model).
func (k Key) Equal(other Key) bool {
	return keyCompare(k, other) == 0 && sameComparableClass(k, other)
}

// Less reports whether k orders before other. Used for SMAP key ordering.
func (k Key) Less(other Key) bool {
	return keyOrder(k) < keyOrder(other) ||
		(keyOrder(k) == keyOrder(other) && keyCompare(k, other) < 0)
}

// keyOrder buckets keys by kind-class so cross-kind ordering is total and
// stable: nil < numeric < string. Within the numeric class, numeric
// promotion rules (keyCompare) apply.
func keyOrder(k Key) int {
	switch {
	case k.kind == KeyNil:
		return 0
	case k.IsNumeric():
		return 1
	default:
		return 2
	}
}

func sameComparableClass(a, b Key) bool {
	if a.kind == KeyStr || b.kind == KeyStr {
		return a.kind == KeyStr && b.kind == KeyStr
	}
	if a.kind == KeyNil || b.kind == KeyNil {
		return a.kind == KeyNil && b.kind == KeyNil
	}
	return true // both numeric-ish
}

// keyCompare implements the numeric promotion / string comparison used by
// both Equal and Less. Returns <0, 0, >0. Cross-class (string vs numeric)
// values compare via keyOrder before this is consulted.
func keyCompare(a, b Key) int {
	if a.kind == KeyNil && b.kind == KeyNil {
		return 0
	}
	if a.kind == KeyStr && b.kind == KeyStr {
		switch {
		case a.s < b.s:
			return -1
		case a.s > b.s:
			return 1
		default:
			return 0
		}
	}
	if a.kind == KeyStr || b.kind == KeyStr {
		if a.kind == KeyStr {
			return 1
		}
		return -1
	}
	// Both numeric-ish (int/uint/float/bool): normalize bool to int first.
	an, ai := normalizeNumericKey(a)
	bn, bi := normalizeNumericKey(b)
	return compareNormalized(an, ai, bn, bi)
}

type numKind uint8

const (
	numInt numKind = iota
	numUint
	numFloat
)

func normalizeNumericKey(k Key) (numKind, Key) {
	switch k.kind {
	case KeyBool:
		return numInt, IntKey(integer.BoolAsInt(k.b))
	case KeyInt:
		return numInt, k
	case KeyUint:
		return numUint, k
	case KeyFloat:
		return numFloat, k
	default:
		return numInt, IntKey(0)
	}
}

func compareNormalized(ak numKind, a Key, bk numKind, b Key) int {
	switch {
	case ak == numFloat && bk == numInt:
		return integer.CompareFloatInt(a.f, b.i)
	case ak == numFloat && bk == numUint:
		return integer.CompareFloatUint(a.f, b.u)
	case bk == numFloat && ak == numInt:
		return -integer.CompareFloatInt(b.f, a.i)
	case bk == numFloat && ak == numUint:
		return -integer.CompareFloatUint(b.f, a.u)
	case ak == numFloat && bk == numFloat:
		af, bf := a.f, b.f
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case ak == numInt && bk == numUint:
		return integer.CompareIntUint(a.i, b.u)
	case ak == numUint && bk == numInt:
		return -integer.CompareIntUint(b.i, a.u)
	case ak == numInt && bk == numInt:
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		default:
			return 0
		}
	default: // both uint
		switch {
		case a.u < b.u:
			return -1
		case a.u > b.u:
			return 1
		default:
			return 0
		}
	}
}

// String renders k for diagnostics and path-segment reconstruction. It is
// not the JSON/CSV serialization (see the serialize package for that).
func (k Key) String() string {
	switch k.kind {
	case KeyNil:
		return "nil"
	case KeyBool:
		if k.b {
			return "true"
		}
		return "false"
	case KeyInt:
		return intToString(k.i)
	case KeyUint:
		return uintToString(k.u)
	case KeyFloat:
		return floatToString(k.f)
	case KeyStr:
		return k.s
	default:
		return "?"
	}
}
