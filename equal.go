package nodel

import "context"

// Equal reports deep structural equality: scalars compare via the
// numeric promotion rules (§3), containers compare element-by-element
// in their native order, and a DataSource-backed Value compares equal to
// another based on their resolved content, not their identity or backend.
func (v Value) Equal(ctx context.Context, other Value) bool {
	vk, ok := v.AsKey()
	if ok {
		if k2, ok2 := other.AsKey(); ok2 {
			return vk.Equal(k2)
		}
		return false
	}
	vKind, oKind := v.Kind(ctx), other.Kind(ctx)
	if vKind != oKind {
		return false
	}
	switch vKind {
	case KindList:
		n1, _ := v.Size(ctx)
		n2, _ := other.Size(ctx)
		if n1 != n2 {
			return false
		}
		for i := 0; i < n1; i++ {
			a, _ := v.Get(ctx, IntKey(int64(i)))
			b, _ := other.Get(ctx, IntKey(int64(i)))
			if !a.Equal(ctx, b) {
				return false
			}
		}
		return true
	case KindOMap, KindSMap:
		n1, _ := v.Size(ctx)
		n2, _ := other.Size(ctx)
		if n1 != n2 {
			return false
		}
		var otherKeys []Key
		if vKind == KindOMap {
			other.IterKeys(ctx, func(k Key) bool {
				otherKeys = append(otherKeys, k)
				return true
			})
		}
		eq := true
		i := 0
		v.IterItems(ctx, func(k Key, a Value) bool {
			if otherKeys != nil && (i >= len(otherKeys) || !otherKeys[i].Equal(k)) {
				eq = false
				return false
			}
			i++
			b, err := other.Get(ctx, k)
			if err != nil || !a.Equal(ctx, b) {
				eq = false
				return false
			}
			return true
		})
		return eq
	case KindOpaque:
		a, _ := v.AsOpaque()
		b, _ := other.AsOpaque()
		return a.ToString() == b.ToString()
	case KindError:
		return v.err.Kind == other.err.Kind && v.err.Message == other.err.Message
	default:
		return false
	}
}

// Less orders Values by kind class for sorting purposes: nil <
// bool/int/uint/float (numeric promotion rules) < string < list < map <
// opaque < data source < error. Scalars within a class compare by value;
// two containers (or opaques, or errors) of the same class are not
// ordered against each other, and Less reports false both ways.
func (v Value) Less(ctx context.Context, other Value) bool {
	vk, ok1 := v.AsKey()
	ok, ok2 := other.AsKey()
	if ok1 && ok2 {
		return vk.Less(ok)
	}
	return valueOrderClass(v, ctx) < valueOrderClass(other, ctx)
}

func valueOrderClass(v Value, ctx context.Context) int {
	switch v.Kind(ctx) {
	case KindNil:
		return 0
	case KindBool, KindInt, KindUint, KindFloat:
		return 1
	case KindStr:
		return 2
	case KindList:
		return 3
	case KindOMap, KindSMap:
		return 4
	case KindOpaque:
		return 5
	case KindDataSource:
		return 6
	default:
		return 7
	}
}
