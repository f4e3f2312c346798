package nodel

// Numeric enumerates the Go types Cast can produce from a numeric Value.
// Declared as a constraint (not a concrete type) because Value must stay
// a concrete, non-generic struct so it can be stored homogeneously in
// containers; the generic surface lives only in these free functions.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Cast converts a BOOL/INT/UINT/FLOAT Value to T, following the same
// numeric promotion rules used for comparison (§3): bool becomes 0/1,
// and any representable cross-kind conversion succeeds.
func Cast[T Numeric](v Value) (T, error) {
	switch v.kind {
	case KindBool:
		if v.b {
			return T(1), nil
		}
		return T(0), nil
	case KindInt:
		return T(v.i), nil
	case KindUint:
		return T(v.u), nil
	case KindFloat:
		return T(v.f), nil
	default:
		var zero T
		return zero, typeErrorf("cannot cast %s to numeric", v.kind)
	}
}

// As performs a checked extraction of v's payload as T, for callers that
// know a Value's Opaque payload's concrete type (e.g. `As[*MyOpaque](v)`).
// For the built-in scalar kinds, prefer the dedicated AsInt/AsStr/etc.
// accessors, which don't require a type parameter at the call site.
func As[T any](v Value) (T, bool) {
	var zero T
	if v.kind != KindOpaque {
		return zero, false
	}
	t, ok := v.opq.(T)
	return t, ok
}
