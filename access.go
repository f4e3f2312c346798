package nodel

import "context"

// Get retrieves the child stored under key. Containers resolve directly;
// a DataSource-backed Value consults its update log / delete set before
// falling back to the cached image (reading through to the backend on
// first access). Calling Get on an ERROR Value returns that same ERROR
// value unchanged rather than failing.
func (v Value) Get(ctx context.Context, key Key) (Value, error) {
	if v.kind == KindError {
		return v, nil
	}
	switch v.kind {
	case KindList:
		i, ok := key.AsIndex()
		if !ok {
			return Nil, typeErrorf("list index must be numeric, got %s", key)
		}
		val, ok := v.cont.listGet(normalizeIndex(i, v.cont.listLen()))
		if !ok {
			return Nil, rangeErrorf("list index %d out of range (len %d)", i, v.cont.listLen())
		}
		return val, nil
	case KindOMap:
		val, ok := v.cont.omapGet(key)
		if !ok {
			return Nil, nil
		}
		return val, nil
	case KindSMap:
		val, ok := v.cont.smapGet(key)
		if !ok {
			return Nil, nil
		}
		return val, nil
	case KindDataSource:
		return v.dsrcGet(ctx, key)
	default:
		return Nil, typeErrorf("cannot Get on a %s value", v.kind)
	}
}

// Set stores val under key, retaining val and detaching any value
// previously stored there. Absorbs on an ERROR receiver. Per the
// tree-shape and single-parent invariants: an insertion that would make
// an ancestor reachable from itself is refused with an InvariantError,
// and an already-parented val is installed as a structural copy rather
// than aliased into two places at once.
func (v Value) Set(ctx context.Context, key Key, val Value) error {
	if v.kind == KindError {
		return nil
	}
	switch v.kind {
	case KindList, KindOMap, KindSMap, KindDataSource:
		if v.wouldCreateCycle(val) {
			return invariantErrorf("set would make %s reachable from itself", v.kind)
		}
		if val.isParented() {
			copied, err := cloneForInsert(ctx, val)
			if err != nil {
				return err
			}
			val = copied
		}
	}
	switch v.kind {
	case KindList:
		i, ok := key.AsIndex()
		if !ok {
			return typeErrorf("list index must be numeric, got %s", key)
		}
		idx := normalizeIndex(i, v.cont.listLen())
		if idx == v.cont.listLen() {
			v.cont.listAppend(val)
			return nil
		}
		if !v.cont.listSet(idx, val) {
			return rangeErrorf("list index %d out of range (len %d)", i, v.cont.listLen())
		}
		return nil
	case KindOMap:
		v.cont.omapSet(key, val)
		return nil
	case KindSMap:
		v.cont.smapSet(key, val)
		return nil
	case KindDataSource:
		return v.dsrcSet(ctx, key, val)
	default:
		return typeErrorf("cannot Set on a %s value", v.kind)
	}
}

// Del removes the child stored under key. Absorbs on an ERROR receiver.
func (v Value) Del(ctx context.Context, key Key) error {
	if v.kind == KindError {
		return nil
	}
	switch v.kind {
	case KindList:
		i, ok := key.AsIndex()
		if !ok {
			return typeErrorf("list index must be numeric, got %s", key)
		}
		if _, ok := v.cont.listDel(normalizeIndex(i, v.cont.listLen())); !ok {
			return rangeErrorf("list index %d out of range", i)
		}
		return nil
	case KindOMap:
		v.cont.omapDel(key)
		return nil
	case KindSMap:
		v.cont.smapDel(key)
		return nil
	case KindDataSource:
		return v.dsrcDel(ctx, key)
	default:
		return typeErrorf("cannot Del on a %s value", v.kind)
	}
}

// Size reports the number of elements/entries in a container Value.
// Scalars, STR included, are a TypeError; an ERROR receiver absorbs and
// reports 0.
func (v Value) Size(ctx context.Context) (int, error) {
	if v.kind == KindError {
		return 0, nil
	}
	switch v.kind {
	case KindList:
		return v.cont.listLen(), nil
	case KindOMap:
		return v.cont.omapLen(), nil
	case KindSMap:
		return v.cont.smapLen(), nil
	case KindDataSource:
		return v.dsrcSize(ctx)
	default:
		return 0, typeErrorf("cannot Size a %s value", v.kind)
	}
}

// normalizeIndex turns a possibly-negative Python-style index into a
// forward offset by adding length; non-negative indices pass through
// unchanged (so append-by-assignment at len(seq) stays valid for
// List.Set). No range check is made here.
func normalizeIndex(i, length int) int {
	if i < 0 {
		return i + length
	}
	return i
}

// IterKeys calls fn for each key of a container Value, in native order,
// until fn returns false.
func (v Value) IterKeys(ctx context.Context, fn func(Key) bool) {
	v.IterItems(ctx, func(k Key, _ Value) bool { return fn(k) })
}

// IterValues calls fn for each value of a container Value, in native
// order, until fn returns false.
func (v Value) IterValues(ctx context.Context, fn func(Value) bool) {
	v.IterItems(ctx, func(_ Key, val Value) bool { return fn(val) })
}

// IterItems calls fn for each key/value pair of a container Value.
func (v Value) IterItems(ctx context.Context, fn func(Key, Value) bool) {
	switch v.kind {
	case KindList:
		for i, item := range v.cont.items {
			if !fn(IntKey(int64(i)), item) {
				return
			}
		}
	case KindOMap:
		for i, k := range v.cont.okeys {
			if !fn(k, v.cont.ovals[i]) {
				return
			}
		}
	case KindSMap:
		for i, k := range v.cont.skeys {
			if !fn(k, v.cont.svals[i]) {
				return
			}
		}
	case KindDataSource:
		v.dsrcIterItems(ctx, fn)
	}
}
