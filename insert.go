package nodel

import "context"

// isParented reports whether val is already installed somewhere in a
// tree. Per the single-parent invariant, an already-parented val must be
// copied rather than aliased when inserted elsewhere.
func (v Value) isParented() bool {
	p, _ := v.parentContainer()
	return p != nil
}

// wouldCreateCycle reports whether inserting val as a child of v (the
// container on which Set is being called) would make some ancestor of v
// reachable from itself. Only container-kind values can enclose another
// container, so any other kind can never close a cycle.
func (v Value) wouldCreateCycle(val Value) bool {
	switch val.rawKind() {
	case KindList, KindOMap, KindSMap, KindDataSource:
	default:
		return false
	}
	if v.Is(val) {
		return true
	}
	cyc := false
	v.IterAncestors(func(anc Value) bool {
		if anc.Is(val) {
			cyc = true
			return false
		}
		return true
	})
	return cyc
}

// cloneForInsert implements the single-parent invariant: installing an
// already-parented Value stores a structural copy instead of the
// original, which keeps its existing parent link untouched. Non-DSRC
// containers are copied element by element by
// recursing through Set itself, which applies this same rule to every
// nested already-parented child; a DSRC-backed Value is instead handed a
// fresh backend instance via NewInstance, since its payload lives outside
// the heap cell and can't be deep-copied in memory.
func cloneForInsert(ctx context.Context, val Value) (Value, error) {
	switch val.rawKind() {
	case KindStr:
		s, _ := val.AsStr()
		return Str(s), nil
	case KindList:
		out := NewList()
		var outerErr error
		val.IterValues(ctx, func(item Value) bool {
			if err := out.Set(ctx, IntKey(int64(out.cont.listLen())), item); err != nil {
				outerErr = err
				return false
			}
			return true
		})
		if outerErr != nil {
			return Nil, outerErr
		}
		return out, nil
	case KindOMap:
		out := NewOMap()
		if err := copyItemsInto(ctx, out, val); err != nil {
			return Nil, err
		}
		return out, nil
	case KindSMap:
		out := NewSMap()
		if err := copyItemsInto(ctx, out, val); err != nil {
			return Nil, err
		}
		return out, nil
	case KindDataSource:
		inst, err := val.cont.ds.source.NewInstance(nil, OriginMemory)
		if err != nil {
			return Nil, err
		}
		return FromDataSource(inst), nil
	default:
		return val, nil
	}
}

func copyItemsInto(ctx context.Context, dst, src Value) error {
	var outerErr error
	src.IterItems(ctx, func(k Key, item Value) bool {
		if err := dst.Set(ctx, k, item); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	return outerErr
}
