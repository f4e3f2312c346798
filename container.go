package nodel

import (
	"context"
	"sort"

	"github.com/nodel-go/nodel/internal/support/ref"
)

// container is the heap cell shared by LIST, OMAP, SMAP, and DATASOURCE
// Values. One struct serves all four kinds (rather than one type per
// kind) so the parent back-link always points at a single pointee type,
// per the data model's requirement that a child's parent field have one
// consistent representation regardless of the parent's own kind.
type container struct {
	ref.Counted
	kind Kind

	parent    *container
	parentKey Key

	// LIST storage.
	items []Value

	// OMAP storage: insertion-ordered. oidx maps a key to its slot in
	// okeys/ovals so Get/Set/Del are O(1) average while iteration stays
	// in insertion order.
	okeys []Key
	ovals []Value
	oidx  map[int]int // hash of normalized key -> slot; collisions resolved via keyCompare scan

	// SMAP storage: kept sorted by Key at all times (insert maintains
	// order via binary search), so iteration is free and Get is O(log n).
	skeys []Key
	svals []Value

	// DATASOURCE wrapper state (nil unless kind == KindDataSource).
	ds *dsrcState
}

func newContainer(kind Kind) *container {
	c := &container{Counted: ref.NewCounted(), kind: kind}
	if kind == KindOMap {
		c.oidx = make(map[int]int)
	}
	return c
}

// dsrcState implements the cache-coherence protocol: a materialized
// image plus an incremental update log and delete set, so that most
// key-level mutations do not force a full re-read. Save hands everything
// pending to one Commit call; wholeReplace is cleared on save, but no
// operation sets it, so there is no separate whole-image replacement path.
type dsrcState struct {
	source       DataSource
	image        *Value
	updateLog    map[int]Value // normalized key hash -> value (last write wins)
	updateKeys   map[int]Key
	deleteSet    map[int]Key
	fullyCached  bool
	dirty        bool
	wholeReplace bool
}

func newDsrcState(source DataSource) *dsrcState {
	return &dsrcState{
		source:     source,
		updateLog:  make(map[int]Value),
		updateKeys: make(map[int]Key),
		deleteSet:  make(map[int]Key),
	}
}

func (d *dsrcState) probeType(ctx context.Context) (Kind, error) {
	if d.fullyCached && d.image != nil {
		return d.image.rawKind(), nil
	}
	return d.source.ProbeType(ctx)
}

func (d *dsrcState) markDirty(k Key, v Value) {
	h := keyHash(k)
	delete(d.deleteSet, h)
	d.updateLog[h] = v
	d.updateKeys[h] = k
	d.dirty = true
}

func (d *dsrcState) markDeleted(k Key) {
	h := keyHash(k)
	delete(d.updateLog, h)
	delete(d.updateKeys, h)
	d.deleteSet[h] = k
	d.dirty = true
}

// keyHash produces a stable int bucket for a Key, used only to index the
// update log / delete set maps (Key itself is not comparable via == when
// it carries a string, since two equal-by-value keys built independently
// still compare equal through Equal(), which keyHash must respect).
func keyHash(k Key) int {
	switch k.Kind() {
	case KeyNil:
		return 0
	case KeyStr:
		s, _ := k.AsStr()
		h := 2166136261
		for i := 0; i < len(s); i++ {
			h = (h ^ int(s[i])) * 16777619
		}
		return h
	default:
		// BOOL/INT/UINT/FLOAT: normalize through AsIndex when representable
		// so that true, 1, 1u, and 1.0 collide into the same bucket per
		// spec's cross-kind numeric key equality.
		if i, ok := k.AsIndex(); ok {
			return i + 3
		}
		f, _ := k.AsFloat()
		return int(f*1000003) + 3
	}
}

// --- list storage ---

func (c *container) listLen() int { return len(c.items) }

func (c *container) listGet(i int) (Value, bool) {
	if i < 0 || i >= len(c.items) {
		return Nil, false
	}
	return c.items[i], true
}

func (c *container) listSet(i int, v Value) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.detachChild(c.items[i])
	c.items[i] = v
	c.attachChild(v, IntKey(int64(i)))
	return true
}

func (c *container) listAppend(v Value) {
	c.items = append(c.items, v)
	c.attachChild(v, IntKey(int64(len(c.items)-1)))
}

func (c *container) listInsert(i int, v Value) bool {
	if i < 0 || i > len(c.items) {
		return false
	}
	c.items = append(c.items, Value{})
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = v
	c.attachChild(v, IntKey(int64(i)))
	c.reindexListFrom(i)
	return true
}

func (c *container) listDel(i int) (Value, bool) {
	if i < 0 || i >= len(c.items) {
		return Nil, false
	}
	old := c.items[i]
	c.detachChild(old)
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindexListFrom(i)
	return old, true
}

func (c *container) reindexListFrom(start int) {
	for i := start; i < len(c.items); i++ {
		setParentKey(c.items[i], IntKey(int64(i)))
	}
}

// --- ordered map storage ---

func (c *container) omapFind(k Key) (int, bool) {
	h := keyHash(k)
	slot, ok := c.oidx[h]
	if !ok {
		return -1, false
	}
	if slot >= 0 && slot < len(c.okeys) && c.okeys[slot].Equal(k) {
		return slot, true
	}
	// hash collision fallback: linear scan.
	for i, ek := range c.okeys {
		if ek.Equal(k) {
			return i, true
		}
	}
	return -1, false
}

func (c *container) omapGet(k Key) (Value, bool) {
	i, ok := c.omapFind(k)
	if !ok {
		return Nil, false
	}
	return c.ovals[i], true
}

// omapSet preserves insertion position on overwrite: re-setting an
// existing key updates the value in place rather than moving it to the
// end.
func (c *container) omapSet(k Key, v Value) {
	if i, ok := c.omapFind(k); ok {
		c.detachChild(c.ovals[i])
		c.ovals[i] = v
		c.attachChild(v, k)
		return
	}
	c.okeys = append(c.okeys, k)
	c.ovals = append(c.ovals, v)
	c.oidx[keyHash(k)] = len(c.okeys) - 1
	c.attachChild(v, k)
}

func (c *container) omapDel(k Key) (Value, bool) {
	i, ok := c.omapFind(k)
	if !ok {
		return Nil, false
	}
	old := c.ovals[i]
	c.detachChild(old)
	c.okeys = append(c.okeys[:i], c.okeys[i+1:]...)
	c.ovals = append(c.ovals[:i], c.ovals[i+1:]...)
	c.oidx = make(map[int]int, len(c.okeys))
	for j, ek := range c.okeys {
		c.oidx[keyHash(ek)] = j
	}
	return old, true
}

func (c *container) omapLen() int { return len(c.okeys) }

// --- sorted map storage ---

func (c *container) smapSearch(k Key) int {
	return sort.Search(len(c.skeys), func(i int) bool {
		return !c.skeys[i].Less(k)
	})
}

func (c *container) smapGet(k Key) (Value, bool) {
	i := c.smapSearch(k)
	if i < len(c.skeys) && c.skeys[i].Equal(k) {
		return c.svals[i], true
	}
	return Nil, false
}

func (c *container) smapSet(k Key, v Value) {
	i := c.smapSearch(k)
	if i < len(c.skeys) && c.skeys[i].Equal(k) {
		c.detachChild(c.svals[i])
		c.svals[i] = v
		c.attachChild(v, k)
		return
	}
	c.skeys = append(c.skeys, Key{})
	copy(c.skeys[i+1:], c.skeys[i:])
	c.skeys[i] = k
	c.svals = append(c.svals, Value{})
	copy(c.svals[i+1:], c.svals[i:])
	c.svals[i] = v
	c.attachChild(v, k)
}

func (c *container) smapDel(k Key) (Value, bool) {
	i := c.smapSearch(k)
	if i >= len(c.skeys) || !c.skeys[i].Equal(k) {
		return Nil, false
	}
	old := c.svals[i]
	c.detachChild(old)
	c.skeys = append(c.skeys[:i], c.skeys[i+1:]...)
	c.svals = append(c.svals[:i], c.svals[i+1:]...)
	return old, true
}

func (c *container) smapLen() int { return len(c.skeys) }

// --- parent-link maintenance ---

// attachChild sets v's parent back-link to c under key, then retains v's
// heap cell: the container now holds its own ownership share, on top of
// whatever share the caller who passed v in still holds.
func (c *container) attachChild(v Value, key Key) {
	switch v.rawKind() {
	case KindStr:
		if v.str != nil {
			v.str.parent = c
			v.str.pkey = key
			v.str.Retain()
		}
	case KindList, KindOMap, KindSMap, KindDataSource:
		if v.cont != nil {
			v.cont.parent = c
			v.cont.parentKey = key
			v.cont.Retain()
		}
	}
}

// setParentKey updates v's stored parentKey without touching ownership,
// used when a LIST shifts indices after insert/delete.
func setParentKey(v Value, key Key) {
	switch v.rawKind() {
	case KindStr:
		if v.str != nil {
			v.str.pkey = key
		}
	case KindList, KindOMap, KindSMap, KindDataSource:
		if v.cont != nil {
			v.cont.parentKey = key
		}
	}
}

// detachChild clears v's parent back-link and releases the container's
// ownership share. If the release brings v's cell to zero references,
// detachChild recursively tears down v's own children so the cascade
// happens deterministically, without relying on a GC finalizer.
func (c *container) detachChild(v Value) {
	switch v.rawKind() {
	case KindStr:
		if v.str == nil {
			return
		}
		v.str.parent = nil
		v.str.pkey = Key{}
		v.str.Release()
	case KindList, KindOMap, KindSMap, KindDataSource:
		if v.cont == nil {
			return
		}
		v.cont.parent = nil
		v.cont.parentKey = Key{}
		if v.cont.Release() {
			v.cont.teardown()
		}
	}
}

// teardown recursively detaches every child of a container whose own
// refcount has reached zero, replicating deterministic destruction.
func (c *container) teardown() {
	switch c.kind {
	case KindList:
		for _, item := range c.items {
			c.detachChild(item)
		}
		c.items = nil
	case KindOMap:
		for _, v := range c.ovals {
			c.detachChild(v)
		}
		c.okeys, c.ovals, c.oidx = nil, nil, nil
	case KindSMap:
		for _, v := range c.svals {
			c.detachChild(v)
		}
		c.skeys, c.svals = nil, nil
	case KindDataSource:
		if c.ds != nil {
			if c.ds.image != nil {
				c.detachChild(*c.ds.image)
			}
			if c.ds.source != nil {
				_ = c.ds.source.FreeResources()
			}
		}
		c.ds = nil
	}
}

// identityOf computes Value.Id(): a hash folding the kind tag together
// with pointer bits (heap kinds) or value bits (scalars).
func identityOf(v Value) uint64 {
	const prime = 1099511628211
	h := uint64(14695981039346656037)
	h = (h ^ uint64(v.kind)) * prime
	switch v.kind {
	case KindStr:
		h = (h ^ uintptrHash(v.str)) * prime
	case KindList, KindOMap, KindSMap, KindDataSource:
		h = (h ^ uintptrHash(v.cont)) * prime
	case KindOpaque:
		h = (h ^ uintptrHash(v.opq)) * prime
	case KindError:
		h = (h ^ uintptrHash(v.err)) * prime
	case KindBool:
		if v.b {
			h ^= 1
		}
	case KindInt:
		h = (h ^ uint64(v.i)) * prime
	case KindUint:
		h = (h ^ v.u) * prime
	case KindFloat:
		h = (h ^ floatBits(v.f)) * prime
	}
	return h
}
