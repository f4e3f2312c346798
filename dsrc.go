package nodel

import "context"

// ensureImage guarantees v.cont.ds.image is populated for a Complete
// source, reading through on first access. The image is a plain
// container Value (List/OMap/SMap, chosen via ProbeType) distinct from v
// itself, so that delegating Get/Set/Del/Size to it is ordinary
// container dispatch rather than recursing back through the
// DataSource-handling path. Sparse sources never materialize a whole
// image; callers must go through ReadKey instead.
func (v Value) ensureImage(ctx context.Context) error {
	d := v.cont.ds
	if d.fullyCached || d.source.SourceKind() == SourceSparse {
		return nil
	}
	if d.image == nil {
		kind, err := d.source.ProbeType(ctx)
		if err != nil || kind == KindError {
			kind = KindOMap
		}
		img := newImageOfKind(kind)
		d.image = &img
	}
	if err := d.source.ReadAll(ctx, d.image); err != nil {
		if d.source.ThrowOnError().Has(ErrFlagOnRead) {
			return err
		}
		errVal := Errorf(IOError, "read failed: %v", err)
		d.image = &errVal
		d.fullyCached = true
		return nil
	}
	d.fullyCached = true
	return nil
}

func newImageOfKind(k Kind) Value {
	switch k {
	case KindList:
		return NewList()
	case KindSMap:
		return NewSMap()
	default:
		return NewOMap()
	}
}

func (v Value) dsrcGet(ctx context.Context, key Key) (Value, error) {
	d := v.cont.ds
	h := keyHash(key)
	if _, deleted := d.deleteSet[h]; deleted {
		return Nil, nil
	}
	if val, ok := d.updateLog[h]; ok {
		return val, nil
	}
	if d.source.SourceKind() == SourceSparse {
		val, err := d.source.ReadKey(ctx, &v, key)
		if err != nil {
			if d.source.ThrowOnError().Has(ErrFlagOnRead) {
				return Nil, err
			}
			return Errorf(IOError, "read key %s failed: %v", key, err), nil
		}
		return val, nil
	}
	if err := v.ensureImage(ctx); err != nil {
		return Nil, err
	}
	if d.image == nil {
		return Nil, nil
	}
	return d.image.Get(ctx, key)
}

func (v Value) dsrcSet(ctx context.Context, key Key, val Value) error {
	d := v.cont.ds
	if !d.source.Mode().Has(ModeWrite) {
		return typeErrorf("data source is not writable")
	}
	if d.source.SourceKind() != SourceSparse {
		if err := v.ensureImage(ctx); err != nil {
			return err
		}
	}
	d.markDirty(key, val)
	if d.image != nil {
		return d.image.Set(ctx, key, val)
	}
	return nil
}

func (v Value) dsrcDel(ctx context.Context, key Key) error {
	d := v.cont.ds
	if !d.source.Mode().Has(ModeWrite) {
		return typeErrorf("data source is not writable")
	}
	if d.source.SourceKind() != SourceSparse {
		if err := v.ensureImage(ctx); err != nil {
			return err
		}
	}
	d.markDeleted(key)
	if d.image != nil {
		return d.image.Del(ctx, key)
	}
	return nil
}

func (v Value) dsrcSize(ctx context.Context) (int, error) {
	d := v.cont.ds
	if d.source.SourceKind() == SourceSparse {
		return d.sparseSize(ctx)
	}
	if err := v.ensureImage(ctx); err != nil {
		return 0, err
	}
	if d.image == nil {
		return 0, nil
	}
	return d.image.Size(ctx)
}

func (v Value) dsrcIterItems(ctx context.Context, fn func(Key, Value) bool) {
	d := v.cont.ds
	if d.source.SourceKind() == SourceSparse {
		_ = d.sparseIterItems(ctx, fn)
		return
	}
	if err := v.ensureImage(ctx); err != nil {
		return
	}
	if d.image == nil {
		return
	}
	d.image.IterItems(ctx, fn)
}

// sparseSize counts a Sparse source's keys by consulting its KeyIter
// directly (a Sparse source never materializes d.image), overlaying the
// pending update log and delete set so an uncommitted Set/Del is reflected
// before the next Save.
func (d *dsrcState) sparseSize(ctx context.Context) (int, error) {
	it, err := d.source.KeyIter(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	seen := make(map[int]struct{}, len(d.updateKeys))
	n := 0
	for {
		k, ok, err := it.Next(ctx)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		h := keyHash(k)
		seen[h] = struct{}{}
		if _, deleted := d.deleteSet[h]; deleted {
			continue
		}
		n++
	}
	for h := range d.updateKeys {
		if _, already := seen[h]; already {
			continue
		}
		n++
	}
	return n, nil
}

// sparseIterItems walks a Sparse source's ItemIter, skipping deleted keys
// and substituting pending update-log values in place, then yields any
// brand-new keys the update log holds that the source hasn't seen yet.
func (d *dsrcState) sparseIterItems(ctx context.Context, fn func(Key, Value) bool) error {
	it, err := d.source.ItemIter(ctx, nil)
	if err != nil {
		return err
	}
	defer it.Close()

	seen := make(map[int]struct{}, len(d.updateKeys))
	for {
		k, val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		h := keyHash(k)
		seen[h] = struct{}{}
		if _, deleted := d.deleteSet[h]; deleted {
			continue
		}
		if updated, ok := d.updateLog[h]; ok {
			val = updated
		}
		if !fn(k, val) {
			return nil
		}
	}
	for h, k := range d.updateKeys {
		if _, already := seen[h]; already {
			continue
		}
		if !fn(k, d.updateLog[h]) {
			return nil
		}
	}
	return nil
}

// Save flushes a DataSource-backed Value's pending mutations to its
// backend, then recurses into the DataSource-backed children held in its
// cached image: the walk is depth-first, each node committed before its
// children. A dirty node gets one Commit carrying its cache (the whole
// image for a Complete source, a delta of the updated keys for a Sparse
// one) and its deleted keys; a clean node issues no Commit, but its
// children are still visited. A Sparse source holds no image, so nothing
// below it is visited.
func (v Value) Save(ctx context.Context) error {
	if v.kind != KindDataSource {
		return typeErrorf("Save requires a data-source-backed value, got %s", v.kind)
	}
	return v.saveRec(ctx)
}

func (v Value) saveRec(ctx context.Context) error {
	d := v.cont.ds
	if !d.dirty {
		return v.saveChildren(ctx)
	}
	deleted := make([]Key, 0, len(d.deleteSet))
	for _, k := range d.deleteSet {
		deleted = append(deleted, k)
	}

	// A Sparse source never materializes d.image, so its pending writes
	// live only in the update log; build a throwaway delta container
	// holding just the changed keys so Commit still receives a cache it
	// can iterate, the same contract a Complete source's full image
	// satisfies.
	cache := d.image
	if cache == nil && len(d.updateKeys) > 0 {
		delta := NewOMap()
		for h, k := range d.updateKeys {
			if err := delta.Set(ctx, k, d.updateLog[h]); err != nil {
				return err
			}
		}
		cache = &delta
	}

	if err := d.source.Commit(ctx, &v, cache, deleted); err != nil {
		if d.source.ThrowOnError().Has(ErrFlagOnWrite) {
			return err
		}
	}
	d.updateLog = make(map[int]Value)
	d.updateKeys = make(map[int]Key)
	d.deleteSet = make(map[int]Key)
	d.dirty = false
	d.wholeReplace = false
	return v.saveChildren(ctx)
}

// saveChildren runs saveRec on every DataSource-backed child held in v's
// cached image and returns the first error after visiting them all.
func (v Value) saveChildren(ctx context.Context) error {
	d := v.cont.ds
	if d.image == nil {
		return nil
	}
	var firstErr error
	d.image.IterValues(ctx, func(child Value) bool {
		if child.kind == KindDataSource {
			if err := child.saveRec(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return true
	})
	return firstErr
}
