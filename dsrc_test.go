package nodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is a minimal in-memory DataSource used to exercise the
// cache-coherence / Save pipeline without touching a real backend.
type memSource struct {
	kind     Kind
	stored   map[string]int64 // string key -> int value, enough for these tests
	writes   int
	lastKeys []string
}

func newMemSource(kind Kind) *memSource {
	return &memSource{kind: kind, stored: make(map[string]int64)}
}

func (m *memSource) SourceKind() SourceKind  { return SourceComplete }
func (m *memSource) Origin() Origin          { return OriginSource }
func (m *memSource) Mode() Mode              { return ModeRead | ModeWrite | ModeClobber }
func (m *memSource) Multilevel() bool        { return false }
func (m *memSource) ThrowOnError() ErrFlags  { return 0 }
func (m *memSource) Configure(URIParts) error { return nil }
func (m *memSource) FreeResources() error    { return nil }

func (m *memSource) ProbeType(ctx context.Context) (Kind, error) { return m.kind, nil }

func (m *memSource) ReadAll(ctx context.Context, target *Value) error {
	for k, v := range m.stored {
		if err := target.Set(ctx, StrKey(k), Int(v)); err != nil {
			return err
		}
	}
	return nil
}

func (m *memSource) ReadKey(ctx context.Context, target *Value, key Key) (Value, error) {
	s, _ := key.AsStr()
	v, ok := m.stored[s]
	if !ok {
		return Nil, nil
	}
	return Int(v), nil
}

func (m *memSource) WriteAll(ctx context.Context, target *Value, cache *Value) error {
	m.stored = make(map[string]int64)
	if cache == nil {
		return nil
	}
	cache.IterItems(ctx, func(k Key, v Value) bool {
		s, _ := k.AsStr()
		i, _ := v.AsInt()
		m.stored[s] = i
		return true
	})
	m.writes++
	return nil
}

func (m *memSource) WriteKey(ctx context.Context, target *Value, key Key, val Value) error {
	s, _ := key.AsStr()
	i, _ := val.AsInt()
	m.stored[s] = i
	return nil
}

func (m *memSource) Commit(ctx context.Context, target *Value, cache *Value, deleted []Key) error {
	for _, k := range deleted {
		s, _ := k.AsStr()
		delete(m.stored, s)
	}
	if cache == nil {
		return nil
	}
	cache.IterItems(ctx, func(k Key, v Value) bool {
		s, _ := k.AsStr()
		i, _ := v.AsInt()
		m.stored[s] = i
		return true
	})
	m.writes++
	return nil
}

func (m *memSource) KeyIter(ctx context.Context, sl *Slice) (KeyIterator, error)     { return emptyKeys{}, nil }
func (m *memSource) ValueIter(ctx context.Context, sl *Slice) (ValueIterator, error) { return emptyValues{}, nil }
func (m *memSource) ItemIter(ctx context.Context, sl *Slice) (ItemIterator, error)   { return emptyItems{}, nil }

func (m *memSource) NewInstance(target *Value, origin Origin) (DataSource, error) {
	return newMemSource(m.kind), nil
}

type emptyKeys struct{}

func (emptyKeys) Next(ctx context.Context) (Key, bool, error) { return Key{}, false, nil }
func (emptyKeys) Close() error                                 { return nil }

type emptyValues struct{}

func (emptyValues) Next(ctx context.Context) (Value, bool, error) { return Nil, false, nil }
func (emptyValues) Close() error                                   { return nil }

type emptyItems struct{}

func (emptyItems) Next(ctx context.Context) (Key, Value, bool, error) { return Key{}, Nil, false, nil }
func (emptyItems) Close() error                                        { return nil }

func Test_Dsrc_ReadThroughOnFirstGet(t *testing.T) {
	ctx := context.Background()
	src := newMemSource(KindOMap)
	src.stored["a"] = 1

	root := FromDataSource(src)

	v, err := root.Get(ctx, StrKey("a"))
	require.NoError(t, err)
	i, _ := v.AsInt()
	assert.EqualValues(t, 1, i)
}

func Test_Dsrc_WriteWithoutPriorRead_StillFlushesOnSave(t *testing.T) {
	ctx := context.Background()
	src := newMemSource(KindOMap)

	root := FromDataSource(src)

	require.NoError(t, root.Set(ctx, StrKey("b"), Int(2)))
	require.NoError(t, root.Save(ctx))

	assert.Equal(t, int64(2), src.stored["b"])
}

func Test_Dsrc_DeleteThenSave_RemovesFromBackend(t *testing.T) {
	ctx := context.Background()
	src := newMemSource(KindOMap)
	src.stored["a"] = 1

	root := FromDataSource(src)

	_, err := root.Get(ctx, StrKey("a"))
	require.NoError(t, err)
	require.NoError(t, root.Del(ctx, StrKey("a")))
	require.NoError(t, root.Save(ctx))

	_, stillThere := src.stored["a"]
	assert.False(t, stillThere)
}

func Test_Dsrc_SaveWithoutPendingWrites_DoesNotCommit(t *testing.T) {
	ctx := context.Background()
	src := newMemSource(KindOMap)
	src.stored["a"] = 1

	root := FromDataSource(src)

	require.NoError(t, root.Save(ctx))
	assert.Equal(t, 0, src.writes, "Save on a clean source must not call Commit")
}

// memSparseSource is a minimal Sparse DataSource: unlike memSource it
// backs Size/IterItems with real KeyIter/ItemIter rather than ReadAll,
// so it exercises dsrcState.sparseSize/sparseIterItems the same way a
// real Sparse backend (fs directories, kvdb) does.
type memSparseSource struct {
	stored map[string]int64
	writes int
}

func newMemSparseSource() *memSparseSource {
	return &memSparseSource{stored: make(map[string]int64)}
}

func (m *memSparseSource) SourceKind() SourceKind   { return SourceSparse }
func (m *memSparseSource) Origin() Origin           { return OriginSource }
func (m *memSparseSource) Mode() Mode               { return ModeRead | ModeWrite | ModeClobber }
func (m *memSparseSource) Multilevel() bool         { return false }
func (m *memSparseSource) ThrowOnError() ErrFlags   { return 0 }
func (m *memSparseSource) Configure(URIParts) error { return nil }
func (m *memSparseSource) FreeResources() error     { return nil }

func (m *memSparseSource) ProbeType(ctx context.Context) (Kind, error) { return KindSMap, nil }

func (m *memSparseSource) ReadAll(ctx context.Context, target *Value) error {
	return nil // Sparse sources are never asked to materialize a whole image.
}

func (m *memSparseSource) ReadKey(ctx context.Context, target *Value, key Key) (Value, error) {
	s, _ := key.AsStr()
	v, ok := m.stored[s]
	if !ok {
		return Nil, nil
	}
	return Int(v), nil
}

func (m *memSparseSource) WriteAll(ctx context.Context, target *Value, cache *Value) error {
	return nil
}

func (m *memSparseSource) WriteKey(ctx context.Context, target *Value, key Key, val Value) error {
	s, _ := key.AsStr()
	i, _ := val.AsInt()
	m.stored[s] = i
	return nil
}

func (m *memSparseSource) Commit(ctx context.Context, target *Value, cache *Value, deleted []Key) error {
	for _, k := range deleted {
		s, _ := k.AsStr()
		delete(m.stored, s)
	}
	if cache != nil {
		cache.IterItems(ctx, func(k Key, v Value) bool {
			s, _ := k.AsStr()
			i, _ := v.AsInt()
			m.stored[s] = i
			return true
		})
	}
	m.writes++
	return nil
}

func (m *memSparseSource) KeyIter(ctx context.Context, sl *Slice) (KeyIterator, error) {
	keys := make([]string, 0, len(m.stored))
	for k := range m.stored {
		keys = append(keys, k)
	}
	return &memKeyIter{keys: keys}, nil
}

func (m *memSparseSource) ValueIter(ctx context.Context, sl *Slice) (ValueIterator, error) {
	it, err := m.ItemIter(ctx, sl)
	if err != nil {
		return nil, err
	}
	return &memValueFromItemIter{items: it}, nil
}

func (m *memSparseSource) ItemIter(ctx context.Context, sl *Slice) (ItemIterator, error) {
	keys := make([]string, 0, len(m.stored))
	for k := range m.stored {
		keys = append(keys, k)
	}
	return &memItemIter{m: m, keys: keys}, nil
}

func (m *memSparseSource) NewInstance(target *Value, origin Origin) (DataSource, error) {
	return newMemSparseSource(), nil
}

type memKeyIter struct {
	keys []string
	i    int
}

func (it *memKeyIter) Next(ctx context.Context) (Key, bool, error) {
	if it.i >= len(it.keys) {
		return Key{}, false, nil
	}
	k := StrKey(it.keys[it.i])
	it.i++
	return k, true, nil
}
func (it *memKeyIter) Close() error { return nil }

type memItemIter struct {
	m    *memSparseSource
	keys []string
	i    int
}

func (it *memItemIter) Next(ctx context.Context) (Key, Value, bool, error) {
	if it.i >= len(it.keys) {
		return Key{}, Nil, false, nil
	}
	k := it.keys[it.i]
	it.i++
	return StrKey(k), Int(it.m.stored[k]), true, nil
}
func (it *memItemIter) Close() error { return nil }

type memValueFromItemIter struct{ items ItemIterator }

func (it *memValueFromItemIter) Next(ctx context.Context) (Value, bool, error) {
	_, v, ok, err := it.items.Next(ctx)
	return v, ok, err
}
func (it *memValueFromItemIter) Close() error { return it.items.Close() }

func Test_Dsrc_Sparse_SizeAndIterItems_NeverMaterializeImage(t *testing.T) {
	ctx := context.Background()
	src := newMemSparseSource()
	src.stored["a"] = 1
	src.stored["b"] = 2

	root := FromDataSource(src)

	n, err := root.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	seen := map[string]int64{}
	root.IterItems(ctx, func(k Key, v Value) bool {
		s, _ := k.AsStr()
		i, _ := v.AsInt()
		seen[s] = i
		return true
	})
	assert.Equal(t, map[string]int64{"a": 1, "b": 2}, seen)
	assert.Nil(t, root.cont.ds.image, "a Sparse source must never materialize a whole image")
}

func Test_Dsrc_Sparse_PendingSetOverlaysSizeAndIterItems(t *testing.T) {
	ctx := context.Background()
	src := newMemSparseSource()
	src.stored["a"] = 1

	root := FromDataSource(src)
	require.NoError(t, root.Set(ctx, StrKey("c"), Int(3)))

	n, err := root.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "an uncommitted Set must be reflected before Save")

	seen := map[string]int64{}
	root.IterItems(ctx, func(k Key, v Value) bool {
		s, _ := k.AsStr()
		i, _ := v.AsInt()
		seen[s] = i
		return true
	})
	assert.Equal(t, map[string]int64{"a": 1, "c": 3}, seen)
}

func Test_Dsrc_Sparse_SaveFlushesUpdateLogViaDelta(t *testing.T) {
	ctx := context.Background()
	src := newMemSparseSource()

	root := FromDataSource(src)
	require.NoError(t, root.Set(ctx, StrKey("x"), Int(42)))
	require.NoError(t, root.Save(ctx))

	assert.Equal(t, int64(42), src.stored["x"], "saveRec must build a delta cache for a Sparse source with no image")
	assert.Equal(t, 1, src.writes)
}

func Test_Dsrc_Sparse_DeleteThenSave_RemovesFromBackend(t *testing.T) {
	ctx := context.Background()
	src := newMemSparseSource()
	src.stored["a"] = 1

	root := FromDataSource(src)
	require.NoError(t, root.Del(ctx, StrKey("a")))
	require.NoError(t, root.Save(ctx))

	_, stillThere := src.stored["a"]
	assert.False(t, stillThere)
}
