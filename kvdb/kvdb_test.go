package kvdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nodel-go/nodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Open_WriteKey_ReadKey_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src, err := Open(filepath.Join(dir, "test.kvdb"))
	require.NoError(t, err)
	defer src.FreeResources()

	ctx := context.Background()
	v := nodel.FromDataSource(src)
	require.NoError(t, v.Set(ctx, nodel.StrKey("a"), nodel.Int(42)))
	require.NoError(t, v.Save(ctx))

	got, err := v.Get(ctx, nodel.StrKey("a"))
	require.NoError(t, err)
	i, ok := got.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 42, i)
}

func Test_Open_Sparse_SizeAndIterItems_ReadThroughTable(t *testing.T) {
	dir := t.TempDir()
	src, err := Open(filepath.Join(dir, "test.kvdb"))
	require.NoError(t, err)
	defer src.FreeResources()

	ctx := context.Background()
	v := nodel.FromDataSource(src)
	require.NoError(t, v.Set(ctx, nodel.StrKey("a"), nodel.Int(1)))
	require.NoError(t, v.Set(ctx, nodel.StrKey("b"), nodel.Int(2)))
	require.NoError(t, v.Save(ctx))

	n, err := v.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "Size on a kvdb-backed Value must delegate to KeyIter, not an in-memory image")

	seen := map[string]int64{}
	v.IterItems(ctx, func(k nodel.Key, val nodel.Value) bool {
		s, _ := k.AsStr()
		i, _ := val.AsInt()
		seen[s] = i
		return true
	})
	assert.Equal(t, map[string]int64{"a": 1, "b": 2}, seen)
}

func Test_EncodeKey_OrdersByKindTagThenPayload(t *testing.T) {
	keys := []nodel.Key{
		nodel.NilKey,
		nodel.BoolKey(false),
		nodel.BoolKey(true),
		nodel.IntKey(-5),
		nodel.IntKey(5),
		nodel.UintKey(10),
		nodel.FloatKey(1.5),
		nodel.StrKey("z"),
	}
	for i := 0; i < len(keys)-1; i++ {
		a, b := encodeKey(keys[i]), encodeKey(keys[i+1])
		assert.Truef(t, string(a) < string(b), "encoding order broken at %d/%d", i, i+1)
	}
}
