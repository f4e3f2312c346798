package nodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Scalars_RoundTripAccessors(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		v    Value
		kind Kind
	}{
		{Nil, KindNil},
		{Bool(true), KindBool},
		{Int(-7), KindInt},
		{Uint(7), KindUint},
		{Float(1.5), KindFloat},
		{Str("hi"), KindStr},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.v.Kind(ctx))
	}
}

func Test_List_SetGetDel(t *testing.T) {
	ctx := context.Background()
	l := NewList()
	require.NoError(t, l.Set(ctx, IntKey(0), Int(1)))
	require.NoError(t, l.Set(ctx, IntKey(1), Int(2)))

	n, err := l.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := l.Get(ctx, IntKey(0))
	require.NoError(t, err)
	i, _ := v.AsInt()
	assert.EqualValues(t, 1, i)

	require.NoError(t, l.Del(ctx, IntKey(0)))
	n, _ = l.Size(ctx)
	assert.Equal(t, 1, n)
}

func Test_OMap_Set_PreservesPosition(t *testing.T) {
	ctx := context.Background()
	m := NewOMap()
	require.NoError(t, m.Set(ctx, StrKey("a"), Int(1)))
	require.NoError(t, m.Set(ctx, StrKey("b"), Int(2)))
	require.NoError(t, m.Set(ctx, StrKey("a"), Int(99)))

	var keys []string
	m.IterKeys(ctx, func(k Key) bool {
		s, _ := k.AsStr()
		keys = append(keys, s)
		return true
	})
	assert.Equal(t, []string{"a", "b"}, keys)

	v, _ := m.Get(ctx, StrKey("a"))
	i, _ := v.AsInt()
	assert.EqualValues(t, 99, i)
}

func Test_SMap_KeepsKeysSorted(t *testing.T) {
	ctx := context.Background()
	m := NewSMap()
	require.NoError(t, m.Set(ctx, StrKey("c"), Int(3)))
	require.NoError(t, m.Set(ctx, StrKey("a"), Int(1)))
	require.NoError(t, m.Set(ctx, StrKey("b"), Int(2)))

	var keys []string
	m.IterKeys(ctx, func(k Key) bool {
		s, _ := k.AsStr()
		keys = append(keys, s)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func Test_ParentLink_SetOnAttach_ClearedOnDetach(t *testing.T) {
	ctx := context.Background()
	root := NewOMap()
	child := NewList()
	require.NoError(t, root.Set(ctx, StrKey("k"), child))

	got, err := root.Get(ctx, StrKey("k"))
	require.NoError(t, err)
	parent, ok := got.Parent()
	require.True(t, ok)
	assert.True(t, parent.Is(root))

	pk, ok := got.ParentKey()
	require.True(t, ok)
	assert.True(t, pk.Equal(StrKey("k")))

	require.NoError(t, root.Del(ctx, StrKey("k")))
	_, ok = got.Parent()
	assert.False(t, ok, "detached child must have its parent link cleared")
}

func Test_ErrorAbsorption_GetSetSizeOnErrorValue(t *testing.T) {
	ctx := context.Background()
	e := Errorf(TypeError, "boom")

	got, err := e.Get(ctx, StrKey("x"))
	require.NoError(t, err)
	assert.True(t, got.Is(e))

	require.NoError(t, e.Set(ctx, StrKey("x"), Int(1)))
	require.NoError(t, e.Del(ctx, StrKey("x")))

	n, err := e.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func Test_Is_IdentityVsEquality(t *testing.T) {
	a := Str("hi")
	b := a
	c := Str("hi")

	assert.True(t, a.Is(b), "copies of the same handle share identity")
	assert.False(t, a.Is(c), "two independently constructed strings are not the same cell")
	assert.True(t, a.Equal(context.Background(), c), "but they are equal by value")
}

func Test_Cast_NumericPromotion(t *testing.T) {
	i, err := Cast[int64](Float(3.0))
	require.NoError(t, err)
	assert.EqualValues(t, 3, i)

	f, err := Cast[float64](Bool(true))
	require.NoError(t, err)
	assert.EqualValues(t, 1, f)

	_, err = Cast[int64](Str("x"))
	assert.Error(t, err)
}

func Benchmark_OMap_Set(b *testing.B) {
	ctx := context.Background()
	m := NewOMap()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = m.Set(ctx, IntKey(int64(i)), Int(int64(i)))
	}
}
