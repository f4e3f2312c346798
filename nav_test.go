package nodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Root_WalksToTop(t *testing.T) {
	ctx := context.Background()
	root := NewOMap()
	child := NewOMap()
	grandchild := Str("leaf")

	require.NoError(t, child.Set(ctx, StrKey("g"), grandchild))
	require.NoError(t, root.Set(ctx, StrKey("c"), child))

	g, err := root.Get(ctx, StrKey("c"))
	require.NoError(t, err)
	g, err = g.Get(ctx, StrKey("g"))
	require.NoError(t, err)

	assert.True(t, g.Root().Is(root))
}

func Test_IterAncestors_OrderedParentToRoot(t *testing.T) {
	ctx := context.Background()
	root := NewOMap()
	mid := NewOMap()
	require.NoError(t, mid.Set(ctx, StrKey("leaf"), Int(1)))
	require.NoError(t, root.Set(ctx, StrKey("mid"), mid))

	gotMid, _ := root.Get(ctx, StrKey("mid"))
	gotLeaf, _ := gotMid.Get(ctx, StrKey("leaf"))

	var seen []Value
	gotLeaf.IterAncestors(func(v Value) bool {
		seen = append(seen, v)
		return true
	})
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Is(gotMid))
	assert.True(t, seen[1].Is(root))
}

func Test_IterSiblings_SkipsSelf(t *testing.T) {
	ctx := context.Background()
	root := NewOMap()
	require.NoError(t, root.Set(ctx, StrKey("a"), Int(1)))
	require.NoError(t, root.Set(ctx, StrKey("b"), Int(2)))
	require.NoError(t, root.Set(ctx, StrKey("c"), Int(3)))

	a, _ := root.Get(ctx, StrKey("a"))
	var siblings []string
	a.IterSiblings(ctx, func(k Key, _ Value) bool {
		s, _ := k.AsStr()
		siblings = append(siblings, s)
		return true
	})
	assert.ElementsMatch(t, []string{"b", "c"}, siblings)
}

func Test_IterTree_BreadthFirst(t *testing.T) {
	ctx := context.Background()
	root := NewOMap()
	child := NewList()
	require.NoError(t, child.Set(ctx, IntKey(0), Int(42)))
	require.NoError(t, root.Set(ctx, StrKey("c"), child))

	var kinds []Kind
	root.IterTree(ctx, nil, func(path []Key, v Value) bool {
		kinds = append(kinds, v.Kind(ctx))
		return true
	})
	require.Len(t, kinds, 3)
	assert.Equal(t, KindOMap, kinds[0])
}
