package algo

import (
	"context"
	"testing"

	"github.com/nodel-go/nodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WalkDepthFirst_VisitsParentBeforeChildren(t *testing.T) {
	ctx := context.Background()
	root := nodel.NewOMap()
	child := nodel.NewList()
	require.NoError(t, child.Set(ctx, nodel.IntKey(0), nodel.Int(1)))
	require.NoError(t, root.Set(ctx, nodel.StrKey("a"), child))

	var order []string
	WalkDepthFirst(ctx, root, func(path []nodel.Key, val nodel.Value) bool {
		order = append(order, val.Kind(ctx).String())
		return true
	})
	assert.Equal(t, []string{"omap", "list", "int"}, order)
}

func Test_LCS_FindsCommonSubsequence(t *testing.T) {
	ctx := context.Background()
	a := []nodel.Value{nodel.Int(1), nodel.Int(2), nodel.Int(3)}
	b := []nodel.Value{nodel.Int(0), nodel.Int(2), nodel.Int(3), nodel.Int(9)}
	pairs := LCS(a, b, ctx)
	require.Len(t, pairs, 2)
	assert.Equal(t, [2]int{1, 1}, pairs[0])
	assert.Equal(t, [2]int{2, 2}, pairs[1])
}
