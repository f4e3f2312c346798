package nodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Container_RefcountBalancedOnAttachDetach exercises the ownership
// invariant directly: a freshly built container starts at count 1 (its
// creator's share); attaching it into a parent adds the parent's own
// share, and detaching releases exactly that share back.
func Test_Container_RefcountBalancedOnAttachDetach(t *testing.T) {
	ctx := context.Background()
	child := NewList()
	require.Equal(t, 1, child.cont.Count())

	root := NewOMap()
	require.NoError(t, root.Set(ctx, StrKey("k"), child))
	assert.Equal(t, 2, child.cont.Count(), "attach must add the parent's ownership share")

	require.NoError(t, root.Del(ctx, StrKey("k")))
	assert.Equal(t, 1, child.cont.Count(), "detach must release exactly the parent's share")
}

func Test_Container_OverwriteDetachesOldValue(t *testing.T) {
	ctx := context.Background()
	old := NewList()
	root := NewOMap()
	require.NoError(t, root.Set(ctx, StrKey("k"), old))
	assert.Equal(t, 2, old.cont.Count())

	require.NoError(t, root.Set(ctx, StrKey("k"), Int(1)))
	assert.Equal(t, 1, old.cont.Count(), "overwriting a key must release the old value's share")
}

func Test_Container_ListReindexOnInsert(t *testing.T) {
	ctx := context.Background()
	l := NewList()
	require.NoError(t, l.Set(ctx, IntKey(0), Str("a")))
	require.NoError(t, l.Set(ctx, IntKey(1), Str("b")))
	require.True(t, l.cont.listInsert(0, Str("z")))

	v, err := l.Get(ctx, IntKey(1))
	require.NoError(t, err)
	pk, ok := v.ParentKey()
	require.True(t, ok)
	assert.True(t, pk.Equal(IntKey(1)), "reindexed element's parentKey must track its new position")
}

// Test_Container_SetSelfIntoSelf_RefusesCycle checks that a.Set("x", a)
// is refused with an InvariantError and leaves the tree unchanged,
// rather than aliasing a into its own subtree.
func Test_Container_SetSelfIntoSelf_RefusesCycle(t *testing.T) {
	ctx := context.Background()
	a := NewOMap()

	err := a.Set(ctx, StrKey("x"), a)
	require.Error(t, err)
	nerr, ok := err.(*NodelError)
	require.True(t, ok)
	assert.Equal(t, InvariantError, nerr.Kind)

	n, sizeErr := a.Size(ctx)
	require.NoError(t, sizeErr)
	assert.Equal(t, 0, n, "a refused cycle must leave the tree unchanged")
}

// Test_Container_SetAncestorIntoDescendant_RefusesCycle covers the deeper
// cycle case: inserting an ancestor into one of its own descendants would
// also make that ancestor reachable from itself once closed.
func Test_Container_SetAncestorIntoDescendant_RefusesCycle(t *testing.T) {
	ctx := context.Background()
	a := NewOMap()
	b := NewOMap()
	require.NoError(t, a.Set(ctx, StrKey("b"), b))

	child, err := a.Get(ctx, StrKey("b"))
	require.NoError(t, err)

	err = child.Set(ctx, StrKey("back"), a)
	require.Error(t, err)
	nerr, ok := err.(*NodelError)
	require.True(t, ok)
	assert.Equal(t, InvariantError, nerr.Kind)

	n, sizeErr := child.Size(ctx)
	require.NoError(t, sizeErr)
	assert.Equal(t, 0, n)
}

// Test_Container_SetAlreadyParentedValue_MakesStructuralCopy covers the
// single-parent invariant: inserting a Value that already has a parent
// stores a copy, leaving the original's parent link (and content) intact.
func Test_Container_SetAlreadyParentedValue_MakesStructuralCopy(t *testing.T) {
	ctx := context.Background()
	shared := NewList()
	require.NoError(t, shared.Set(ctx, IntKey(0), Int(7)))

	a := NewOMap()
	require.NoError(t, a.Set(ctx, StrKey("x"), shared))

	b := NewOMap()
	require.NoError(t, b.Set(ctx, StrKey("y"), shared))

	viaA, err := a.Get(ctx, StrKey("x"))
	require.NoError(t, err)
	viaB, err := b.Get(ctx, StrKey("y"))
	require.NoError(t, err)
	assert.False(t, viaA.Is(viaB), "inserting an already-parented value a second time must copy, not alias")

	require.NoError(t, viaB.Set(ctx, IntKey(0), Int(99)))
	v, err := viaA.Get(ctx, IntKey(0))
	require.NoError(t, err)
	i, _ := v.AsInt()
	assert.EqualValues(t, 7, i, "mutating the copy must not affect the original")
}
