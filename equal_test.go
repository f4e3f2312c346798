package nodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Equal_ScalarNumericPromotion(t *testing.T) {
	ctx := context.Background()
	assert.True(t, Int(3).Equal(ctx, Uint(3)))
	assert.True(t, Int(3).Equal(ctx, Float(3.0)))
	assert.False(t, Int(3).Equal(ctx, Str("3")))
}

func Test_Equal_ListElementwise(t *testing.T) {
	ctx := context.Background()
	a := NewList()
	b := NewList()
	require.NoError(t, a.Set(ctx, IntKey(0), Int(1)))
	require.NoError(t, a.Set(ctx, IntKey(1), Int(2)))
	require.NoError(t, b.Set(ctx, IntKey(0), Int(1)))
	require.NoError(t, b.Set(ctx, IntKey(1), Int(2)))

	assert.True(t, a.Equal(ctx, b))

	require.NoError(t, b.Set(ctx, IntKey(1), Int(99)))
	assert.False(t, a.Equal(ctx, b))
}

func Test_Equal_OMapOrderMatters(t *testing.T) {
	ctx := context.Background()
	a := NewOMap()
	b := NewOMap()
	require.NoError(t, a.Set(ctx, StrKey("x"), Int(1)))
	require.NoError(t, a.Set(ctx, StrKey("y"), Int(2)))
	require.NoError(t, b.Set(ctx, StrKey("y"), Int(2)))
	require.NoError(t, b.Set(ctx, StrKey("x"), Int(1)))

	assert.False(t, a.Equal(ctx, b))
}

func Test_Less_TotalOrderAcrossKinds(t *testing.T) {
	ctx := context.Background()
	assert.True(t, Nil.Less(ctx, Int(0)))
	assert.True(t, Int(0).Less(ctx, Str("a")))
	assert.True(t, Str("a").Less(ctx, NewList()))
}
