package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodel-go/nodel"
)

func Test_BaseDataSource_WriteRequiresModeWrite(t *testing.T) {
	ctx := context.Background()
	b := &BaseDataSource{Md: nodel.ModeRead}

	assert.ErrorIs(t, b.WriteAll(ctx, nil, nil), ErrReadOnly)
	assert.ErrorIs(t, b.WriteKey(ctx, nil, nodel.Key{}, nodel.Nil), ErrReadOnly)
	assert.ErrorIs(t, b.Commit(ctx, nil, nil, nil), ErrReadOnly)

	b.Md |= nodel.ModeWrite
	assert.NoError(t, b.WriteAll(ctx, nil, nil))
}

func Test_BaseDataSource_DefaultsAreInert(t *testing.T) {
	ctx := context.Background()
	b := &BaseDataSource{}

	kind, err := b.ProbeType(ctx)
	assert.NoError(t, err)
	assert.Equal(t, nodel.KindOMap, kind)

	v, err := b.ReadKey(ctx, nil, nodel.StrKey("x"))
	assert.NoError(t, err)
	assert.True(t, v.IsNil(ctx))

	_, err = b.NewInstance(nil, nodel.OriginMemory)
	assert.ErrorIs(t, err, ErrUnsupported)
}
