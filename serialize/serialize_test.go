package serialize

import (
	"context"
	"testing"

	"github.com/nodel-go/nodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JSON_Compact(t *testing.T) {
	ctx := context.Background()
	m := nodel.NewOMap()
	require.NoError(t, m.Set(ctx, nodel.StrKey("a"), nodel.Int(1)))
	s, err := JSON(ctx, m, Options{})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, s)
}

func Test_JSON_Indented(t *testing.T) {
	ctx := context.Background()
	l := nodel.NewList()
	require.NoError(t, l.Set(ctx, nodel.IntKey(0), nodel.Int(1)))
	s, err := JSON(ctx, l, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]", s)
}

func Test_CSV_QuotesFieldContainingComma(t *testing.T) {
	ctx := context.Background()
	rows := nodel.NewList()
	row := nodel.NewList()
	require.NoError(t, row.Set(ctx, nodel.IntKey(0), nodel.Str("a,b")))
	require.NoError(t, rows.Set(ctx, nodel.IntKey(0), row))
	s, err := CSV(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, "\"a,b\"\n", s)
}
