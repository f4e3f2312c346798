package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nodel-go/nodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create("a.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func Test_Open_ReadsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.zip")
	writeTestZip(t, path)

	src, err := Open(path)
	require.NoError(t, err)
	v := nodel.FromDataSource(src)

	ctx := context.Background()
	a, err := v.Get(ctx, nodel.StrKey("a.txt"))
	require.NoError(t, err)
	s, ok := a.AsStr()
	require.True(t, ok)
	assert.Equal(t, "hello", s)
}
