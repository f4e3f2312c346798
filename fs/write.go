package fs

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/nodel-go/nodel"
	"github.com/nodel-go/nodel/serialize"
)

// renderForWrite serializes v per the bound file's extension: JSON files
// round-trip through serialize.JSON with the default indent, CSV files
// through serialize.CSV, and anything else through serialize.Raw.
func renderForWrite(ctx context.Context, path string, v nodel.Value) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return serialize.JSON(ctx, v, serialize.DefaultOptions())
	case ".csv":
		return serialize.CSV(ctx, v)
	default:
		return serialize.Raw(ctx, v), nil
	}
}
