// Package archive implements the zip DataSource backend: a bound zip
// file is a Complete, Multilevel source whose entries are exposed as
// nested OMAP containers, one level per "/"-separated path segment
// (.json entries parsed, all others kept as raw strings). Read path uses stdlib archive/zip; write path
// rebuilds the whole archive from the in-memory image, since zip has no
// stable in-place update format. Sibling to package fs — same Registry,
// same per-extension dispatch style.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/nodel-go/nodel"
	"github.com/nodel-go/nodel/datasource"
	"github.com/nodel-go/nodel/internal/obslog"
	jsonparser "github.com/nodel-go/nodel/parser/json"
	"github.com/nodel-go/nodel/serialize"
	"github.com/nodel-go/nodel/uri"
)

func init() {
	uri.Register("zip", func() nodel.DataSource { return &Source{} })

	// Register klauspost/compress/flate as the Deflate decompressor so
	// every compressed entry read exercises the faster implementation
	// instead of stdlib's, matching the dependency's role in the pack.
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

// Source is the zip-backed DataSource.
type Source struct {
	datasource.BaseDataSource

	path string
}

// Open binds path directly (no uri string needed).
func Open(path string, opts ...Option) (*Source, error) {
	s := &Source{path: path}
	s.SrcKind = nodel.SourceComplete
	s.Org = nodel.OriginSource
	s.Multi = true
	s.Md = nodel.ModeRead
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Option configures a Source at construction time.
type Option func(*Source)

// WithWrite grants ModeWrite|ModeClobber.
func WithWrite() Option {
	return func(s *Source) { s.Md |= nodel.ModeWrite | nodel.ModeClobber }
}

func (s *Source) Configure(parts uri.Parts) error {
	s.path = parts.Path
	s.SrcKind = nodel.SourceComplete
	s.Org = nodel.OriginSource
	s.Multi = true
	s.Md = nodel.ModeRead
	if parts.Query["write"] == "1" {
		s.Md |= nodel.ModeWrite | nodel.ModeClobber
	}
	return nil
}

func (s *Source) ProbeType(ctx context.Context) (nodel.Kind, error) {
	return nodel.KindOMap, nil
}

func (s *Source) ReadAll(ctx context.Context, target *nodel.Value) error {
	zr, err := zip.OpenReader(s.path)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		val, err := readEntry(f)
		if err != nil {
			return err
		}
		if err := setAtPath(ctx, *target, strings.Split(f.Name, "/"), val); err != nil {
			return err
		}
	}
	return nil
}

func readEntry(f *zip.File) (nodel.Value, error) {
	rc, err := f.Open()
	if err != nil {
		return nodel.Nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nodel.Nil, err
	}
	if strings.HasSuffix(f.Name, ".json") {
		return jsonparser.Parse(bytes.NewReader(data), jsonparser.Options{})
	}
	return nodel.Str(string(data)), nil
}

// setAtPath creates intermediate OMAP containers for each path segment
// and assigns val at the leaf, mirroring how the fs backend exposes
// nested directories as nested containers.
func setAtPath(ctx context.Context, root nodel.Value, segments []string, val nodel.Value) error {
	cur := root
	for _, seg := range segments[:len(segments)-1] {
		next, err := cur.Get(ctx, nodel.StrKey(seg))
		if err != nil {
			return err
		}
		if !next.IsContainer(ctx) {
			next = nodel.NewOMap()
			if err := cur.Set(ctx, nodel.StrKey(seg), next); err != nil {
				return err
			}
		}
		cur = next
	}
	return cur.Set(ctx, nodel.StrKey(segments[len(segments)-1]), val)
}

func (s *Source) WriteAll(ctx context.Context, target *nodel.Value, cache *nodel.Value) error {
	if !s.Md.Has(nodel.ModeWrite) {
		return datasource.ErrReadOnly
	}
	if cache == nil {
		return nil
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := writeEntries(ctx, zw, "", *cache); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		obslog.Error("archive: rebuild write failed", "path", s.path, "error", err)
		return err
	}
	obslog.Debug("archive: rebuilt zip", "path", s.path, "bytes", buf.Len())
	return nil
}

func writeEntries(ctx context.Context, zw *zip.Writer, prefix string, v nodel.Value) error {
	var outerErr error
	v.IterItems(ctx, func(k nodel.Key, child nodel.Value) bool {
		name := prefix + k.String()
		if child.IsContainer(ctx) {
			outerErr = writeEntries(ctx, zw, name+"/", child)
			return outerErr == nil
		}
		w, err := zw.Create(name)
		if err != nil {
			outerErr = err
			return false
		}
		text := serialize.Raw(ctx, child)
		if strings.HasSuffix(name, ".json") {
			text, outerErr = serialize.JSON(ctx, child, serialize.Options{})
			if outerErr != nil {
				return false
			}
		}
		if _, err := io.WriteString(w, text); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	return outerErr
}

func (s *Source) Commit(ctx context.Context, target *nodel.Value, cache *nodel.Value, deleted []nodel.Key) error {
	return s.WriteAll(ctx, target, cache)
}

func (s *Source) NewInstance(target *nodel.Value, origin nodel.Origin) (nodel.DataSource, error) {
	return nil, datasource.ErrUnsupported
}
