// Package fs implements the filesystem DataSource backend: a bound
// directory is a Sparse, Multilevel source whose children are files and
// subdirectories; a bound file is a Complete source parsed per its
// extension (.json as JSON, .csv as CSV, anything else as raw text).
// Grounded on internal/mmfile (mmap-backed raw reads) and
// the hive/loader_* family of per-source-kind loaders from the teacher
// repo.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	jsonparser "github.com/nodel-go/nodel/parser/json"
	"github.com/nodel-go/nodel/parser/csv"

	"github.com/nodel-go/nodel"
	"github.com/nodel-go/nodel/datasource"
	"github.com/nodel-go/nodel/internal/obslog"
	"github.com/nodel-go/nodel/uri"
)

func init() {
	uri.Register("file", func() nodel.DataSource { return &Source{} })
	uri.RegisterExtension(".json", func() nodel.DataSource { return &Source{} })
	uri.RegisterExtension(".csv", func() nodel.DataSource { return &Source{} })
}

// Source is the fs-backed DataSource: either a directory (Sparse,
// Multilevel) or a single file (Complete), decided by Configure once the
// bound path is known to exist on disk.
type Source struct {
	datasource.BaseDataSource

	path  string
	isDir bool
}

// Open binds path directly, without going through a uri string — useful
// for programmatic callers and for tests.
func Open(path string, opts ...Option) (*Source, error) {
	s := &Source{}
	for _, o := range opts {
		o(s)
	}
	return s, s.bind(path)
}

// Option configures a Source at construction time.
type Option func(*Source)

// WithWrite grants ModeWrite|ModeClobber on the bound source.
func WithWrite() Option {
	return func(s *Source) { s.Md |= nodel.ModeWrite | nodel.ModeClobber }
}

func (s *Source) bind(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		obslog.Warn("fs: bind failed", "path", path, "error", err)
		return err
	}
	s.path = path
	s.isDir = info.IsDir()
	s.Md |= nodel.ModeRead
	s.Org = nodel.OriginSource
	if s.isDir {
		s.SrcKind = nodel.SourceSparse
		s.Multi = true
	} else {
		s.SrcKind = nodel.SourceComplete
	}
	return nil
}

func (s *Source) Configure(parts uri.Parts) error {
	return s.bind(parts.Path)
}

func (s *Source) ProbeType(ctx context.Context) (nodel.Kind, error) {
	if s.isDir {
		return nodel.KindOMap, nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nodel.KindError, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		return jsonparser.ProbeType(f)
	case ".csv":
		return nodel.KindList, nil
	default:
		return nodel.KindStr, nil
	}
}

func (s *Source) ReadAll(ctx context.Context, target *nodel.Value) error {
	if s.isDir {
		return s.readDir(ctx, target)
	}
	return s.readFile(ctx, target)
}

func (s *Source) readDir(ctx context.Context, target *nodel.Value) error {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := target.Set(ctx, nodel.StrKey(e.Name()), childPlaceholder()); err != nil {
			return err
		}
	}
	return nil
}

// childPlaceholder returns a nil Value; a directory's children are
// populated lazily via ReadKey rather than eagerly parsing
// every file on a single ReadAll, matching the Sparse contract.
func childPlaceholder() nodel.Value { return nodel.Nil }

func (s *Source) ReadKey(ctx context.Context, target *nodel.Value, key nodel.Key) (nodel.Value, error) {
	if !s.isDir {
		return nodel.Nil, errors.New("fs: ReadKey on a file source")
	}
	name, ok := key.AsStr()
	if !ok {
		return nodel.Nil, errors.New("fs: directory keys must be strings")
	}
	childPath := filepath.Join(s.path, name)
	info, err := os.Stat(childPath)
	if err != nil {
		return nodel.Nil, err
	}
	if info.IsDir() {
		child := &Source{}
		if err := child.bind(childPath); err != nil {
			return nodel.Nil, err
		}
		return nodel.FromDataSource(child), nil
	}
	return readFileValue(ctx, childPath)
}

func (s *Source) readFile(ctx context.Context, target *nodel.Value) error {
	v, err := readFileValue(ctx, s.path)
	if err != nil {
		return err
	}
	switch v.Kind(ctx) {
	case nodel.KindList, nodel.KindOMap, nodel.KindSMap:
		var copyErr error
		v.IterItems(ctx, func(k nodel.Key, val nodel.Value) bool {
			if err := target.Set(ctx, k, val); err != nil {
				copyErr = err
				return false
			}
			return true
		})
		return copyErr
	default:
		return target.Set(ctx, nodel.StrKey("value"), v)
	}
}

func readFileValue(ctx context.Context, path string) (nodel.Value, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nodel.Nil, err
		}
		defer f.Close()
		return jsonparser.Parse(f, jsonparser.Options{})
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nodel.Nil, err
		}
		defer f.Close()
		return csv.Parse(f, csv.Options{})
	default:
		s, err := readTextFile(path)
		if err != nil {
			return nodel.Nil, err
		}
		return nodel.Str(s), nil
	}
}

func (s *Source) WriteAll(ctx context.Context, target *nodel.Value, cache *nodel.Value) error {
	if !s.Md.Has(nodel.ModeWrite) {
		return datasource.ErrReadOnly
	}
	if s.isDir || cache == nil {
		return nil
	}
	text, err := renderForWrite(ctx, s.path, *cache)
	if err != nil {
		obslog.Error("fs: render failed", "path", s.path, "error", err)
		return err
	}
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		obslog.Error("fs: write failed", "path", s.path, "error", err)
		return err
	}
	obslog.Debug("fs: wrote file", "path", s.path, "bytes", len(text))
	return nil
}

func (s *Source) Commit(ctx context.Context, target *nodel.Value, cache *nodel.Value, deleted []nodel.Key) error {
	if s.isDir {
		return s.commitDir(ctx, cache, deleted)
	}
	return s.WriteAll(ctx, target, cache)
}

// commitDir flushes a directory source's pending per-key mutations: a
// deleted entry is removed from disk, and an entry present in cache (the
// delta the save pipeline built from the directory's update log) is
// promoted into a file if it isn't already DataSource-backed — a plain
// structural child, written out for the first time, needs a concrete
// backend of its own the next time it's read.
func (s *Source) commitDir(ctx context.Context, cache *nodel.Value, deleted []nodel.Key) error {
	if !s.Md.Has(nodel.ModeWrite) {
		return datasource.ErrReadOnly
	}
	for _, k := range deleted {
		name, ok := k.AsStr()
		if !ok {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.path, name)); err != nil && !os.IsNotExist(err) {
			obslog.Error("fs: delete failed", "path", filepath.Join(s.path, name), "error", err)
			return err
		}
	}
	if cache == nil {
		return nil
	}
	var outerErr error
	cache.IterItems(ctx, func(k nodel.Key, val nodel.Value) bool {
		name, ok := k.AsStr()
		if !ok {
			outerErr = errors.New("fs: directory keys must be strings")
			return false
		}
		if err := s.promoteChild(ctx, name, val); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	return outerErr
}

// promoteChild renders val per its new filename's extension (the same
// dispatch renderForWrite already uses for an existing bound file) and
// writes it out. A val that is already DataSource-backed is left alone:
// it owns its own Save cascade.
func (s *Source) promoteChild(ctx context.Context, name string, val nodel.Value) error {
	if val.Kind(ctx) == nodel.KindDataSource {
		return nil
	}
	childPath := filepath.Join(s.path, name)
	text, err := renderForWrite(ctx, childPath, val)
	if err != nil {
		return err
	}
	if err := os.WriteFile(childPath, []byte(text), 0o644); err != nil {
		obslog.Error("fs: promote child failed", "path", childPath, "error", err)
		return err
	}
	obslog.Debug("fs: promoted child to file", "path", childPath, "bytes", len(text))
	return nil
}

// dirNames lists a bound directory's entries, the shared backing for
// KeyIter/ValueIter/ItemIter below.
func (s *Source) dirNames() ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// KeyIter/ValueIter/ItemIter give a Sparse directory source real
// iteration instead of BaseDataSource's empty default, so Size/IterItems
// (which for a Sparse source delegate to these rather than to an image)
// see the directory's actual entries.
func (s *Source) KeyIter(ctx context.Context, sl *nodel.Slice) (nodel.KeyIterator, error) {
	if !s.isDir {
		return s.BaseDataSource.KeyIter(ctx, sl)
	}
	names, err := s.dirNames()
	if err != nil {
		return nil, err
	}
	return &dirKeyIter{names: names}, nil
}

func (s *Source) ValueIter(ctx context.Context, sl *nodel.Slice) (nodel.ValueIterator, error) {
	if !s.isDir {
		return s.BaseDataSource.ValueIter(ctx, sl)
	}
	names, err := s.dirNames()
	if err != nil {
		return nil, err
	}
	return &dirValueIter{inner: &dirItemIter{s: s, names: names}}, nil
}

func (s *Source) ItemIter(ctx context.Context, sl *nodel.Slice) (nodel.ItemIterator, error) {
	if !s.isDir {
		return s.BaseDataSource.ItemIter(ctx, sl)
	}
	names, err := s.dirNames()
	if err != nil {
		return nil, err
	}
	return &dirItemIter{s: s, names: names}, nil
}

type dirKeyIter struct {
	names []string
	i     int
}

func (it *dirKeyIter) Next(ctx context.Context) (nodel.Key, bool, error) {
	if it.i >= len(it.names) {
		return nodel.Key{}, false, nil
	}
	k := nodel.StrKey(it.names[it.i])
	it.i++
	return k, true, nil
}

func (it *dirKeyIter) Close() error { return nil }

type dirItemIter struct {
	s     *Source
	names []string
	i     int
}

func (it *dirItemIter) Next(ctx context.Context) (nodel.Key, nodel.Value, bool, error) {
	if it.i >= len(it.names) {
		return nodel.Key{}, nodel.Nil, false, nil
	}
	name := it.names[it.i]
	it.i++
	v, err := it.s.ReadKey(ctx, nil, nodel.StrKey(name))
	if err != nil {
		return nodel.Key{}, nodel.Nil, false, err
	}
	return nodel.StrKey(name), v, true, nil
}

func (it *dirItemIter) Close() error { return nil }

type dirValueIter struct {
	inner *dirItemIter
}

func (it *dirValueIter) Next(ctx context.Context) (nodel.Value, bool, error) {
	_, v, ok, err := it.inner.Next(ctx)
	return v, ok, err
}

func (it *dirValueIter) Close() error { return it.inner.Close() }

func (s *Source) NewInstance(target *nodel.Value, origin nodel.Origin) (nodel.DataSource, error) {
	child := &Source{}
	child.Org = origin
	return child, nil
}
