// Package datasource provides BaseDataSource, an embeddable struct that
// supplies default implementations for most of the nodel.DataSource
// contract, mirroring the teacher's alloc.NoFreeAllocator "wraps and
// defaults most methods" pattern: a concrete backend (fs, archive, kvdb)
// embeds BaseDataSource and overrides only the methods its storage model
// actually needs to specialize (typically ReadAll/WriteAll/Commit and
// ProbeType).
package datasource

import (
	"context"
	"errors"

	"github.com/nodel-go/nodel"
)

// ErrReadOnly is returned by the default WriteAll/WriteKey/Commit when a
// backend's Mode doesn't include nodel.ModeWrite.
var ErrReadOnly = errors.New("datasource: backend is read-only")

// ErrUnsupported is returned by the default NewInstance for backends
// that don't support per-child instancing (e.g. a flat kvdb store).
var ErrUnsupported = errors.New("datasource: operation not supported by this backend")

// BaseDataSource implements every nodel.DataSource method with a
// reasonable, overridable default: empty iterators, no-op reads, and a
// read-only WriteAll/WriteKey/Commit unless Md includes nodel.ModeWrite.
type BaseDataSource struct {
	SrcKind   nodel.SourceKind
	Org       nodel.Origin
	Md        nodel.Mode
	Multi     bool
	ErrFlags  nodel.ErrFlags
}

func (b *BaseDataSource) SourceKind() nodel.SourceKind { return b.SrcKind }
func (b *BaseDataSource) Origin() nodel.Origin          { return b.Org }
func (b *BaseDataSource) Mode() nodel.Mode              { return b.Md }
func (b *BaseDataSource) Multilevel() bool              { return b.Multi }
func (b *BaseDataSource) ThrowOnError() nodel.ErrFlags   { return b.ErrFlags }

func (b *BaseDataSource) ProbeType(ctx context.Context) (nodel.Kind, error) {
	return nodel.KindOMap, nil
}

func (b *BaseDataSource) ReadAll(ctx context.Context, target *nodel.Value) error {
	return nil
}

func (b *BaseDataSource) ReadKey(ctx context.Context, target *nodel.Value, key nodel.Key) (nodel.Value, error) {
	return nodel.Nil, nil
}

func (b *BaseDataSource) WriteAll(ctx context.Context, target *nodel.Value, cache *nodel.Value) error {
	if !b.Md.Has(nodel.ModeWrite) {
		return ErrReadOnly
	}
	return nil
}

func (b *BaseDataSource) WriteKey(ctx context.Context, target *nodel.Value, key nodel.Key, val nodel.Value) error {
	if !b.Md.Has(nodel.ModeWrite) {
		return ErrReadOnly
	}
	return nil
}

func (b *BaseDataSource) Commit(ctx context.Context, target *nodel.Value, cache *nodel.Value, deleted []nodel.Key) error {
	if !b.Md.Has(nodel.ModeWrite) {
		return ErrReadOnly
	}
	return nil
}

// KeyIter/ValueIter/ItemIter default to empty iterators. A Complete
// source's cached image is iterated by the nodel core without calling
// these; a Sparse backend overrides them to list its own keys.
func (b *BaseDataSource) KeyIter(ctx context.Context, sl *nodel.Slice) (nodel.KeyIterator, error) {
	return &emptyKeyIter{}, nil
}

func (b *BaseDataSource) ValueIter(ctx context.Context, sl *nodel.Slice) (nodel.ValueIterator, error) {
	return &emptyValueIter{}, nil
}

func (b *BaseDataSource) ItemIter(ctx context.Context, sl *nodel.Slice) (nodel.ItemIterator, error) {
	return &emptyItemIter{}, nil
}

func (b *BaseDataSource) NewInstance(target *nodel.Value, origin nodel.Origin) (nodel.DataSource, error) {
	return nil, ErrUnsupported
}

func (b *BaseDataSource) Configure(parts nodel.URIParts) error { return nil }

func (b *BaseDataSource) FreeResources() error { return nil }

type emptyKeyIter struct{}

func (emptyKeyIter) Next(ctx context.Context) (nodel.Key, bool, error) { return nodel.Key{}, false, nil }
func (emptyKeyIter) Close() error                                     { return nil }

type emptyValueIter struct{}

func (emptyValueIter) Next(ctx context.Context) (nodel.Value, bool, error) {
	return nodel.Nil, false, nil
}
func (emptyValueIter) Close() error { return nil }

type emptyItemIter struct{}

func (emptyItemIter) Next(ctx context.Context) (nodel.Key, nodel.Value, bool, error) {
	return nodel.Key{}, nodel.Nil, false, nil
}
func (emptyItemIter) Close() error { return nil }
