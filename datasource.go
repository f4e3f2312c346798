package nodel

import "context"

// SourceKind classifies how completely a DataSource's content is known
// without reading: Complete sources report their whole shape up front
// (e.g. a parsed JSON file); Sparse sources only know individual keys on
// demand (e.g. a lazily-enumerated directory).
type SourceKind uint8

const (
	SourceComplete SourceKind = iota
	SourceSparse
)

// Origin distinguishes a DataSource instance created against the backing
// store ("Source") from one created purely in memory, e.g. as a scratch
// cache for a subtree that has never been flushed ("Memory").
type Origin uint8

const (
	OriginSource Origin = iota
	OriginMemory
)

// Mode is a bitset describing the operations permitted against a bound
// DataSource.
type Mode uint8

const (
	ModeRead Mode = 1 << iota
	ModeWrite
	ModeClobber // Write may overwrite existing keys, not just append
	ModeInherit // child containers inherit this DataSource's mode
)

func (m Mode) Has(bit Mode) bool { return m&bit != 0 }

// ErrFlags controls whether a failed read/write surfaces as a returned
// Go error (for programmatic handling) or is absorbed into an ERROR
// Value.
type ErrFlags uint8

const (
	ErrFlagOnRead ErrFlags = 1 << iota
	ErrFlagOnWrite
)

func (f ErrFlags) Has(bit ErrFlags) bool { return f&bit != 0 }

// URIParts is the parsed form of a binding URI, produced by package uri
// and consumed by DataSource.Configure. It lives in this package (rather
// than being referenced as uri.Parts) so that DataSource — which value.go
// and container.go must call synchronously — never has to import uri;
// package uri instead aliases this type (`type Parts = nodel.URIParts`),
// keeping nodel -> uri a one-way edge.
type URIParts struct {
	Scheme   string
	Host     string
	Path     string
	Query    map[string]string
	Fragment string
	Raw      string
}

// KeyIterator walks a Slice's worth of keys in DataSource-native order.
type KeyIterator interface {
	Next(ctx context.Context) (Key, bool, error)
	Close() error
}

// ValueIterator walks a Slice's worth of values.
type ValueIterator interface {
	Next(ctx context.Context) (Value, bool, error)
	Close() error
}

// ItemIterator walks a Slice's worth of key/value pairs.
type ItemIterator interface {
	Next(ctx context.Context) (Key, Value, bool, error)
	Close() error
}

// DataSource is the contract every pluggable backend (filesystem, zip
// archive, embedded KV store, or a caller's own adapter) implements.
// context.Context threads through every method that may block on I/O,
// matching the teacher's convention of passing an explicit handle rather
// than hiding blocking calls behind package state.
type DataSource interface {
	SourceKind() SourceKind
	Origin() Origin
	Mode() Mode
	Multilevel() bool
	ThrowOnError() ErrFlags

	// ProbeType reports the Kind the source's content would parse as,
	// without necessarily materializing it (e.g. peeking the first
	// non-whitespace byte of a JSON file).
	ProbeType(ctx context.Context) (Kind, error)

	// ReadAll materializes the full content into target's cache image.
	ReadAll(ctx context.Context, target *Value) error

	// ReadKey reads a single key, for Sparse sources that need not
	// materialize siblings.
	ReadKey(ctx context.Context, target *Value, key Key) (Value, error)

	// WriteAll replaces the backing content wholesale from cache.
	WriteAll(ctx context.Context, target *Value, cache *Value) error

	// WriteKey writes a single key/value pair.
	WriteKey(ctx context.Context, target *Value, key Key, val Value) error

	// Commit flushes target's accumulated cache (image, update log, and
	// delete set) to the backing store in one pass.
	Commit(ctx context.Context, target *Value, cache *Value, deleted []Key) error

	KeyIter(ctx context.Context, sl *Slice) (KeyIterator, error)
	ValueIter(ctx context.Context, sl *Slice) (ValueIterator, error)
	ItemIter(ctx context.Context, sl *Slice) (ItemIterator, error)

	// NewInstance creates a fresh DataSource of the same backend type
	// bound to a descendant target, e.g. when a directory source hands
	// out a per-file source for a child key.
	NewInstance(target *Value, origin Origin) (DataSource, error)

	Configure(parts URIParts) error
	FreeResources() error
}
