// Package kvdb implements the embedded ordered key/value DataSource
// backend: a single modernc.org/sqlite file (pure Go, no cgo) holding one
// table (skey BLOB PRIMARY KEY, sval BLOB). skey is a tag-prefixed
// sortable key encoding, so SQLite's BLOB ordering on the primary key
// follows nodel's Key ordering within each key kind (keys of different
// numeric kinds are grouped by kind, not by value; see encoding.go), and sval is
// tag-prefixed the same way Values are, recursing into JSON encoding for
// composite values. The store is a Sparse source: ReadKey/WriteKey and
// the KeyIter/ValueIter/ItemIter trio talk to the table directly, so a
// large store never gets pulled into a single in-memory image just to
// read or write one key. Modeled on hive/alloc's allocator contract (one
// resource handle, explicit open/close, no implicit reclamation).
package kvdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/nodel-go/nodel"
	"github.com/nodel-go/nodel/datasource"
	"github.com/nodel-go/nodel/internal/obslog"
	"github.com/nodel-go/nodel/uri"
)

func init() {
	uri.Register("kvdb", func() nodel.DataSource { return &Source{} })
}

// Source is the kvdb-backed DataSource: a flat SMAP-shaped key space
// over a single SQLite-backed table.
type Source struct {
	datasource.BaseDataSource

	path string
	db   *sql.DB
}

// Open binds an existing or new kvdb file directly.
func Open(path string, opts ...Option) (*Source, error) {
	s := &Source{path: path}
	s.SrcKind = nodel.SourceSparse
	s.Org = nodel.OriginSource
	s.Md = nodel.ModeRead | nodel.ModeWrite | nodel.ModeClobber
	for _, o := range opts {
		o(s)
	}
	return s, s.open()
}

// Option configures a Source at construction time.
type Option func(*Source)

// ReadOnly restricts the Source to ModeRead.
func ReadOnly() Option {
	return func(s *Source) { s.Md = nodel.ModeRead }
}

func (s *Source) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		obslog.Warn("kvdb: open failed", "path", s.path, "error", err)
		return err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (skey BLOB PRIMARY KEY, sval BLOB)`); err != nil {
		db.Close()
		return err
	}
	s.db = db
	obslog.Debug("kvdb: opened", "path", s.path)
	return nil
}

func (s *Source) Configure(parts uri.Parts) error {
	s.path = parts.Path
	s.SrcKind = nodel.SourceSparse
	s.Org = nodel.OriginSource
	s.Md = nodel.ModeRead | nodel.ModeWrite | nodel.ModeClobber
	return s.open()
}

func (s *Source) ProbeType(ctx context.Context) (nodel.Kind, error) {
	return nodel.KindSMap, nil
}

func (s *Source) ReadAll(ctx context.Context, target *nodel.Value) error {
	rows, err := s.db.QueryContext(ctx, `SELECT skey, sval FROM kv ORDER BY skey`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var skey, sval []byte
		if err := rows.Scan(&skey, &sval); err != nil {
			return err
		}
		k, err := decodeKey(skey)
		if err != nil {
			return err
		}
		v, err := decodeValue(sval)
		if err != nil {
			return err
		}
		if err := target.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Source) ReadKey(ctx context.Context, target *nodel.Value, key nodel.Key) (nodel.Value, error) {
	row := s.db.QueryRowContext(ctx, `SELECT sval FROM kv WHERE skey = ?`, encodeKey(key))
	var sval []byte
	if err := row.Scan(&sval); err != nil {
		if err == sql.ErrNoRows {
			return nodel.Nil, nil
		}
		return nodel.Nil, err
	}
	return decodeValue(sval)
}

func (s *Source) WriteKey(ctx context.Context, target *nodel.Value, key nodel.Key, val nodel.Value) error {
	if !s.Md.Has(nodel.ModeWrite) {
		return datasource.ErrReadOnly
	}
	sval, err := encodeValue(ctx, val)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO kv(skey, sval) VALUES (?, ?)
		ON CONFLICT(skey) DO UPDATE SET sval = excluded.sval`, encodeKey(key), sval)
	return err
}

func (s *Source) WriteAll(ctx context.Context, target *nodel.Value, cache *nodel.Value) error {
	if !s.Md.Has(nodel.ModeWrite) {
		return datasource.ErrReadOnly
	}
	if cache == nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		tx.Rollback()
		return err
	}
	var outerErr error
	cache.IterItems(ctx, func(k nodel.Key, v nodel.Value) bool {
		sval, err := encodeValue(ctx, v)
		if err != nil {
			outerErr = err
			return false
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv(skey, sval) VALUES (?, ?)`, encodeKey(k), sval); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	if outerErr != nil {
		tx.Rollback()
		obslog.Error("kvdb: WriteAll failed", "path", s.path, "error", outerErr)
		return outerErr
	}
	return tx.Commit()
}

func (s *Source) Commit(ctx context.Context, target *nodel.Value, cache *nodel.Value, deleted []nodel.Key) error {
	if !s.Md.Has(nodel.ModeWrite) {
		return datasource.ErrReadOnly
	}
	for _, k := range deleted {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE skey = ?`, encodeKey(k)); err != nil {
			return err
		}
	}
	if cache == nil {
		return nil
	}
	var outerErr error
	cache.IterItems(ctx, func(k nodel.Key, v nodel.Value) bool {
		if err := s.WriteKey(ctx, target, k, v); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	return outerErr
}

// KeyIter/ValueIter/ItemIter back the Sparse-source contract directly off
// the table's natural skey ordering, rather than BaseDataSource's empty
// default, so Size/IterItems on a kvdb-backed Value see the store's actual
// keys without ever materializing a whole-image cache.
func (s *Source) KeyIter(ctx context.Context, sl *nodel.Slice) (nodel.KeyIterator, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT skey FROM kv ORDER BY skey`)
	if err != nil {
		return nil, err
	}
	return &keyRows{rows: rows}, nil
}

func (s *Source) ValueIter(ctx context.Context, sl *nodel.Slice) (nodel.ValueIterator, error) {
	it, err := s.ItemIter(ctx, sl)
	if err != nil {
		return nil, err
	}
	return &valueFromItemIter{items: it}, nil
}

func (s *Source) ItemIter(ctx context.Context, sl *nodel.Slice) (nodel.ItemIterator, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT skey, sval FROM kv ORDER BY skey`)
	if err != nil {
		return nil, err
	}
	return &itemRows{rows: rows}, nil
}

type keyRows struct{ rows *sql.Rows }

func (it *keyRows) Next(ctx context.Context) (nodel.Key, bool, error) {
	if !it.rows.Next() {
		return nodel.Key{}, false, it.rows.Err()
	}
	var skey []byte
	if err := it.rows.Scan(&skey); err != nil {
		return nodel.Key{}, false, err
	}
	k, err := decodeKey(skey)
	if err != nil {
		return nodel.Key{}, false, err
	}
	return k, true, nil
}

func (it *keyRows) Close() error { return it.rows.Close() }

type itemRows struct{ rows *sql.Rows }

func (it *itemRows) Next(ctx context.Context) (nodel.Key, nodel.Value, bool, error) {
	if !it.rows.Next() {
		return nodel.Key{}, nodel.Nil, false, it.rows.Err()
	}
	var skey, sval []byte
	if err := it.rows.Scan(&skey, &sval); err != nil {
		return nodel.Key{}, nodel.Nil, false, err
	}
	k, err := decodeKey(skey)
	if err != nil {
		return nodel.Key{}, nodel.Nil, false, err
	}
	v, err := decodeValue(sval)
	if err != nil {
		return nodel.Key{}, nodel.Nil, false, err
	}
	return k, v, true, nil
}

func (it *itemRows) Close() error { return it.rows.Close() }

type valueFromItemIter struct{ items nodel.ItemIterator }

func (it *valueFromItemIter) Next(ctx context.Context) (nodel.Value, bool, error) {
	_, v, ok, err := it.items.Next(ctx)
	return v, ok, err
}

func (it *valueFromItemIter) Close() error { return it.items.Close() }

func (s *Source) FreeResources() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Source) NewInstance(target *nodel.Value, origin nodel.Origin) (nodel.DataSource, error) {
	return nil, fmt.Errorf("kvdb: %w", datasource.ErrUnsupported)
}
