// Package intern provides a string interning table for nodel string Keys
// and short repeated STR values.
//
// Unlike a process-wide cache, a Table is always owned explicitly by its
// caller — one per logical tree, or one per worker goroutine for workloads
// that parse many independent trees concurrently. Go has no implicit
// goroutine-local storage, so the "thread-local interning table" described
// in the data model's concurrency notes is rendered here as ordinary
// explicit ownership rather than simulated TLS: a caller that wants
// per-worker tables simply constructs one Table per worker and threads it
// through (e.g. parser/csv.Options.Interner). Interned strings must not be
// shared across Table instances from different goroutines, matching the
// "interned pointers must not cross threads" rule.
package intern

// Table is a string interning table. The zero value is not usable; use New.
type Table struct {
	items map[string]string
}

// New creates an empty interning table.
func New() *Table {
	return &Table{items: make(map[string]string)}
}

// Intern returns a canonical string equal to s. Repeated calls with an
// equal s (even a freshly-allocated one, e.g. from a []byte conversion)
// return the exact same backing string, so Key/STR values built from
// interned strings share storage instead of duplicating it.
func (t *Table) Intern(s string) string {
	if canon, ok := t.items[s]; ok {
		return canon
	}
	// Copy s so a caller-owned buffer (e.g. a parser's reusable line
	// buffer) can't alias the table's canonical storage.
	canon := string([]byte(s))
	t.items[canon] = canon
	return canon
}

// InternBytes is the zero-extra-copy path for interning raw bytes: on a
// cache hit it never allocates a string for b.
func (t *Table) InternBytes(b []byte) string {
	if canon, ok := t.items[string(b)]; ok {
		return canon
	}
	canon := string(b)
	t.items[canon] = canon
	return canon
}

// Len returns the number of distinct strings currently interned.
func (t *Table) Len() int { return len(t.items) }

// Reset clears all interned strings.
func (t *Table) Reset() { t.items = make(map[string]string) }
