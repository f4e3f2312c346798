// Package ref provides the intrusive reference-counting mixin shared by
// every heap-backed payload in the nodel value model (owned strings, list/
// map container cells). "Intrusive" means the count lives inside the
// payload itself rather than behind a separate smart-pointer box, so a
// bare pointer to the payload is a complete, self-describing handle, with
// the refcount inside the heap cell.
//
// There is no finalizer and no implicit reclamation: every Retain must be
// balanced by exactly one Release, the same discipline as a hand-managed
// allocator's paired Alloc/Free. Counts are plain ints, not atomics — a
// nodel tree is single-threaded per subtree (SPEC_FULL.md §5), so
// concurrent access to one payload from multiple goroutines is never
// expected.
package ref

// Counted is embedded by any heap payload that participates in nodel's
// refcounting scheme. The zero value has a count of 0; use NewCounted for
// a cell that starts out owned by its creator.
type Counted struct {
	rc int
}

// NewCounted returns a Counted with an initial count of 1, representing
// the reference the caller is about to hold.
func NewCounted() Counted {
	return Counted{rc: 1}
}

// Retain increments the count.
func (c *Counted) Retain() {
	c.rc++
}

// Release decrements the count and reports whether it reached zero — the
// signal for the caller to tear down the payload's own outgoing
// references (e.g. null its children's parent links) before letting it go.
func (c *Counted) Release() bool {
	c.rc--
	if c.rc < 0 {
		panic("ref: refcount went negative — unbalanced Retain/Release")
	}
	return c.rc == 0
}

// Count reports the current reference count.
func (c *Counted) Count() int {
	return c.rc
}
