package nodel

import "context"

// parentContainer returns v's parent back-link and stored key, wherever
// it lives (the shared cell for heap kinds, the Value struct itself for
// scalars).
func (v Value) parentContainer() (*container, Key) {
	switch v.rawKind() {
	case KindStr:
		if v.str == nil {
			return nil, Key{}
		}
		return v.str.parent, v.str.pkey
	case KindList, KindOMap, KindSMap, KindDataSource:
		if v.cont == nil {
			return nil, Key{}
		}
		return v.cont.parent, v.cont.parentKey
	default:
		return v.parent, v.parentKey
	}
}

// Parent returns the Value's containing container, or (Nil, false) at
// the root.
func (v Value) Parent() (Value, bool) {
	p, _ := v.parentContainer()
	if p == nil {
		return Nil, false
	}
	return containerValue(p), true
}

// ParentKey returns the key under which v is stored in its parent.
func (v Value) ParentKey() (Key, bool) {
	p, k := v.parentContainer()
	if p == nil {
		return Key{}, false
	}
	return k, true
}

// Root walks parent links to the top of the tree.
func (v Value) Root() Value {
	cur := v
	for {
		p, ok := cur.Parent()
		if !ok {
			return cur
		}
		cur = p
	}
}

// containerValue rewraps a *container back into its owning Value.
func containerValue(c *container) Value {
	return Value{kind: c.kind, cont: c}
}

// IterAncestors walks from v's parent up to the root, calling fn for each
// ancestor until fn returns false or the root is reached.
func (v Value) IterAncestors(fn func(Value) bool) {
	cur := v
	for {
		p, ok := cur.Parent()
		if !ok {
			return
		}
		if !fn(p) {
			return
		}
		cur = p
	}
}

// IterSiblings calls fn for every other child of v's parent (skipping
// the entry stored under v's own key), in the parent's native iteration
// order.
func (v Value) IterSiblings(ctx context.Context, fn func(Key, Value) bool) {
	p, ok := v.Parent()
	if !ok {
		return
	}
	self, _ := v.ParentKey()
	p.IterItems(ctx, func(k Key, child Value) bool {
		if k.Equal(self) && child.Is(v) {
			return true
		}
		return fn(k, child)
	})
}

// IterTree performs a breadth-first walk of v and its descendants.
// descend, if non-nil, is consulted before entering a container's
// children; returning false skips that subtree without excluding the
// container itself from fn.
func (v Value) IterTree(ctx context.Context, descend func(Value) bool, fn func(path []Key, val Value) bool) {
	type frame struct {
		path []Key
		val  Value
	}
	queue := []frame{{nil, v}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		if !fn(f.path, f.val) {
			return
		}
		if !f.val.IsContainer(ctx) {
			continue
		}
		if descend != nil && !descend(f.val) {
			continue
		}
		f.val.IterItems(ctx, func(k Key, child Value) bool {
			childPath := make([]Key, len(f.path)+1)
			copy(childPath, f.path)
			childPath[len(f.path)] = k
			queue = append(queue, frame{childPath, child})
			return true
		})
	}
}
