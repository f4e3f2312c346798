// Package query implements the multi-step, multi-axis address language
// that selects a set of Values rather than Path's single location,
// grounded on hive/index and internal/regtext's lexer/parser style from
// the teacher repo, and evaluated with a simple work-queue walk the way
// hive/walker drives its own tree traversal.
package query

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nodel-go/nodel"
)

// Axis selects which relatives of the current candidate set a Step
// considers.
type Axis uint8

const (
	AxisSelf Axis = iota
	AxisRoot
	AxisParent
	AxisAncestor
	AxisChild
	AxisSibling
	AxisSubtree
)

// Step is one stage of a Query: an axis plus an optional key/glob filter.
// A nil Filter matches every candidate the axis produces. Filter is
// applied by SELF, CHILD, SIBLING and SUBTREE steps; ROOT, PARENT and
// ANCESTOR steps ignore it.
type Step struct {
	Axis   Axis
	Filter func(nodel.Key) bool
}

// Key restricts a CHILD/SIBLING step to an exact key.
func Key(k nodel.Key) func(nodel.Key) bool {
	return func(candidate nodel.Key) bool { return candidate.Equal(k) }
}

// Glob restricts a CHILD/SUBTREE step to keys whose string form matches
// a shell-style glob pattern (`*.json`, `**/config`), implemented with
// doublestar so filesystem-shaped keys (nodel's fs backend surfaces
// directory entries and file names as STR keys) can be selected the same
// way a shell would select files.
func Glob(pattern string) func(nodel.Key) bool {
	return func(candidate nodel.Key) bool {
		s, ok := candidate.AsStr()
		if !ok {
			s = candidate.String()
		}
		ok2, _ := doublestar.Match(pattern, s)
		return ok2
	}
}

// Query is an ordered sequence of Steps evaluated left to right, each
// stage's output candidate set feeding the next stage's input.
type Query struct {
	steps []Step
}

// New builds a Query from an explicit step sequence.
func New(steps ...Step) Query {
	return Query{steps: steps}
}

// Eval runs q against root, returning every Value the final step
// produced. Evaluation is breadth-first within each step so that SUBTREE
// steps visit shallower matches before deeper ones.
func Eval(ctx context.Context, root nodel.Value, q Query) []nodel.Value {
	candidates := []nodel.Value{root}
	for _, step := range q.steps {
		candidates = evalStep(ctx, candidates, step)
	}
	return candidates
}

func evalStep(ctx context.Context, in []nodel.Value, step Step) []nodel.Value {
	var out []nodel.Value
	add := func(v nodel.Value) {
		out = append(out, v)
	}

	for _, v := range in {
		switch step.Axis {
		case AxisSelf:
			if matches(step.Filter, v, Key2(v)) {
				add(v)
			}
		case AxisRoot:
			add(v.Root())
		case AxisParent:
			if p, ok := v.Parent(); ok {
				add(p)
			}
		case AxisAncestor:
			v.IterAncestors(func(a nodel.Value) bool {
				add(a)
				return true
			})
		case AxisChild:
			if v.IsContainer(ctx) {
				v.IterItems(ctx, func(k nodel.Key, child nodel.Value) bool {
					if step.Filter == nil || step.Filter(k) {
						add(child)
					}
					return true
				})
			}
		case AxisSibling:
			v.IterSiblings(ctx, func(k nodel.Key, sib nodel.Value) bool {
				if step.Filter == nil || step.Filter(k) {
					add(sib)
				}
				return true
			})
		case AxisSubtree:
			v.IterTree(ctx, nil, func(path []nodel.Key, val nodel.Value) bool {
				if len(path) == 0 {
					return true
				}
				last := path[len(path)-1]
				if step.Filter == nil || step.Filter(last) {
					add(val)
				}
				return true
			})
		}
	}
	return out
}

// Key2 resolves the key a Value is stored under, for AxisSelf filtering.
func Key2(v nodel.Value) nodel.Key {
	k, _ := v.ParentKey()
	return k
}

func matches(filter func(nodel.Key) bool, _ nodel.Value, k nodel.Key) bool {
	return filter == nil || filter(k)
}
