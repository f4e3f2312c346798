package path

import (
	"context"

	"github.com/nodel-go/nodel"
)

// Get walks root along p's steps, returning the addressed Value.
func (p Path) Get(ctx context.Context, root nodel.Value) (nodel.Value, error) {
	cur := root
	for _, step := range p.steps {
		next, err := cur.Get(ctx, step)
		if err != nil {
			return nodel.Nil, err
		}
		cur = next
	}
	return cur, nil
}

// Set walks root to p's parent step and assigns val under the final
// step, creating intermediate OMAP containers for missing steps so a
// deep path can be written in one call.
func (p Path) Set(ctx context.Context, root nodel.Value, val nodel.Value) error {
	if len(p.steps) == 0 {
		return nil
	}
	cur := root
	for _, step := range p.steps[:len(p.steps)-1] {
		next, err := cur.Get(ctx, step)
		if err != nil {
			return err
		}
		if !next.IsContainer(ctx) {
			next = nodel.NewOMap()
			if err := cur.Set(ctx, step, next); err != nil {
				return err
			}
		}
		cur = next
	}
	return cur.Set(ctx, p.steps[len(p.steps)-1], val)
}

// Del removes the Value addressed by p's final step.
func (p Path) Del(ctx context.Context, root nodel.Value) error {
	if len(p.steps) == 0 {
		return nil
	}
	cur := root
	for _, step := range p.steps[:len(p.steps)-1] {
		next, err := cur.Get(ctx, step)
		if err != nil {
			return err
		}
		cur = next
	}
	return cur.Del(ctx, p.steps[len(p.steps)-1])
}
