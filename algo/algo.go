// Package algo collects tree-walk and sequence-comparison algorithms
// over nodel Values, grounded on hive/walker's
// traversal style and the diff/LCS-adjacent logic in hive/merge from the
// teacher repo.
package algo

import (
	"context"

	"github.com/nodel-go/nodel"
)

// WalkDepthFirst visits v and its descendants in pre-order (parent
// before children), calling fn with the path of keys from v to each
// visited Value. Returning false from fn stops the walk entirely.
func WalkDepthFirst(ctx context.Context, v nodel.Value, fn func(path []nodel.Key, val nodel.Value) bool) {
	walkDF(ctx, nil, v, fn)
}

func walkDF(ctx context.Context, path []nodel.Key, v nodel.Value, fn func([]nodel.Key, nodel.Value) bool) bool {
	if !fn(path, v) {
		return false
	}
	if !v.IsContainer(ctx) {
		return true
	}
	cont := true
	v.IterItems(ctx, func(k nodel.Key, child nodel.Value) bool {
		childPath := append(append([]nodel.Key(nil), path...), k)
		cont = walkDF(ctx, childPath, child, fn)
		return cont
	})
	return cont
}

// WalkBreadthFirst visits v and its descendants level by level. It is a
// thin convenience wrapper over Value.IterTree.
func WalkBreadthFirst(ctx context.Context, v nodel.Value, fn func(path []nodel.Key, val nodel.Value) bool) {
	v.IterTree(ctx, nil, fn)
}

// Ancestors returns every ancestor of v, nearest first.
func Ancestors(v nodel.Value) []nodel.Value {
	var out []nodel.Value
	v.IterAncestors(func(a nodel.Value) bool {
		out = append(out, a)
		return true
	})
	return out
}

// Descendants returns every descendant of v in breadth-first order
// (v itself is not included).
func Descendants(ctx context.Context, v nodel.Value) []nodel.Value {
	var out []nodel.Value
	first := true
	v.IterTree(ctx, nil, func(path []nodel.Key, val nodel.Value) bool {
		if first {
			first = false
			return true
		}
		out = append(out, val)
		return true
	})
	return out
}

// LCS computes the longest common subsequence of two key sequences
// (e.g. two LIST or OMAP key orders), returning the matched index pairs
// in increasing order — the same O(n*m) dynamic-programming shape as a
// text diff. Elements are matched with Value.Equal.
func LCS(a, b []nodel.Value, ctx context.Context) [][2]int {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i].Equal(ctx, b[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	var pairs [][2]int
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i].Equal(ctx, b[j]):
			pairs = append(pairs, [2]int{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return pairs
}
