package board

import (
	"cmp"
	"context"
	"slices"
)

// RouteStats summarizes one Route call.
type RouteStats struct {
	Candidates int `json:"candidates"` // paths tried across all levels
	Backtracks int `json:"backtracks"` // candidates rolled back after a failed subtree
	DeadEnds   int `json:"dead_ends"`  // levels that had no candidate at all

	// Exhausted is set when the search stopped on the candidate budget.
	Exhausted bool `json:"exhausted,omitempty"`
}

// Router finds one path per pair such that no two paths share a cell other
// than their own endpoints.
type Router struct {
	grid     *Grid
	maxPaths int
	slack    int
	budget   int
	stats    RouteStats
}

// NewRouter returns a router that mutates g while searching.
func NewRouter(g *Grid, maxPaths, slack int) *Router {
	return &Router{grid: g, maxPaths: maxPaths, slack: slack}
}

// WithBudget caps the candidates one Route call may try. Zero or less means
// no cap.
func (r *Router) WithBudget(candidates int) *Router {
	r.budget = candidates
	return r
}

// Stats returns counters accumulated by the last Route call.
func (r *Router) Stats() RouteStats {
	return r.stats
}

type rankedPair struct {
	index int
	dist  int
}

// Route assigns a path to every pair. Every endpoint must already be marked
// with MarkTile. On success the paths are returned in the order of pairs and
// their interiors remain marked on the grid; on failure the grid is restored
// to exactly its state before the call.
func (r *Router) Route(ctx context.Context, pairs []Pair) ([]Path, bool) {
	r.stats = RouteStats{}
	if ctx.Err() != nil {
		return nil, false
	}

	order := r.rank(pairs)
	chosen := make([]Path, len(pairs))
	if !r.route(ctx, pairs, order, 0, chosen) {
		return nil, false
	}
	return chosen, true
}

// rank orders pairs hardest first: longest BFS distance on the grid with all
// endpoints marked and no paths committed. Unreachable pairs go first.
func (r *Router) rank(pairs []Pair) []int {
	ranked := make([]rankedPair, len(pairs))
	for i, p := range pairs {
		d := ShortestDistance(r.grid, p.A, p.B)
		if d == Unreachable {
			d = int(^uint(0) >> 1)
		}
		ranked[i] = rankedPair{index: i, dist: d}
	}
	slices.SortStableFunc(ranked, func(a, b rankedPair) int {
		return cmp.Compare(b.dist, a.dist)
	})

	order := make([]int, len(ranked))
	for i, rp := range ranked {
		order[i] = rp.index
	}
	return order
}

func (r *Router) route(ctx context.Context, pairs []Pair, order []int, level int, chosen []Path) bool {
	if level >= len(order) {
		return true
	}
	if ctx.Err() != nil {
		return false
	}

	p := pairs[order[level]]
	candidates := EnumeratePaths(r.grid, p.A, p.B, r.maxPaths, r.slack)
	if len(candidates) == 0 {
		r.stats.DeadEnds++
		return false
	}

	for _, path := range candidates {
		if r.budget > 0 && r.stats.Candidates >= r.budget {
			r.stats.Exhausted = true
			return false
		}
		r.stats.Candidates++

		marked := r.commit(p, path)
		chosen[order[level]] = path
		if r.route(ctx, pairs, order, level+1, chosen) {
			return true
		}
		chosen[order[level]] = nil
		r.rollback(marked)
		r.stats.Backtracks++
	}

	return false
}

// commit marks the interior of path and returns exactly the cells it changed.
func (r *Router) commit(p Pair, path Path) []Cell {
	marked := make([]Cell, 0, len(path))
	for _, c := range path {
		if p.HasEndpoint(c) {
			continue
		}
		if r.grid.MarkPath(c) {
			marked = append(marked, c)
		}
	}
	return marked
}

func (r *Router) rollback(marked []Cell) {
	for _, c := range marked {
		r.grid.UnmarkPath(c)
	}
}
