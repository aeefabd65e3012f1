package board

import (
	"cmp"
	"slices"
)

// EnumeratePaths lists up to maxPaths simple paths from start to end whose
// length is at most ShortestDistance+slack. Neighbors are explored nearest to
// end first, so short direct paths are discovered before detours. The result
// order is the DFS discovery order and is fully determined by the grid.
func EnumeratePaths(g *Grid, start, end Cell, maxPaths, slack int) []Path {
	if maxPaths <= 0 {
		return nil
	}
	shortest := ShortestDistance(g, start, end)
	if shortest == Unreachable {
		return []Path{}
	}

	s := &pathSearch{
		grid:     g,
		end:      end,
		maxLen:   shortest + slack,
		maxPaths: maxPaths,
		visited:  make([]bool, g.size*g.size),
		current:  Path{start},
	}
	s.visited[g.index(start)] = true
	s.walk(start)
	return s.results
}

// pathSearch carries the DFS state explicitly instead of through closures.
type pathSearch struct {
	grid     *Grid
	end      Cell
	maxLen   int
	maxPaths int
	visited  []bool
	current  Path
	results  []Path
}

func (s *pathSearch) done() bool {
	return len(s.results) >= s.maxPaths
}

func (s *pathSearch) walk(node Cell) {
	if s.done() || s.current.Len() > s.maxLen {
		return
	}
	if node == s.end {
		s.results = append(s.results, s.current.Clone())
		return
	}

	for _, n := range s.orderedNeighbors(node) {
		if s.done() {
			return
		}
		if !s.grid.InBounds(n) || s.visited[s.grid.index(n)] {
			continue
		}
		if n != s.end && !s.grid.Passable(n) {
			continue
		}
		// len(current) is the edge count once n is appended.
		if len(s.current)+n.Manhattan(s.end) > s.maxLen {
			continue
		}

		s.visited[s.grid.index(n)] = true
		s.current = append(s.current, n)
		s.walk(n)
		s.current = s.current[:len(s.current)-1]
		s.visited[s.grid.index(n)] = false
	}
}

// orderedNeighbors returns the four neighbors of node sorted by Manhattan
// distance to the target; equal distances keep the fixed direction order.
func (s *pathSearch) orderedNeighbors(node Cell) [4]Cell {
	var out [4]Cell
	for i, d := range directions {
		out[i] = node.Add(d.X, d.Y)
	}
	slices.SortStableFunc(out[:], func(a, b Cell) int {
		return cmp.Compare(a.Manhattan(s.end), b.Manhattan(s.end))
	})
	return out
}
