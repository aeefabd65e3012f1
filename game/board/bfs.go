package board

// ShortestDistance returns the number of edges on the shortest orthogonal
// path from start to end over passable cells, or Unreachable. end itself is
// always enterable regardless of its occupancy.
func ShortestDistance(g *Grid, start, end Cell) int {
	if start == end {
		return 0
	}

	visited := make([]bool, g.size*g.size)
	visited[g.index(start)] = true

	type item struct {
		cell Cell
		dist int
	}
	queue := []item{{cell: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range directions {
			n := cur.cell.Add(d.X, d.Y)
			if !g.InBounds(n) || visited[g.index(n)] {
				continue
			}
			if n == end {
				return cur.dist + 1
			}
			if !g.Passable(n) {
				continue
			}
			visited[g.index(n)] = true
			queue = append(queue, item{cell: n, dist: cur.dist + 1})
		}
	}

	return Unreachable
}
