package board

// Grid is the occupancy state of one generation attempt. Every slice is
// indexed y*size+x. Callers bounds-check with InBounds before any query.
type Grid struct {
	size    int
	tile    []bool
	path    []bool
	blocked []bool
}

// NewGrid returns an empty size x size grid.
func NewGrid(size int) *Grid {
	n := size * size
	return &Grid{
		size:    size,
		tile:    make([]bool, n),
		path:    make([]bool, n),
		blocked: make([]bool, n),
	}
}

// Size returns the grid edge length.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.size + c.X
}

// MarkTile records a pair endpoint at c.
func (g *Grid) MarkTile(c Cell) {
	g.tile[g.index(c)] = true
}

// UnmarkTile clears a pair endpoint at c.
func (g *Grid) UnmarkTile(c Cell) {
	g.tile[g.index(c)] = false
}

// MarkPath marks c as path interior and reports whether it was free of a
// path before. Only cells for which MarkPath returned true may be unmarked
// on rollback.
func (g *Grid) MarkPath(c Cell) bool {
	i := g.index(c)
	if g.path[i] {
		return false
	}
	g.path[i] = true
	return true
}

// UnmarkPath clears the path mark at c.
func (g *Grid) UnmarkPath(c Cell) {
	g.path[g.index(c)] = false
}

// Block makes c permanently impassable.
func (g *Grid) Block(c Cell) {
	g.blocked[g.index(c)] = true
}

// Unblock reverses Block.
func (g *Grid) Unblock(c Cell) {
	g.blocked[g.index(c)] = false
}

func (g *Grid) IsTile(c Cell) bool    { return g.tile[g.index(c)] }
func (g *Grid) IsPath(c Cell) bool    { return g.path[g.index(c)] }
func (g *Grid) IsBlocked(c Cell) bool { return g.blocked[g.index(c)] }

// Passable reports whether a path may run through c. Endpoints of the pair
// being routed are exempted by the searches themselves.
func (g *Grid) Passable(c Cell) bool {
	i := g.index(c)
	return !g.tile[i] && !g.path[i] && !g.blocked[i]
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.size*g.size)
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return cells
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.size)
	copy(out.tile, g.tile)
	copy(out.path, g.path)
	copy(out.blocked, g.blocked)
	return out
}

// Equal reports whether both grids hold identical classifications.
func (g *Grid) Equal(o *Grid) bool {
	if g.size != o.size {
		return false
	}
	for i := range g.tile {
		if g.tile[i] != o.tile[i] || g.path[i] != o.path[i] || g.blocked[i] != o.blocked[i] {
			return false
		}
	}
	return true
}
