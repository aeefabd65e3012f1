package board

import (
	"errors"
	"fmt"
)

const (
	// Unreachable is returned by ShortestDistance when no path exists.
	Unreachable = -1

	MinGridSize = 2
	MaxGridSize = 32

	DefaultGridSize             = 8
	DefaultRequestedTypes       = 6
	DefaultMaxPlacementAttempts = 800
	DefaultMaxPathsPerPair      = 40
	DefaultPathSlack            = 6
	MaxObstacleCount            = 64
)

// Sentinel errors for board generation.
var (
	ErrGenerationExhausted = errors.New("board: no routable placement found within the attempt budget")
	ErrInsufficientCells   = errors.New("board: not enough free cells for the requested pairs")
	ErrInvalidConfig       = errors.New("board: invalid configuration")
	ErrInvalidLayout       = errors.New("board: layout violates routing invariants")
)

// directions is the fixed neighbor order used by every search: +x, -x, +y, -y.
var directions = [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns |dx| + |dy| between c and o.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Adjacent reports whether o is one orthogonal step away from c.
func (c Cell) Adjacent(o Cell) bool {
	return c.Manhattan(o) == 1
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// TileType identifies the picture shared by both tiles of a pair.
type TileType string

// DefaultTileTypes is the alphabet used when a Config does not provide one.
var DefaultTileTypes = []TileType{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

// Pair is two distinct cells that must be connected.
type Pair struct {
	ID   int      `json:"id"`
	A    Cell     `json:"a"`
	B    Cell     `json:"b"`
	Type TileType `json:"type"`
}

// HasEndpoint reports whether c is one of the pair's cells.
func (p Pair) HasEndpoint(c Cell) bool {
	return p.A == c || p.B == c
}

// Other returns the endpoint opposite to c.
func (p Pair) Other(c Cell) Cell {
	if c == p.A {
		return p.B
	}
	return p.A
}

// Path is an ordered sequence of orthogonally adjacent cells.
type Path []Cell

// Len returns the number of edges in the path.
func (p Path) Len() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Interior returns the path without its two endpoints.
func (p Path) Interior() []Cell {
	if len(p) <= 2 {
		return nil
	}
	return p[1 : len(p)-1]
}

// Clone returns a copy that does not share the backing array.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Reverse returns the path walked from the other end.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// Validate checks that consecutive cells are adjacent and no cell repeats.
func (p Path) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("empty path")
	}
	seen := make(map[Cell]struct{}, len(p))
	for i, c := range p {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("cell %s repeats at step %d", c, i)
		}
		seen[c] = struct{}{}
		if i > 0 && !p[i-1].Adjacent(c) {
			return fmt.Errorf("step %d from %s to %s is not orthogonal", i, p[i-1], c)
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
