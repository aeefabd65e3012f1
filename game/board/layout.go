package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/zyedidia/generic/mapset"
)

// Layout is a committed board. It is never modified after Generate returns;
// a new board replaces it wholesale.
type Layout struct {
	ID        string       `json:"id"`
	GridSize  int          `json:"grid_size"`
	Pairs     []Pair       `json:"pairs"`
	Paths     map[int]Path `json:"paths_by_pair,omitempty"`
	Blocked   []Cell       `json:"blocked"`
	Validated bool         `json:"validated"`
	Attempts  int          `json:"attempts"`
	CreatedAt time.Time    `json:"created_at"`
}

// InBounds reports whether c lies on the board.
func (l *Layout) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < l.GridSize && c.Y >= 0 && c.Y < l.GridSize
}

// IsBlocked reports whether c is a permanent obstacle.
func (l *Layout) IsBlocked(c Cell) bool {
	return slices.Contains(l.Blocked, c)
}

// PairAt returns the pair with an endpoint at c.
func (l *Layout) PairAt(c Cell) (Pair, bool) {
	for _, p := range l.Pairs {
		if p.HasEndpoint(c) {
			return p, true
		}
	}
	return Pair{}, false
}

// Pair returns the pair with the given ID.
func (l *Layout) Pair(id int) (Pair, bool) {
	for _, p := range l.Pairs {
		if p.ID == id {
			return p, true
		}
	}
	return Pair{}, false
}

// Render draws the board one string per row: '.' free, '#' blocked, the tile
// type at endpoints and, when showPaths is set, '+' on solution interiors.
func (l *Layout) Render(showPaths bool) []string {
	rows := make([][]byte, l.GridSize)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(".", l.GridSize))
	}

	if showPaths {
		for _, path := range l.Paths {
			for _, c := range path.Interior() {
				rows[c.Y][c.X] = '+'
			}
		}
	}
	for _, c := range l.Blocked {
		rows[c.Y][c.X] = '#'
	}
	for _, p := range l.Pairs {
		mark := byte('?')
		if len(p.Type) > 0 {
			mark = p.Type[0]
		}
		rows[p.A.Y][p.A.X] = mark
		rows[p.B.Y][p.B.X] = mark
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(r)
	}
	return out
}

// Verify checks the routing guarantees of a validated layout: every path
// joins its own pair through in-bounds adjacent cells without repeats, and no
// path interior touches another path, any endpoint or a blocked cell.
// Unvalidated layouts only get their pairs and obstacles checked.
func (l *Layout) Verify() error {
	endpoints := mapset.New[Cell]()
	for _, p := range l.Pairs {
		if p.A == p.B {
			return fmt.Errorf("%w: pair %d has identical endpoints %s", ErrInvalidLayout, p.ID, p.A)
		}
		for _, c := range []Cell{p.A, p.B} {
			if !l.InBounds(c) {
				return fmt.Errorf("%w: pair %d endpoint %s is out of bounds", ErrInvalidLayout, p.ID, c)
			}
			if endpoints.Has(c) {
				return fmt.Errorf("%w: cell %s is an endpoint of two pairs", ErrInvalidLayout, c)
			}
			endpoints.Put(c)
		}
	}

	blocked := mapset.New[Cell]()
	for _, c := range l.Blocked {
		if !l.InBounds(c) {
			return fmt.Errorf("%w: blocked cell %s is out of bounds", ErrInvalidLayout, c)
		}
		if endpoints.Has(c) {
			return fmt.Errorf("%w: blocked cell %s is an endpoint", ErrInvalidLayout, c)
		}
		blocked.Put(c)
	}

	if !l.Validated {
		return nil
	}

	used := mapset.New[Cell]()
	for _, p := range l.Pairs {
		path, ok := l.Paths[p.ID]
		if !ok {
			return fmt.Errorf("%w: pair %d has no path", ErrInvalidLayout, p.ID)
		}
		if err := path.Validate(); err != nil {
			return fmt.Errorf("%w: pair %d: %v", ErrInvalidLayout, p.ID, err)
		}
		first, last := path[0], path[len(path)-1]
		if !(first == p.A && last == p.B) && !(first == p.B && last == p.A) {
			return fmt.Errorf("%w: path of pair %d runs %s to %s", ErrInvalidLayout, p.ID, first, last)
		}
		for _, c := range path.Interior() {
			switch {
			case !l.InBounds(c):
				return fmt.Errorf("%w: path of pair %d leaves the board at %s", ErrInvalidLayout, p.ID, c)
			case endpoints.Has(c):
				return fmt.Errorf("%w: path of pair %d crosses endpoint %s", ErrInvalidLayout, p.ID, c)
			case blocked.Has(c):
				return fmt.Errorf("%w: path of pair %d crosses obstacle %s", ErrInvalidLayout, p.ID, c)
			case used.Has(c):
				return fmt.Errorf("%w: path of pair %d overlaps another path at %s", ErrInvalidLayout, p.ID, c)
			}
			used.Put(c)
		}
	}
	if len(l.Paths) != len(l.Pairs) {
		return fmt.Errorf("%w: %d paths for %d pairs", ErrInvalidLayout, len(l.Paths), len(l.Pairs))
	}
	return nil
}

// Solution returns the committed path of pair id.
func (l *Layout) Solution(id int) (Path, bool) {
	p, ok := l.Paths[id]
	return p, ok
}
