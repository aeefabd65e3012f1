package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumeratePaths_CornerToCorner(t *testing.T) {
	g := NewGrid(4)
	start, end := Cell{0, 0}, Cell{3, 3}
	g.MarkTile(start)
	g.MarkTile(end)

	paths := EnumeratePaths(g, start, end, DefaultMaxPathsPerPair, DefaultPathSlack)
	require.NotEmpty(t, paths)
	assert.LessOrEqual(t, len(paths), DefaultMaxPathsPerPair)

	for i, p := range paths {
		require.NoError(t, p.Validate(), "path %d", i)
		assert.Equal(t, start, p[0])
		assert.Equal(t, end, p[len(p)-1])
		assert.GreaterOrEqual(t, p.Len(), 6)
		assert.LessOrEqual(t, p.Len(), 12)
	}

	// Greedy neighbor order finds a shortest path first.
	assert.Equal(t, 6, paths[0].Len())
	assert.Equal(t, Cell{1, 0}, paths[0][1], "ties resolve by direction order, +x first")
}

func TestEnumeratePaths_RespectsCap(t *testing.T) {
	g := NewGrid(6)

	for _, limit := range []int{1, 3, 10} {
		paths := EnumeratePaths(g, Cell{0, 0}, Cell{5, 5}, limit, DefaultPathSlack)
		assert.Len(t, paths, limit)
	}
	assert.Nil(t, EnumeratePaths(g, Cell{0, 0}, Cell{5, 5}, 0, DefaultPathSlack))
}

func TestEnumeratePaths_ZeroSlackOnlyShortest(t *testing.T) {
	g := NewGrid(3)

	paths := EnumeratePaths(g, Cell{0, 0}, Cell{2, 2}, 100, 0)
	// Monotone lattice paths in a 2x2 step box: C(4,2).
	require.Len(t, paths, 6)
	for _, p := range paths {
		assert.Equal(t, 4, p.Len())
	}
}

func TestEnumeratePaths_AvoidsOccupiedCells(t *testing.T) {
	g := NewGrid(4)
	start, end := Cell{0, 1}, Cell{3, 1}
	other := Cell{1, 1}
	g.MarkTile(start)
	g.MarkTile(end)
	g.MarkTile(other)
	g.MarkPath(Cell{2, 1})
	g.Block(Cell{1, 0})

	paths := EnumeratePaths(g, start, end, DefaultMaxPathsPerPair, DefaultPathSlack)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		for _, c := range p.Interior() {
			assert.True(t, g.Passable(c), "path runs through occupied cell %s", c)
		}
	}
}

func TestEnumeratePaths_UnreachableIsEmpty(t *testing.T) {
	g := NewGrid(3)
	for y := 0; y < 3; y++ {
		g.Block(Cell{1, y})
	}

	paths := EnumeratePaths(g, Cell{0, 0}, Cell{2, 0}, DefaultMaxPathsPerPair, DefaultPathSlack)
	assert.NotNil(t, paths)
	assert.Empty(t, paths)
}

func TestEnumeratePaths_DeterministicAndPure(t *testing.T) {
	g := NewGrid(5)
	g.MarkTile(Cell{0, 0})
	g.MarkTile(Cell{4, 2})
	g.MarkTile(Cell{2, 2})
	g.MarkPath(Cell{2, 1})
	snapshot := g.Clone()

	first := EnumeratePaths(g, Cell{0, 0}, Cell{4, 2}, 25, 4)
	second := EnumeratePaths(g, Cell{0, 0}, Cell{4, 2}, 25, 4)

	assert.Equal(t, first, second)
	assert.True(t, g.Equal(snapshot), "enumeration must not mutate the grid")
}
