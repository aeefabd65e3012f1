package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A.A
// .#.
// B.B
func sampleLayout() *Layout {
	return &Layout{
		ID:       "sample",
		GridSize: 3,
		Pairs: []Pair{
			{ID: 0, A: Cell{0, 0}, B: Cell{2, 0}, Type: "A"},
			{ID: 1, A: Cell{0, 2}, B: Cell{2, 2}, Type: "B"},
		},
		Paths: map[int]Path{
			0: {{0, 0}, {1, 0}, {2, 0}},
			1: {{2, 2}, {1, 2}, {0, 2}},
		},
		Blocked:   []Cell{{1, 1}},
		Validated: true,
	}
}

func TestLayout_Render(t *testing.T) {
	l := sampleLayout()

	assert.Equal(t, []string{"A.A", ".#.", "B.B"}, l.Render(false))
	assert.Equal(t, []string{"A+A", ".#.", "B+B"}, l.Render(true))
}

func TestLayout_Queries(t *testing.T) {
	l := sampleLayout()

	assert.True(t, l.IsBlocked(Cell{1, 1}))
	assert.False(t, l.IsBlocked(Cell{1, 0}))

	p, ok := l.PairAt(Cell{2, 2})
	require.True(t, ok)
	assert.Equal(t, 1, p.ID)
	_, ok = l.PairAt(Cell{1, 2})
	assert.False(t, ok)

	p, ok = l.Pair(0)
	require.True(t, ok)
	assert.Equal(t, TileType("A"), p.Type)
	_, ok = l.Pair(7)
	assert.False(t, ok)

	path, ok := l.Solution(1)
	require.True(t, ok)
	assert.Equal(t, 2, path.Len())
}

func TestLayout_Verify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Layout)
		ok     bool
	}{
		{"valid", func(l *Layout) {}, true},
		{"unvalidated without paths", func(l *Layout) { l.Validated = false; l.Paths = nil }, true},
		{"missing path", func(l *Layout) { delete(l.Paths, 1) }, false},
		{"path to wrong cell", func(l *Layout) { l.Paths[0] = Path{{0, 0}, {0, 1}} }, false},
		{"path crosses obstacle", func(l *Layout) {
			l.Paths[0] = Path{{0, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 0}}
		}, false},
		{"paths overlap", func(l *Layout) {
			l.Blocked = nil
			l.Paths[0] = Path{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {2, 0}}
			l.Paths[1] = Path{{0, 2}, {1, 2}, {1, 1}, {2, 1}, {2, 2}}
		}, false},
		{"path crosses endpoint", func(l *Layout) {
			l.Pairs[1].A = Cell{1, 0}
			l.Paths[1] = Path{{1, 0}, {1, 1}, {1, 2}, {2, 2}}
		}, false},
		{"diagonal step", func(l *Layout) { l.Paths[0] = Path{{0, 0}, {1, 1}, {2, 0}} }, false},
		{"blocked endpoint", func(l *Layout) { l.Blocked = []Cell{{0, 0}} }, false},
		{"shared endpoint", func(l *Layout) { l.Pairs[1].A = Cell{0, 0} }, false},
		{"endpoint out of bounds", func(l *Layout) { l.Pairs[0].B = Cell{3, 0} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sampleLayout()
			tt.mutate(l)
			err := l.Verify()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidLayout)
			}
		})
	}
}

func TestLayout_JSONRoundTripKeepsPaths(t *testing.T) {
	l := sampleLayout()

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"paths_by_pair"`)

	var decoded Layout
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, l.Paths, decoded.Paths)
	assert.NoError(t, decoded.Verify())
}
