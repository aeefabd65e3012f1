package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/janchain/game/board"
)

func createTestConfig() *GameConfig {
	cfg := DefaultGameConfig()
	cfg.Name = "Engine Test Config"
	cfg.Description = "Configuration for engine tests"
	cfg.Seed = 42
	return cfg
}

// testLayout is a fixed 4x4 board:
//
//	A..A
//	BC..
//	....
//	B#.C
func testLayout() *board.Layout {
	return &board.Layout{
		ID:       "test-layout",
		GridSize: 4,
		Pairs: []board.Pair{
			{ID: 0, A: board.Cell{X: 0, Y: 0}, B: board.Cell{X: 3, Y: 0}, Type: "A"},
			{ID: 1, A: board.Cell{X: 0, Y: 1}, B: board.Cell{X: 0, Y: 3}, Type: "B"},
			{ID: 2, A: board.Cell{X: 1, Y: 1}, B: board.Cell{X: 3, Y: 3}, Type: "C"},
		},
		Paths: map[int]board.Path{
			0: {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
			1: {{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3}},
			2: {{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 3}},
		},
		Blocked:   []board.Cell{{X: 1, Y: 3}},
		Validated: true,
	}
}

func newTestEngine(t *testing.T) *GameEngine {
	t.Helper()
	e, err := NewEngineWithLayout(createTestConfig(), testLayout())
	require.NoError(t, err)
	return e
}

func path(cells ...[2]int) board.Path {
	out := make(board.Path, len(cells))
	for i, c := range cells {
		out[i] = board.Cell{X: c[0], Y: c[1]}
	}
	return out
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(context.Background(), createTestConfig())
	require.NoError(t, err)

	state := e.GetState()
	assert.Equal(t, 1, state.BoardNumber)
	assert.Equal(t, 8, state.GridSize)
	assert.Len(t, state.Pairs, 6)
	assert.Equal(t, 6, e.TotalPairs())
	assert.Equal(t, 0, e.MatchedPairs())
	assert.True(t, state.Validated)
	assert.False(t, e.IsGameOver())
	assert.Equal(t, e.GetConfig().Messages.Welcome, state.Message)
	assert.Equal(t, e.GetLayout().ID, state.LayoutID)
	assert.Len(t, state.Grid, 8)
	assert.Positive(t, e.LastGenerateStats().Attempts)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := createTestConfig()
	cfg.Name = ""

	_, err := NewEngine(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewEngineWithLayout_RejectsBrokenLayout(t *testing.T) {
	layout := testLayout()
	layout.Paths[0] = path([2]int{0, 0}, [2]int{1, 1}, [2]int{3, 0})

	_, err := NewEngineWithLayout(createTestConfig(), layout)
	assert.ErrorIs(t, err, board.ErrInvalidLayout)
}

func TestConnect_SolvesGeneratedBoard(t *testing.T) {
	e, err := NewEngine(context.Background(), createTestConfig())
	require.NoError(t, err)

	for _, pair := range e.GetState().Pairs {
		require.NoError(t, e.Connect(e.GetSolution()[pair.ID]), "pair %d", pair.ID)
	}

	assert.True(t, e.IsVictory())
	assert.True(t, e.IsGameOver())
	assert.Equal(t, "Victory! All 6 pairs connected!", e.GetState().Message)
}

func TestConnect_ValidLine(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Connect(path([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})))

	state := e.GetState()
	assert.Equal(t, 1, state.MatchedPairs)
	assert.True(t, state.Matched[0])
	assert.Equal(t, "Pair A connected!", state.Message)
	assert.Equal(t, []string{"AaaA", "BC..", "....", "B#.C"}, state.Grid)
	require.Len(t, state.Connections, 1)
	assert.Equal(t, board.TileType("A"), state.Connections[0].Type)
}

func TestConnect_ReverseDirection(t *testing.T) {
	e := newTestEngine(t)

	assert.NoError(t, e.Connect(path([2]int{0, 3}, [2]int{0, 2}, [2]int{0, 1})))
	assert.True(t, e.GetState().Matched[1])
}

func TestConnect_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*GameEngine)
		path  board.Path
		want  error
	}{
		{"single cell", nil, path([2]int{0, 0}), ErrInvalidPath},
		{"diagonal step", nil, path([2]int{0, 0}, [2]int{1, 1}), ErrInvalidPath},
		{"repeated cell", nil, path([2]int{0, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{0, 2}, [2]int{0, 3}), ErrInvalidPath},
		{"out of bounds", nil, path([2]int{0, 0}, [2]int{-1, 0}), ErrInvalidPath},
		{"starts on empty cell", nil, path([2]int{2, 2}, [2]int{2, 3}), ErrInvalidPath},
		{"ends on empty cell", nil, path([2]int{0, 0}, [2]int{1, 0}), ErrInvalidPath},
		{"mismatched tiles", nil, path([2]int{0, 0}, [2]int{0, 1}), ErrInvalidPath},
		{"through obstacle", nil, path([2]int{1, 1}, [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 3}, [2]int{3, 3}), ErrInvalidPath},
		{"through another tile", nil, path([2]int{0, 1}, [2]int{1, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{0, 3}), ErrInvalidPath},
		{
			"across a line",
			func(e *GameEngine) {
				require.NoError(t, e.Connect(path([2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}, [2]int{3, 2}, [2]int{3, 3})))
			},
			path([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{2, 1}, [2]int{3, 1}, [2]int{3, 0}),
			ErrInvalidPath,
		},
		{
			"already connected",
			func(e *GameEngine) {
				require.NoError(t, e.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})))
			},
			path([2]int{0, 3}, [2]int{0, 2}, [2]int{0, 1}),
			ErrAlreadyMatched,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			if tt.setup != nil {
				tt.setup(e)
			}
			matchedBefore := e.MatchedPairs()

			assert.ErrorIs(t, e.CanConnect(tt.path), tt.want)
			err := e.Connect(tt.path)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, matchedBefore, e.MatchedPairs())

			last := e.GetLastMove()
			require.NotNil(t, last)
			assert.False(t, last.Success)
			assert.Equal(t, err.Error(), last.Reason)
		})
	}
}

func TestConnect_RejectMessages(t *testing.T) {
	e := newTestEngine(t)

	_ = e.Connect(path([2]int{0, 0}, [2]int{0, 1}))
	assert.Contains(t, e.GetState().Message, e.config.Messages.InvalidPath)

	require.NoError(t, e.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})))
	_ = e.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}))
	assert.Equal(t, e.config.Messages.AlreadyMatched, e.GetState().Message)
}

func TestConnect_VictoryEndsGame(t *testing.T) {
	e := newTestEngine(t)
	for id, p := range testLayout().Paths {
		require.NoError(t, e.Connect(p), "pair %d", id)
	}

	state := e.GetState()
	assert.True(t, state.Victory)
	assert.True(t, state.GameOver)
	assert.Equal(t, "Victory! All 3 pairs connected!", state.Message)

	assert.ErrorIs(t, e.Connect(path([2]int{0, 0}, [2]int{1, 0})), ErrGameOver)
	assert.ErrorIs(t, e.Disconnect(0), ErrGameOver)
}

func TestDisconnect(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Connect(path([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})))

	require.NoError(t, e.Disconnect(0))
	assert.Equal(t, 0, e.MatchedPairs())
	assert.False(t, e.GetState().Matched[0])
	assert.Empty(t, e.GetState().Connections)
	assert.Equal(t, e.config.Messages.Disconnected, e.GetState().Message)

	assert.ErrorIs(t, e.Disconnect(0), ErrNotMatched)
	assert.ErrorIs(t, e.Disconnect(9), ErrUnknownPair)

	// The freed cells can be used again.
	assert.NoError(t, e.Connect(path([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})))
}

func TestDisconnectAt(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Connect(path([2]int{1, 1}, [2]int{2, 1}, [2]int{3, 1}, [2]int{3, 2}, [2]int{3, 3})))
	require.NoError(t, e.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})))

	require.NoError(t, e.DisconnectAt(board.Cell{X: 3, Y: 2}))
	assert.False(t, e.GetState().Matched[2])
	assert.True(t, e.GetState().Matched[1])

	require.NoError(t, e.DisconnectAt(board.Cell{X: 0, Y: 3}), "endpoints select their line")
	assert.Equal(t, 0, e.MatchedPairs())

	assert.ErrorIs(t, e.DisconnectAt(board.Cell{X: 2, Y: 2}), ErrNotMatched)
	assert.ErrorIs(t, e.DisconnectAt(board.Cell{X: 4, Y: 0}), ErrOutOfBounds)
}

func TestDescribeCell(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Connect(path([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})))

	info, err := e.DescribeCell(board.Cell{X: 1, Y: 3})
	require.NoError(t, err)
	assert.Equal(t, CellBlocked, info.Kind)

	info, err = e.DescribeCell(board.Cell{X: 3, Y: 3})
	require.NoError(t, err)
	assert.Equal(t, CellTile, info.Kind)
	assert.Equal(t, board.TileType("C"), info.Type)
	require.NotNil(t, info.PairID)
	assert.Equal(t, 2, *info.PairID)
	assert.False(t, info.Matched)

	info, err = e.DescribeCell(board.Cell{X: 2, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, CellLine, info.Kind)
	assert.True(t, info.Matched)

	info, err = e.DescribeCell(board.Cell{X: 2, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, CellFree, info.Kind)
	assert.Nil(t, info.PairID)

	_, err = e.DescribeCell(board.Cell{X: 0, Y: 4})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReset_KeepsBoardAndHistory(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Connect(path([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})))
	_ = e.Connect(path([2]int{0, 0}, [2]int{0, 1}))

	state := e.Reset()

	assert.Equal(t, "test-layout", state.LayoutID)
	assert.Empty(t, state.Connections)
	assert.Equal(t, 0, state.MatchedPairs)
	assert.Len(t, state.MoveHistory, 2)
	assert.Equal(t, 2, state.TotalMoves)
	assert.Empty(t, state.CurrentMoves)
	assert.Equal(t, 0, state.CurrentMovesCount)

	require.NoError(t, e.Connect(path([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})))
	assert.Equal(t, 3, e.GetLastMove().MoveNumber)
	assert.Equal(t, 1, e.GetState().CurrentMovesCount)
}

func TestNewBoard(t *testing.T) {
	e, err := NewEngine(context.Background(), createTestConfig())
	require.NoError(t, err)
	first := e.GetLayout().ID
	require.NoError(t, e.Connect(e.GetSolution()[0]))

	state, err := e.NewBoard(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, state.LayoutID)
	assert.Equal(t, 2, state.BoardNumber)
	assert.Equal(t, 0, state.MatchedPairs)
	assert.Equal(t, 2, state.TotalMoves)
	assert.Equal(t, ActionNewBoard, e.GetLastMove().Action)
	assert.Equal(t, 1, state.CurrentMovesCount)
}

func TestNewBoard_PersistsObstacles(t *testing.T) {
	cfg := createTestConfig()
	cfg.Board.ObstacleCount = 3
	cfg.PersistObstacles = true

	e, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)
	blocked := e.GetLayout().Blocked
	require.Len(t, blocked, 3)

	_, err = e.NewBoard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, blocked, e.GetLayout().Blocked)
	assert.NoError(t, e.GetLayout().Verify())
	assert.Equal(t, 3, cfg.Board.ObstacleCount, "preset is not modified")
}

func TestNewBoard_CancelledKeepsCurrentBoard(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.NewBoard(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "test-layout", e.GetState().LayoutID)
}

func TestPlanAndApplyBoard(t *testing.T) {
	e, err := NewEngine(context.Background(), createTestConfig())
	require.NoError(t, err)
	first := e.GetLayout().ID

	plan, err := e.PlanBoard(context.Background())
	require.NoError(t, err)
	require.NotNil(t, plan.Layout)
	assert.Positive(t, plan.Stats.Attempts)
	assert.Equal(t, first, e.GetLayout().ID, "planning keeps the current board")
	assert.Equal(t, 1, e.GetState().BoardNumber)

	// A second plan from the same board goes stale once the first is applied.
	other, err := e.PlanBoard(context.Background())
	require.NoError(t, err)

	state, err := e.ApplyBoard(plan)
	require.NoError(t, err)
	assert.Equal(t, plan.Layout.ID, state.LayoutID)
	assert.Equal(t, 2, state.BoardNumber)
	assert.Equal(t, plan.Stats, e.LastGenerateStats())

	_, err = e.ApplyBoard(other)
	assert.ErrorIs(t, err, ErrStaleBoard)
	assert.Equal(t, plan.Layout.ID, e.GetLayout().ID)

	_, err = e.ApplyBoard(nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPlanBoard_FailureKeepsStats(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, err := e.PlanBoard(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, plan)
	assert.Nil(t, plan.Layout)
	assert.Equal(t, "test-layout", e.GetLayout().ID)
}

func TestUnvalidatedBoardMessage(t *testing.T) {
	layout := testLayout()
	layout.Validated = false
	layout.Paths = nil

	e, err := NewEngineWithLayout(createTestConfig(), layout)
	require.NoError(t, err)
	assert.Equal(t, e.config.Messages.Unsolvable, e.GetState().Message)
	assert.False(t, e.GetState().Validated)
	assert.Empty(t, e.GetSolution())
}

func TestSetState(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})))

	data, err := json.Marshal(e.GetState())
	require.NoError(t, err)

	restored := newTestEngine(t)
	var state GameState
	require.NoError(t, json.Unmarshal(data, &state))
	require.NoError(t, restored.SetState(&state))

	assert.Equal(t, 1, restored.MatchedPairs())
	assert.True(t, restored.GetState().Matched[1])
	assert.ErrorIs(t, restored.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})), ErrAlreadyMatched)

	other := &GameState{LayoutID: "other", GridSize: 4}
	assert.ErrorIs(t, restored.SetState(other), ErrInvalidState)
	assert.Error(t, restored.SetState(nil))
}

func TestRemainingPairs(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})))

	remaining := RemainingPairs(e.GetState())
	require.Len(t, remaining, 2)
	assert.Equal(t, 0, remaining[0].ID)
	assert.Equal(t, 2, remaining[1].ID)
}

func TestGameState_CloneIsDetached(t *testing.T) {
	e := newTestEngine(t)
	snapshot := e.GetState().Clone()

	require.NoError(t, e.Connect(path([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})))

	assert.Empty(t, snapshot.Connections)
	assert.Empty(t, snapshot.Matched)
	assert.Empty(t, snapshot.MoveHistory)
	assert.Equal(t, 0, snapshot.MatchedPairs)
	assert.Equal(t, 1, e.GetState().MatchedPairs)
}
