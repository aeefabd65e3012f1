package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/wricardo/janchain/game/board"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	NewBoard(ctx context.Context) (*GameState, error)
	IsGameOver() bool
	IsVictory() bool
	MatchedPairs() int
	TotalPairs() int

	// Lines
	Connect(path board.Path) error
	CanConnect(path board.Path) error
	Disconnect(pairID int) error
	DisconnectAt(cell board.Cell) error
	DescribeCell(cell board.Cell) (CellInfo, error)

	// Board and configuration
	GetLayout() *board.Layout
	GetSolution() map[int]board.Path
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; the service layer serializes access. PlanBoard is the exception: it
// only reads the current board and may run alongside the other methods.
type GameEngine struct {
	config *GameConfig
	layout *board.Layout
	state  *GameState
	stats  board.GenerateStats

	genMu sync.Mutex // guards rng and the planning read of layout
	rng   *rand.Rand
}

// BoardPlan is a generated board that has not replaced the current one yet.
type BoardPlan struct {
	Layout *board.Layout
	Stats  board.GenerateStats
	base   string
}

// NewEngine validates the config and generates the first board
func NewEngine(ctx context.Context, config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		rng:    board.NewSeededRand(config.Seed),
	}

	layout, stats, err := e.generate(ctx, nil)
	e.stats = stats
	if err != nil {
		return nil, err
	}
	e.layout = layout
	e.state = InitGameState(config, layout, 1)

	return e, nil
}

// NewEngineWithLayout creates an engine around an existing board, used when
// restoring a persisted session.
func NewEngineWithLayout(config *GameConfig, layout *board.Layout) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, fmt.Errorf("%w: layout is nil", ErrInvalidState)
	}
	if err := layout.Verify(); err != nil {
		return nil, err
	}

	return &GameEngine{
		config: config,
		layout: layout,
		rng:    board.NewSeededRand(config.Seed),
		state:  InitGameState(config, layout, 1),
	}, nil
}

func (e *GameEngine) generate(ctx context.Context, carried []board.Cell) (*board.Layout, board.GenerateStats, error) {
	gen, err := board.NewGenerator(boardConfigFor(e.config, carried), e.rng)
	if err != nil {
		return nil, board.GenerateStats{}, err
	}
	layout, err := gen.Generate(ctx)
	return layout, gen.Stats(), err
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state (used for persistence loading). The state
// must belong to the engine's current board.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.LayoutID != e.layout.ID || state.GridSize != e.layout.GridSize {
		return fmt.Errorf("%w: layout %q, state references %q", ErrInvalidState, e.layout.ID, state.LayoutID)
	}

	if state.Matched == nil {
		state.Matched = make(map[int]bool)
	}
	for _, conn := range state.Connections {
		if _, ok := e.layout.Pair(conn.PairID); !ok {
			return fmt.Errorf("%w: connection for unknown pair %d", ErrInvalidState, conn.PairID)
		}
		state.Matched[conn.PairID] = true
	}
	state.MatchedPairs = len(state.Connections)
	state.TotalPairs = len(e.layout.Pairs)
	state.Grid = RenderGrid(e.layout, state.Connections)

	e.state = state
	return nil
}

// Reset clears every line but keeps the board
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves
	boardNumber := e.state.BoardNumber

	e.state = InitGameState(e.config, e.layout, boardNumber)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// NewBoard generates a fresh board. With persist_obstacles the obstacles of
// the current board are carried over. On failure the current board and state
// are left untouched.
func (e *GameEngine) NewBoard(ctx context.Context) (*GameState, error) {
	plan, err := e.PlanBoard(ctx)
	if err != nil {
		e.stats = plan.Stats
		return nil, err
	}
	return e.ApplyBoard(plan)
}

// PlanBoard generates the next board without changing the current one. The
// returned plan carries the generator stats even when err is non-nil.
func (e *GameEngine) PlanBoard(ctx context.Context) (*BoardPlan, error) {
	e.genMu.Lock()
	defer e.genMu.Unlock()

	base := e.layout
	layout, stats, err := e.generate(ctx, base.Blocked)
	return &BoardPlan{Layout: layout, Stats: stats, base: base.ID}, err
}

// ApplyBoard replaces the current board with a planned one. A plan made from
// a board that has since been replaced is rejected with ErrStaleBoard.
func (e *GameEngine) ApplyBoard(plan *BoardPlan) (*GameState, error) {
	if plan == nil || plan.Layout == nil {
		return nil, fmt.Errorf("%w: empty board plan", ErrInvalidState)
	}

	e.genMu.Lock()
	defer e.genMu.Unlock()
	if plan.base != e.layout.ID {
		return nil, fmt.Errorf("%w: planned from %s, current board is %s", ErrStaleBoard, plan.base, e.layout.ID)
	}

	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves
	boardNumber := e.state.BoardNumber + 1

	e.layout = plan.Layout
	e.stats = plan.Stats
	e.state = InitGameState(e.config, plan.Layout, boardNumber)
	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.AddMoveToHistory(ActionNewBoard, -1, nil, true, "")

	return e.state, nil
}

// LastGenerateStats reports the generator counters of the most recent board
func (e *GameEngine) LastGenerateStats() board.GenerateStats {
	return e.stats
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsVictory returns whether every pair is connected
func (e *GameEngine) IsVictory() bool {
	return e.state.Victory
}

func (e *GameEngine) MatchedPairs() int {
	return e.state.MatchedPairs
}

func (e *GameEngine) TotalPairs() int {
	return e.state.TotalPairs
}

// GetLayout returns the current board including its solution
func (e *GameEngine) GetLayout() *board.Layout {
	return e.layout
}

// GetSolution returns the committed paths of the current board. It is empty
// for boards produced by the best-effort fallback.
func (e *GameEngine) GetSolution() map[int]board.Path {
	return e.layout.Paths
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// InitGameState creates a fresh state for a board
func InitGameState(config *GameConfig, layout *board.Layout, boardNumber int) *GameState {
	message := config.Messages.Welcome
	if !layout.Validated && config.Messages.Unsolvable != "" {
		message = config.Messages.Unsolvable
	}

	return &GameState{
		LayoutID:          layout.ID,
		BoardNumber:       boardNumber,
		GridSize:          layout.GridSize,
		Pairs:             layout.Pairs,
		Blocked:           layout.Blocked,
		Validated:         layout.Validated,
		Connections:       []Connection{},
		Matched:           make(map[int]bool),
		MatchedPairs:      0,
		TotalPairs:        len(layout.Pairs),
		Message:           message,
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		TotalMoves:        0,
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
		Grid:              RenderGrid(layout, nil),
	}
}
