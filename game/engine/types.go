package engine

import (
	"maps"
	"slices"

	"github.com/wricardo/janchain/game/board"
)

// Action names recorded in the move history
const (
	ActionConnect    = "connect"
	ActionDisconnect = "disconnect"
	ActionNewBoard   = "new_board"
)

// CellKind classifies a cell for DescribeCell
type CellKind string

const (
	CellFree    CellKind = "free"
	CellBlocked CellKind = "blocked"
	CellTile    CellKind = "tile"
	CellLine    CellKind = "line"
)

// Messages shown to the player, loaded from the preset JSON
type Messages struct {
	Welcome        string `json:"welcome"`
	Connected      string `json:"connected"`
	AlreadyMatched string `json:"already_matched"`
	InvalidPath    string `json:"invalid_path"`
	Disconnected   string `json:"disconnected"`
	Victory        string `json:"victory"`
	Unsolvable     string `json:"unsolvable"`
}

// GameConfig represents a game preset loaded from JSON
type GameConfig struct {
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Board            board.Config `json:"board"`
	PersistObstacles bool         `json:"persist_obstacles"`
	Seed             int64        `json:"seed,omitempty"` // 0 means a fresh random seed per engine
	Messages         Messages     `json:"messages"`
}

// Connection is a line the player drew between the two tiles of a pair
type Connection struct {
	PairID int            `json:"pair_id"`
	Type   board.TileType `json:"type"`
	Path   board.Path     `json:"path"`
}

// CellInfo describes one cell of the current board
type CellInfo struct {
	X       int            `json:"x"`
	Y       int            `json:"y"`
	Kind    CellKind       `json:"kind"`
	Type    board.TileType `json:"type,omitempty"`
	PairID  *int           `json:"pair_id,omitempty"`
	Matched bool           `json:"matched,omitempty"`
}

// GameState represents the player-visible state. The solution paths of the
// board are not part of it.
type GameState struct {
	LayoutID     string             `json:"layout_id"`
	BoardNumber  int                `json:"board_number"`
	GridSize     int                `json:"grid_size"`
	Pairs        []board.Pair       `json:"pairs"`
	Blocked      []board.Cell       `json:"blocked"`
	Validated    bool               `json:"validated"`
	Connections  []Connection       `json:"connections"`
	Matched      map[int]bool       `json:"matched"`
	MatchedPairs int                `json:"matched_pairs"`
	TotalPairs   int                `json:"total_pairs"`
	Message      string             `json:"message"`
	GameOver     bool               `json:"game_over"`
	Victory      bool               `json:"victory"`
	ConfigName   string             `json:"config_name"`
	MoveHistory  []MoveHistoryEntry `json:"move_history"`
	TotalMoves   int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset or new board.
	// MoveHistory stays cumulative for the whole session.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Grid is a rendered helper view: tile letters, '#' for obstacles and
	// lowercase letters along the player's lines.
	Grid []string `json:"grid,omitempty"`
}

// Clone returns a copy that later engine actions do not modify
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	c.Pairs = slices.Clone(gs.Pairs)
	c.Blocked = slices.Clone(gs.Blocked)
	c.Connections = slices.Clone(gs.Connections)
	c.Matched = maps.Clone(gs.Matched)
	c.MoveHistory = slices.Clone(gs.MoveHistory)
	c.CurrentMoves = slices.Clone(gs.CurrentMoves)
	c.Grid = slices.Clone(gs.Grid)
	return &c
}

// MoveHistoryEntry represents a single player action
type MoveHistoryEntry struct {
	Action       string     `json:"action"`
	PairID       int        `json:"pair_id"`
	Path         board.Path `json:"path,omitempty"`
	MatchedPairs int        `json:"matched_pairs"`
	Timestamp    int64      `json:"timestamp"`
	Success      bool       `json:"success"`
	Reason       string     `json:"reason,omitempty"`
	MoveNumber   int        `json:"move_number"`
}
