package service

import (
	"time"

	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ConnectResult contains the result of a connect or disconnect operation.
// A rejected line is not an error: Success is false and Reason says why.
type ConnectResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Reason    string            `json:"reason,omitempty"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// DisconnectRequest selects the line to remove, either by pair or by any
// cell the line covers.
type DisconnectRequest struct {
	PairID *int        `json:"pair_id,omitempty"`
	Cell   *board.Cell `json:"cell,omitempty"`
}

// BoardResult is returned after a new board has been generated for a session
type BoardResult struct {
	GameState *engine.GameState   `json:"game_state"`
	Stats     board.GenerateStats `json:"stats"`
	Events    []GameEvent         `json:"events,omitempty"`
}

// SolutionResponse holds the committed paths of a session's current board
type SolutionResponse struct {
	LayoutID  string             `json:"layout_id"`
	Validated bool               `json:"validated"`
	Paths     map[int]board.Path `json:"paths"`
	Grid      []string           `json:"grid"`
}

// GenerateRequest asks for a standalone board. Preset, when set, supplies the
// board settings; zero-valued fields of Board fall back to the defaults.
type GenerateRequest struct {
	Preset    string       `json:"preset,omitempty"`
	Board     board.Config `json:"board"`
	Seed      int64        `json:"seed,omitempty"`
	ShowPaths bool         `json:"show_paths,omitempty"`
}

// GenerateResult is a board produced outside of any session
type GenerateResult struct {
	Layout *board.Layout       `json:"layout"`
	Grid   []string            `json:"grid"`
	Stats  board.GenerateStats `json:"stats"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "connected", "rejected", "disconnected", "victory", "reset", "board_generated"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	PairID    *int      `json:"pair_id,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a preset
type ConfigInfo struct {
	Filename         string `json:"filename"`
	ConfigID         string `json:"config_id"` // The identifier to use for session creation
	Name             string `json:"name"`      // Display name
	Description      string `json:"description"`
	GridSize         int    `json:"grid_size"`
	Pairs            int    `json:"pairs"`
	ObstacleCount    int    `json:"obstacle_count"`
	PersistObstacles bool   `json:"persist_obstacles"`
	Fallback         string `json:"fallback"`
}
