package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/janchain/game/board"
	"github.com/zyedidia/generic/mapset"
)

// noPair is recorded in history when a line does not start on a tile.
const noPair = -1

// CanConnect reports why path would be rejected by Connect, or nil.
func (e *GameEngine) CanConnect(path board.Path) error {
	_, err := e.checkConnect(path)
	return err
}

// Connect commits a player line between the two tiles of a pair. The line
// must start and end on the two tiles of one unconnected pair, step between
// orthogonal neighbors, and never touch an obstacle, another tile or another
// line. Every attempt is recorded in the history.
func (e *GameEngine) Connect(path board.Path) error {
	pair, err := e.checkConnect(path)
	if err != nil {
		e.state.Message = e.rejectMessage(err)
		e.state.AddMoveToHistory(ActionConnect, pair.ID, path, false, err.Error())
		return err
	}

	e.state.Connections = append(e.state.Connections, Connection{
		PairID: pair.ID,
		Type:   pair.Type,
		Path:   path.Clone(),
	})
	e.state.Matched[pair.ID] = true
	e.state.MatchedPairs++
	e.state.Message = formatMessage(e.config.Messages.Connected, pair.Type)

	if e.state.MatchedPairs >= e.state.TotalPairs {
		e.state.Victory = true
		e.state.GameOver = true
		e.state.Message = fmt.Sprintf(e.config.Messages.Victory, e.state.TotalPairs)
	}

	e.state.AddMoveToHistory(ActionConnect, pair.ID, path, true, "")
	e.state.Grid = RenderGrid(e.layout, e.state.Connections)
	return nil
}

func (e *GameEngine) checkConnect(path board.Path) (board.Pair, error) {
	unknown := board.Pair{ID: noPair}

	if e.state.GameOver {
		return unknown, ErrGameOver
	}
	if len(path) < 2 {
		return unknown, fmt.Errorf("%w: a line needs at least two cells", ErrInvalidPath)
	}
	for _, c := range path {
		if !e.layout.InBounds(c) {
			return unknown, fmt.Errorf("%w: %s is outside the board", ErrInvalidPath, c)
		}
	}
	if err := path.Validate(); err != nil {
		return unknown, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	start, end := path[0], path[len(path)-1]
	pair, ok := e.layout.PairAt(start)
	if !ok {
		return unknown, fmt.Errorf("%w: line must start on a tile, %s is empty", ErrInvalidPath, start)
	}
	endPair, ok := e.layout.PairAt(end)
	if !ok {
		return pair, fmt.Errorf("%w: line must end on a tile, %s is empty", ErrInvalidPath, end)
	}
	if endPair.ID != pair.ID {
		return pair, fmt.Errorf("%w: tiles %s and %s do not match", ErrInvalidPath, pair.Type, endPair.Type)
	}
	if e.state.Matched[pair.ID] {
		return pair, fmt.Errorf("%w: %s", ErrAlreadyMatched, pair.Type)
	}

	lines := e.lineCells()
	for _, c := range path.Interior() {
		if e.layout.IsBlocked(c) {
			return pair, fmt.Errorf("%w: obstacle at %s", ErrInvalidPath, c)
		}
		if other, ok := e.layout.PairAt(c); ok {
			return pair, fmt.Errorf("%w: tile %s at %s is in the way", ErrInvalidPath, other.Type, c)
		}
		if lines.Has(c) {
			return pair, fmt.Errorf("%w: crosses an existing line at %s", ErrInvalidPath, c)
		}
	}

	return pair, nil
}

// Disconnect removes the line of a connected pair.
func (e *GameEngine) Disconnect(pairID int) error {
	err := e.disconnect(pairID)
	if err != nil {
		e.state.AddMoveToHistory(ActionDisconnect, pairID, nil, false, err.Error())
		return err
	}
	e.state.Message = e.config.Messages.Disconnected
	e.state.AddMoveToHistory(ActionDisconnect, pairID, nil, true, "")
	e.state.Grid = RenderGrid(e.layout, e.state.Connections)
	return nil
}

func (e *GameEngine) disconnect(pairID int) error {
	if e.state.GameOver {
		return ErrGameOver
	}
	if _, ok := e.layout.Pair(pairID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPair, pairID)
	}
	if !e.state.Matched[pairID] {
		return fmt.Errorf("%w: %d", ErrNotMatched, pairID)
	}

	for i, conn := range e.state.Connections {
		if conn.PairID == pairID {
			e.state.Connections = append(e.state.Connections[:i:i], e.state.Connections[i+1:]...)
			break
		}
	}
	delete(e.state.Matched, pairID)
	e.state.MatchedPairs--
	return nil
}

// DisconnectAt removes the line passing through cell, including lines that
// end on it.
func (e *GameEngine) DisconnectAt(cell board.Cell) error {
	if !e.layout.InBounds(cell) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, cell)
	}
	for _, conn := range e.state.Connections {
		for _, c := range conn.Path {
			if c == cell {
				return e.Disconnect(conn.PairID)
			}
		}
	}
	return fmt.Errorf("%w: no line at %s", ErrNotMatched, cell)
}

// DescribeCell reports what occupies a cell of the current board.
func (e *GameEngine) DescribeCell(cell board.Cell) (CellInfo, error) {
	info := CellInfo{X: cell.X, Y: cell.Y, Kind: CellFree}
	if !e.layout.InBounds(cell) {
		return info, fmt.Errorf("%w: %s", ErrOutOfBounds, cell)
	}

	if e.layout.IsBlocked(cell) {
		info.Kind = CellBlocked
		return info, nil
	}
	if pair, ok := e.layout.PairAt(cell); ok {
		id := pair.ID
		info.Kind = CellTile
		info.Type = pair.Type
		info.PairID = &id
		info.Matched = e.state.Matched[id]
		return info, nil
	}
	for _, conn := range e.state.Connections {
		for _, c := range conn.Path.Interior() {
			if c == cell {
				id := conn.PairID
				info.Kind = CellLine
				info.Type = conn.Type
				info.PairID = &id
				info.Matched = true
				return info, nil
			}
		}
	}
	return info, nil
}

// lineCells collects the interior cells of every committed line.
func (e *GameEngine) lineCells() mapset.Set[board.Cell] {
	cells := mapset.New[board.Cell]()
	for _, conn := range e.state.Connections {
		for _, c := range conn.Path.Interior() {
			cells.Put(c)
		}
	}
	return cells
}

func (e *GameEngine) rejectMessage(err error) string {
	msgs := e.config.Messages
	switch {
	case errors.Is(err, ErrAlreadyMatched) && msgs.AlreadyMatched != "":
		return msgs.AlreadyMatched
	case errors.Is(err, ErrInvalidPath) && msgs.InvalidPath != "":
		return msgs.InvalidPath + " [" + err.Error() + "]"
	default:
		return err.Error()
	}
}

// AddMoveToHistory adds an action to the game's move history
func (gs *GameState) AddMoveToHistory(action string, pairID int, path board.Path, success bool, reason string) {
	entry := MoveHistoryEntry{
		Action:       action,
		PairID:       pairID,
		Path:         path.Clone(),
		MatchedPairs: gs.MatchedPairs,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		Reason:       reason,
		MoveNumber:   gs.TotalMoves + 1,
	}
	if len(path) == 0 {
		entry.Path = nil
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
