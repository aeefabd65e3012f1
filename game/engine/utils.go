package engine

import (
	"fmt"
	"strings"

	"github.com/wricardo/janchain/game/board"
)

// RenderGrid draws the board with the player's lines: uppercase tile letters
// at endpoints, '#' for obstacles, lowercase letters along connected lines
// and '.' for free cells.
func RenderGrid(layout *board.Layout, connections []Connection) []string {
	rows := layout.Render(false)
	if len(connections) == 0 {
		return rows
	}

	cells := make([][]byte, len(rows))
	for y, r := range rows {
		cells[y] = []byte(r)
	}
	for _, conn := range connections {
		mark := byte('*')
		if len(conn.Type) > 0 {
			mark = strings.ToLower(string(conn.Type))[0]
		}
		for _, c := range conn.Path.Interior() {
			cells[c.Y][c.X] = mark
		}
	}

	for y := range cells {
		rows[y] = string(cells[y])
	}
	return rows
}

// RemainingPairs lists the pairs that have no line yet
func RemainingPairs(state *GameState) []board.Pair {
	var out []board.Pair
	for _, p := range state.Pairs {
		if !state.Matched[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// formatMessage applies args only when the template asks for them.
func formatMessage(tmpl string, args ...any) string {
	if !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
