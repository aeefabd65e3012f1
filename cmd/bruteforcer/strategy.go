package main

import (
	"context"

	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/engine"
)

// RouteStrategy solves a board on the client side from what the server
// exposes in the game state: the pair endpoints and the blocked cells.
type RouteStrategy struct {
	maxPaths int
	slack    int

	lastStats board.RouteStats
}

// NewRouteStrategy returns a strategy starting at the given search budgets.
func NewRouteStrategy(maxPaths, slack int) *RouteStrategy {
	if maxPaths <= 0 {
		maxPaths = board.DefaultMaxPathsPerPair
	}
	if slack < 0 {
		slack = 0
	}
	return &RouteStrategy{maxPaths: maxPaths, slack: slack}
}

// Budgets returns the current per-pair path cap and slack.
func (s *RouteStrategy) Budgets() (int, int) {
	return s.maxPaths, s.slack
}

// LastStats returns the router counters of the last Solve call.
func (s *RouteStrategy) LastStats() board.RouteStats {
	return s.lastStats
}

// Escalate widens the search after a failed attempt.
func (s *RouteStrategy) Escalate() {
	s.maxPaths *= 2
	s.slack++
}

// Solve returns one path per pair in the order of state.Pairs.
func (s *RouteStrategy) Solve(ctx context.Context, state *engine.GameState) ([]board.Path, bool) {
	grid := gridFromState(state)
	router := board.NewRouter(grid, s.maxPaths, s.slack)
	paths, ok := router.Route(ctx, state.Pairs)
	s.lastStats = router.Stats()
	return paths, ok
}

func gridFromState(state *engine.GameState) *board.Grid {
	grid := board.NewGrid(state.GridSize)
	for _, c := range state.Blocked {
		grid.Block(c)
	}
	for _, p := range state.Pairs {
		grid.MarkTile(p.A)
		grid.MarkTile(p.B)
	}
	return grid
}
