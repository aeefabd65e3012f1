// Package engine provides the play rules for Jan Chain.
//
// The engine wraps a board.Layout produced by the board package and tracks
// the lines the player draws on it:
//   - Connecting the two tiles of a pair with an orthogonal line
//   - Rejecting lines that cross obstacles, other tiles or other lines
//   - Removing a line by pair or by any cell it covers
//   - Victory once every pair is connected
//   - Resetting the lines or generating a fresh board
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is what the player sees (the solution
// paths stay inside the layout), while GameConfig is a preset loaded from
// JSON that carries the board.Config used for generation.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(ctx, config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pair := gameEngine.GetState().Pairs[0]
//	err = gameEngine.Connect(board.Path{pair.A, ..., pair.B})
//
// Game Rules:
//
// A line starts on a tile and ends on the matching tile, stepping one cell up,
// down, left or right at a time. It may not revisit a cell. Every pair on a
// validated board is known to have a non-crossing solution; boards from the
// best-effort fallback carry Validated=false and may not.
package engine
