// Package board generates Jan Chain boards: pairs of matching tiles on a
// square grid together with one vertex-disjoint path per pair, so every
// generated board is known to be solvable.
//
// The package is built from small layers:
//   - Grid tracks which cells hold a tile endpoint, a committed path or a
//     permanent obstacle
//   - ShortestDistance is a BFS distance oracle over the current Grid
//   - EnumeratePaths lists near-shortest simple paths between two cells
//   - Router assigns one path per pair with backtracking
//   - Generator samples random placements until Router succeeds
//
// Usage:
//
//	cfg := board.DefaultConfig()
//	gen, err := board.NewGenerator(cfg, board.NewSeededRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layout, err := gen.Generate(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(strings.Join(layout.Render(false), "\n"))
//
// Search:
//
// Generation is single-threaded and synchronous. The context passed to
// Generate is checked between placement attempts and at every level of the
// routing recursion; a cancelled call returns the context error and leaves no
// partial state behind. Config.MaxRouteCandidates caps the candidates one
// attempt may try, so a placement with a huge search tree is dropped early
// instead of stalling the whole call. A Generator owns its random source and
// must not be shared between goroutines.
//
// Failure:
//
// An unreachable pair or a failed routing attempt is an ordinary outcome and
// triggers another attempt. Only exhausting the attempt budget is surfaced:
// with FallbackAbort it is returned as a *GenerationError, with
// FallbackBestEffort the caller receives an unvalidated random placement
// whose Validated flag is false.
package board
