package board

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// FallbackPolicy selects what Generate does once the attempt budget is spent.
type FallbackPolicy string

const (
	// FallbackBestEffort places pairs on random free cells without routing.
	// The resulting board may not be solvable.
	FallbackBestEffort FallbackPolicy = "best_effort"
	// FallbackAbort returns a *GenerationError.
	FallbackAbort FallbackPolicy = "abort"
)

// Config controls one Generator.
type Config struct {
	GridSize             int            `json:"grid_size"`
	RequestedTypes       int            `json:"requested_types"`
	MaxPlacementAttempts int            `json:"max_placement_attempts"`
	MaxPathsPerPair      int            `json:"max_paths_per_pair"`
	PathSlack            int            `json:"path_slack"`
	ObstacleCount        int            `json:"obstacle_count,omitempty"`
	MaxRouteCandidates   int            `json:"max_route_candidates,omitempty"` // per attempt, 0 is unlimited
	Fallback             FallbackPolicy `json:"fallback,omitempty"`
	TileTypes            []TileType     `json:"tile_types,omitempty"`

	// Blocked lists cells that stay impassable from a previous board.
	Blocked []Cell `json:"blocked,omitempty"`
}

// DefaultConfig returns the stock 8x8 board with six pairs.
func DefaultConfig() Config {
	return Config{
		GridSize:             DefaultGridSize,
		RequestedTypes:       DefaultRequestedTypes,
		MaxPlacementAttempts: DefaultMaxPlacementAttempts,
		MaxPathsPerPair:      DefaultMaxPathsPerPair,
		PathSlack:            DefaultPathSlack,
		Fallback:             FallbackBestEffort,
	}
}

// Validate checks the configuration and returns an error wrapping
// ErrInvalidConfig describing the first problem found.
func (c Config) Validate() error {
	if c.GridSize < MinGridSize || c.GridSize > MaxGridSize {
		return fmt.Errorf("%w: grid_size must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, c.GridSize)
	}
	if c.RequestedTypes < 1 {
		return fmt.Errorf("%w: requested_types must be at least 1, got %d", ErrInvalidConfig, c.RequestedTypes)
	}
	if c.MaxPlacementAttempts < 1 {
		return fmt.Errorf("%w: max_placement_attempts must be at least 1, got %d", ErrInvalidConfig, c.MaxPlacementAttempts)
	}
	if c.MaxPathsPerPair < 1 {
		return fmt.Errorf("%w: max_paths_per_pair must be at least 1, got %d", ErrInvalidConfig, c.MaxPathsPerPair)
	}
	if c.PathSlack < 0 {
		return fmt.Errorf("%w: path_slack cannot be negative, got %d", ErrInvalidConfig, c.PathSlack)
	}
	if c.MaxRouteCandidates < 0 {
		return fmt.Errorf("%w: max_route_candidates cannot be negative, got %d", ErrInvalidConfig, c.MaxRouteCandidates)
	}
	if c.ObstacleCount < 0 || c.ObstacleCount > MaxObstacleCount {
		return fmt.Errorf("%w: obstacle_count must be between 0 and %d, got %d", ErrInvalidConfig, MaxObstacleCount, c.ObstacleCount)
	}
	switch c.Fallback {
	case "", FallbackBestEffort, FallbackAbort:
	default:
		return fmt.Errorf("%w: unknown fallback policy %q", ErrInvalidConfig, c.Fallback)
	}

	seenTypes := mapset.New[TileType]()
	for _, t := range c.TileTypes {
		if t == "" {
			return fmt.Errorf("%w: empty tile type", ErrInvalidConfig)
		}
		if seenTypes.Has(t) {
			return fmt.Errorf("%w: duplicate tile type %q", ErrInvalidConfig, t)
		}
		seenTypes.Put(t)
	}

	g := NewGrid(c.GridSize)
	for _, b := range c.Blocked {
		if !g.InBounds(b) {
			return fmt.Errorf("%w: blocked cell %s is outside the %dx%d grid", ErrInvalidConfig, b, c.GridSize, c.GridSize)
		}
	}
	return nil
}

func (c Config) tileTypes() []TileType {
	if len(c.TileTypes) == 0 {
		return DefaultTileTypes
	}
	return c.TileTypes
}

func (c Config) fallback() FallbackPolicy {
	if c.Fallback == "" {
		return FallbackBestEffort
	}
	return c.Fallback
}

// GenerationError reports that no routable placement was found.
type GenerationError struct {
	Attempts int
	GridSize int
	Pairs    int
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("board: %d pairs on %dx%d not routable after %d attempts", e.Pairs, e.GridSize, e.GridSize, e.Attempts)
}

func (e *GenerationError) Unwrap() error {
	return ErrGenerationExhausted
}

// GenerateStats describes the last Generate call.
type GenerateStats struct {
	Attempts      int           `json:"attempts"`
	Skipped       int           `json:"skipped"`
	Candidates    int           `json:"candidates"`
	Backtracks    int           `json:"backtracks"`
	BudgetCutoffs int           `json:"budget_cutoffs"` // attempts abandoned on max_route_candidates
	Fallback      bool          `json:"fallback"`
	Duration      time.Duration `json:"duration"`
}

// NewSeededRand returns a random source for a Generator. A zero seed is
// replaced by the current time.
func NewSeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Generator produces board layouts. It is not safe for concurrent use.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	stats GenerateStats
}

// NewGenerator validates cfg and returns a generator drawing from rng. A nil
// rng is replaced by a time seeded source.
func NewGenerator(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSeededRand(0)
	}
	return &Generator{cfg: cfg, rng: rng}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Stats returns counters for the last Generate call.
func (g *Generator) Stats() GenerateStats {
	return g.stats
}

// Generate samples random placements until one can be routed, then places
// obstacles. See the package documentation for the failure policy.
func (g *Generator) Generate(ctx context.Context) (*Layout, error) {
	start := time.Now()
	g.stats = GenerateStats{}
	defer func() { g.stats.Duration = time.Since(start) }()

	types := g.pickTypes()

	for attempt := 1; attempt <= g.cfg.MaxPlacementAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.stats.Attempts = attempt

		free := g.freeCells()
		if len(free) < 2*len(types) {
			g.stats.Skipped++
			continue
		}

		pairs := g.samplePairs(free, types)
		grid := g.baseGrid()
		for _, p := range pairs {
			grid.MarkTile(p.A)
			grid.MarkTile(p.B)
		}

		router := NewRouter(grid, g.cfg.MaxPathsPerPair, g.cfg.PathSlack).WithBudget(g.cfg.MaxRouteCandidates)
		paths, ok := router.Route(ctx, pairs)
		rs := router.Stats()
		g.stats.Candidates += rs.Candidates
		g.stats.Backtracks += rs.Backtracks
		if rs.Exhausted {
			g.stats.BudgetCutoffs++
		}
		if !ok {
			continue
		}

		return g.commit(grid, pairs, paths, attempt), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exhausted := &GenerationError{
		Attempts: g.stats.Attempts,
		GridSize: g.cfg.GridSize,
		Pairs:    len(types),
	}
	if g.cfg.fallback() == FallbackAbort {
		return nil, exhausted
	}

	layout, err := g.FallbackPlace()
	if err != nil {
		return nil, errors.Join(exhausted, err)
	}
	layout.Attempts = g.stats.Attempts
	g.stats.Fallback = true
	return layout, nil
}

// FallbackPlace puts the configured number of pairs on random free cells
// without routing them. It fails with ErrInsufficientCells when the grid is
// too small.
func (g *Generator) FallbackPlace() (*Layout, error) {
	types := g.pickTypes()
	free := g.freeCells()
	if len(free) < 2*len(types) {
		return nil, fmt.Errorf("%w: need %d cells, have %d", ErrInsufficientCells, 2*len(types), len(free))
	}

	return g.newLayout(g.samplePairs(free, types), nil, g.preBlocked(), false), nil
}

// pickTypes shuffles the alphabet and takes min(requested, available).
func (g *Generator) pickTypes() []TileType {
	all := append([]TileType(nil), g.cfg.tileTypes()...)
	g.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:min(g.cfg.RequestedTypes, len(all))]
}

func (g *Generator) preBlocked() mapset.Set[Cell] {
	blocked := mapset.New[Cell]()
	for _, c := range g.cfg.Blocked {
		blocked.Put(c)
	}
	return blocked
}

func (g *Generator) baseGrid() *Grid {
	grid := NewGrid(g.cfg.GridSize)
	for _, c := range g.cfg.Blocked {
		grid.Block(c)
	}
	return grid
}

func (g *Generator) freeCells() []Cell {
	blocked := g.preBlocked()
	grid := NewGrid(g.cfg.GridSize)
	free := make([]Cell, 0, g.cfg.GridSize*g.cfg.GridSize)
	for _, c := range grid.Cells() {
		if !blocked.Has(c) {
			free = append(free, c)
		}
	}
	return free
}

// samplePairs draws 2*len(types) distinct cells and pairs them at random.
func (g *Generator) samplePairs(free []Cell, types []TileType) []Pair {
	g.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	picked := append([]Cell(nil), free[:2*len(types)]...)
	g.rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })

	pairs := make([]Pair, len(types))
	for i, t := range types {
		pairs[i] = Pair{ID: i, A: picked[2*i], B: picked[2*i+1], Type: t}
	}
	return pairs
}

// commit turns a routed attempt into a Layout and runs the obstacle phase.
func (g *Generator) commit(grid *Grid, pairs []Pair, paths []Path, attempt int) *Layout {
	byPair := make(map[int]Path, len(pairs))
	for i, p := range pairs {
		byPair[p.ID] = paths[i]
	}

	blocked := g.preBlocked()
	for _, c := range g.placeObstacles(grid) {
		blocked.Put(c)
	}

	layout := g.newLayout(pairs, byPair, blocked, true)
	layout.Attempts = attempt
	return layout
}

// placeObstacles blocks up to ObstacleCount cells that are neither
// endpoints, path interior nor already blocked.
func (g *Generator) placeObstacles(grid *Grid) []Cell {
	if g.cfg.ObstacleCount == 0 {
		return nil
	}

	var eligible []Cell
	for _, c := range grid.Cells() {
		if grid.Passable(c) {
			eligible = append(eligible, c)
		}
	}
	g.rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })

	k := min(g.cfg.ObstacleCount, len(eligible))
	placed := eligible[:k]
	for _, c := range placed {
		grid.Block(c)
	}
	return placed
}

func (g *Generator) newLayout(pairs []Pair, paths map[int]Path, blocked mapset.Set[Cell], validated bool) *Layout {
	// Row-major order keeps Blocked stable across runs with the same seed.
	var cells []Cell
	grid := NewGrid(g.cfg.GridSize)
	for _, c := range grid.Cells() {
		if blocked.Has(c) {
			cells = append(cells, c)
		}
	}

	return &Layout{
		ID:        uuid.New().String(),
		GridSize:  g.cfg.GridSize,
		Pairs:     pairs,
		Paths:     paths,
		Blocked:   cells,
		Validated: validated,
		CreatedAt: time.Now(),
	}
}
