package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/config"
)

// boardReport is one generated board as printed by generate --format json
type boardReport struct {
	Seed   int64               `json:"seed"`
	Layout *board.Layout       `json:"layout,omitempty"`
	Grid   []string            `json:"grid,omitempty"`
	Stats  board.GenerateStats `json:"stats"`
	Error  string              `json:"error,omitempty"`
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate boards from a preset or from explicit settings",
		Flags: []cli.Flag{
			configDirFlag(),
			&cli.StringFlag{Name: "preset", Usage: "preset ID to take the board settings from"},
			&cli.IntFlag{Name: "size", Usage: "grid width and height"},
			&cli.IntFlag{Name: "pairs", Usage: "number of pairs"},
			&cli.IntFlag{Name: "obstacles", Usage: "obstacles placed after routing"},
			&cli.IntFlag{Name: "attempts", Usage: "placement attempts before the fallback policy applies"},
			&cli.IntFlag{Name: "paths", Usage: "candidate paths kept per pair"},
			&cli.IntFlag{Name: "slack", Usage: "extra steps allowed over the shortest distance"},
			&cli.IntFlag{Name: "route-budget", Usage: "candidate paths tried per attempt, 0 for no limit"},
			&cli.StringFlag{Name: "fallback", Usage: "best_effort or abort"},
			&cli.IntFlag{Name: "seed", Usage: "seed of the first board, following boards use seed+1, seed+2..."},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of boards"},
			&cli.StringFlag{Name: "format", Value: "ascii", Usage: "ascii or json"},
			&cli.BoolFlag{Name: "show-paths", Usage: "draw the solution paths"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "time limit per board"},
		},
		Action: runGenerate,
	}
}

// boardConfig resolves the generator settings: the preset (or the defaults)
// overridden by any flag set on the command line.
func boardConfig(cmd *cli.Command) (board.Config, int64, error) {
	cfg := board.DefaultConfig()
	var seed int64

	if id := cmd.String("preset"); id != "" {
		manager, err := config.NewManager(cmd.String("config-dir"))
		if err != nil {
			return cfg, 0, err
		}
		preset, err := manager.LoadConfig(id)
		if err != nil {
			return cfg, 0, err
		}
		cfg = preset.Board
		cfg.Blocked = nil
		seed = preset.Seed
	}

	if cmd.IsSet("size") {
		cfg.GridSize = int(cmd.Int("size"))
	}
	if cmd.IsSet("pairs") {
		cfg.RequestedTypes = int(cmd.Int("pairs"))
	}
	if cmd.IsSet("obstacles") {
		cfg.ObstacleCount = int(cmd.Int("obstacles"))
	}
	if cmd.IsSet("attempts") {
		cfg.MaxPlacementAttempts = int(cmd.Int("attempts"))
	}
	if cmd.IsSet("paths") {
		cfg.MaxPathsPerPair = int(cmd.Int("paths"))
	}
	if cmd.IsSet("slack") {
		cfg.PathSlack = int(cmd.Int("slack"))
	}
	if cmd.IsSet("route-budget") {
		cfg.MaxRouteCandidates = int(cmd.Int("route-budget"))
	}
	if cmd.IsSet("fallback") {
		cfg.Fallback = board.FallbackPolicy(cmd.String("fallback"))
	}
	if cmd.IsSet("seed") {
		seed = int64(cmd.Int("seed"))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, 0, err
	}
	return cfg, seed, nil
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, seed, err := boardConfig(cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if format != "ascii" && format != "json" {
		return fmt.Errorf("unknown format %q, use ascii or json", format)
	}

	count := int(cmd.Int("count"))
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	reports := make([]boardReport, 0, count)
	for i := 0; i < count; i++ {
		s := seed
		if s != 0 {
			s += int64(i)
		}
		reports = append(reports, generateOne(ctx, cfg, s, cmd.Duration("timeout"), cmd.Bool("show-paths")))
	}

	out := cmd.Root().Writer
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for i, r := range reports {
		printASCII(out, i+1, r)
	}
	printSummary(out, summarize(reports))
	return nil
}

func generateOne(ctx context.Context, cfg board.Config, seed int64, timeout time.Duration, showPaths bool) boardReport {
	report := boardReport{Seed: seed}

	gen, err := board.NewGenerator(cfg, board.NewSeededRand(seed))
	if err != nil {
		report.Error = err.Error()
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	layout, err := gen.Generate(ctx)
	report.Stats = gen.Stats()
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Layout = layout
	report.Grid = layout.Render(showPaths)
	return report
}

func printASCII(w io.Writer, n int, r boardReport) {
	fmt.Fprintf(w, "Board %d", n)
	if r.Seed != 0 {
		fmt.Fprintf(w, " (seed %d)", r.Seed)
	}
	fmt.Fprintln(w)

	if r.Error != "" {
		fmt.Fprintf(w, "  failed after %d attempts: %s\n\n", r.Stats.Attempts, r.Error)
		return
	}

	status := "verified"
	if !r.Layout.Validated {
		status = "fallback, not verified"
	}
	fmt.Fprintf(w, "  %dx%d, %d pairs, %d obstacles, %d attempts, %s\n",
		r.Layout.GridSize, r.Layout.GridSize, len(r.Layout.Pairs), len(r.Layout.Blocked), r.Stats.Attempts, status)
	for _, row := range r.Grid {
		fmt.Fprintf(w, "  %s\n", row)
	}
	fmt.Fprintln(w)
}
