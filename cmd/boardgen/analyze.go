package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/janchain/game/config"
)

// batchSummary aggregates a batch of generated boards.
type batchSummary struct {
	Boards       int
	Failed       int
	Fallbacks    int
	Attempts     int
	MaxAttempts  int
	Candidates   int
	Backtracks   int
	Cutoffs      int
	PathCells    int
	Paths        int
	LongestPath  int
	TotalElapsed time.Duration
}

func (s batchSummary) fallbackRate() float64 {
	if s.Boards == 0 {
		return 0
	}
	return float64(s.Fallbacks) / float64(s.Boards)
}

func (s batchSummary) meanAttempts() float64 {
	if s.Boards == 0 {
		return 0
	}
	return float64(s.Attempts) / float64(s.Boards)
}

func (s batchSummary) meanPathLength() float64 {
	if s.Paths == 0 {
		return 0
	}
	return float64(s.PathCells) / float64(s.Paths)
}

func summarize(reports []boardReport) batchSummary {
	var s batchSummary
	for _, r := range reports {
		s.Boards++
		s.Attempts += r.Stats.Attempts
		s.MaxAttempts = max(s.MaxAttempts, r.Stats.Attempts)
		s.Candidates += r.Stats.Candidates
		s.Backtracks += r.Stats.Backtracks
		s.Cutoffs += r.Stats.BudgetCutoffs
		s.TotalElapsed += r.Stats.Duration

		if r.Error != "" {
			s.Failed++
			continue
		}
		if r.Stats.Fallback {
			s.Fallbacks++
		}
		for _, p := range r.Layout.Paths {
			s.Paths++
			s.PathCells += len(p)
			s.LongestPath = max(s.LongestPath, len(p))
		}
	}
	return s
}

func printSummary(w io.Writer, s batchSummary) {
	fmt.Fprintf(w, "Boards: %d, failed: %d, fallback rate: %.0f%%\n", s.Boards, s.Failed, 100*s.fallbackRate())
	fmt.Fprintf(w, "Attempts: mean %.1f, max %d\n", s.meanAttempts(), s.MaxAttempts)
	fmt.Fprintf(w, "Search: %d candidates, %d backtracks, %d budget cutoffs\n", s.Candidates, s.Backtracks, s.Cutoffs)
	if s.Paths > 0 {
		fmt.Fprintf(w, "Lines: mean %.1f cells, longest %d\n", s.meanPathLength(), s.LongestPath)
	}
	fmt.Fprintf(w, "Time: %s\n", s.TotalElapsed.Round(time.Millisecond))
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "generate a batch of boards per preset and report how hard they are to build",
		Flags: []cli.Flag{
			configDirFlag(),
			&cli.IntFlag{Name: "boards", Value: 20, Usage: "boards generated per preset"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "seed of the first board of every batch"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "time limit per board"},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	presets, err := manager.ListConfigs()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		return fmt.Errorf("no valid presets in %s", manager.Dir())
	}

	boards := int(cmd.Int("boards"))
	seed := int64(cmd.Int("seed"))
	out := cmd.Root().Writer

	for _, info := range presets {
		preset, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(out, "\n=== %s ===\nError: %v\n", info.Filename, err)
			continue
		}
		cfg := preset.Board
		cfg.Blocked = nil

		reports := make([]boardReport, 0, boards)
		for i := 0; i < boards; i++ {
			reports = append(reports, generateOne(ctx, cfg, seed+int64(i), cmd.Duration("timeout"), false))
		}

		s := summarize(reports)
		fmt.Fprintf(out, "\n=== %s ===\n", info.Filename)
		fmt.Fprintf(out, "Name: %s\n", preset.Name)
		fmt.Fprintf(out, "Grid: %dx%d, pairs: %d, obstacles: %d, fallback: %s\n",
			cfg.GridSize, cfg.GridSize, cfg.RequestedTypes, cfg.ObstacleCount, cfg.Fallback)
		printSummary(out, s)

		switch {
		case s.Failed > 0:
			fmt.Fprintf(out, "⚠️  WARNING: %d/%d boards could not be generated\n", s.Failed, s.Boards)
		case s.Fallbacks > 0:
			fmt.Fprintf(out, "⚠️  WARNING: %d/%d boards are not verified solvable\n", s.Fallbacks, s.Boards)
		default:
			fmt.Fprintf(out, "✅ All boards verified solvable\n")
		}
	}
	return nil
}
