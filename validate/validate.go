// Command validate checks the preset JSON files in the ../configs directory
// (or the directory given as the first argument). For every preset it checks:
//   - JSON structure and unknown keys
//   - Preset rules enforced by the game engine (name, board settings, messages)
//   - Whether the board is dense enough to leave room for routing
//   - Trial generations: a few seeded boards must come out verified solvable
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/engine"
)

const (
	// trialBoards is how many seeded boards are generated per preset.
	trialBoards = 3
	// trialTimeout bounds a single trial generation.
	trialTimeout = 10 * time.Second
	// slowTrial is the longest a trial board may take before the preset is
	// rejected as too slow to serve.
	slowTrial = 2 * time.Second
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	// Decode strictly first so misspelled keys are reported instead of ignored
	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	config.ApplyDefaults()
	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	// The generator never places more pairs than it has tile types
	types := len(config.Board.TileTypes)
	if types == 0 {
		types = len(board.DefaultTileTypes)
	}
	pairs := min(config.Board.RequestedTypes, types)
	if pairs < config.Board.RequestedTypes {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Warning: %d pairs requested but only %d tile types, boards will have %d pairs", config.Board.RequestedTypes, types, pairs))
	}

	cells := config.Board.GridSize * config.Board.GridSize
	needed := 2*pairs + config.Board.ObstacleCount
	if needed > cells {
		result.fail("%d pairs and %d obstacles need %d cells, the %dx%d grid has %d",
			pairs, config.Board.ObstacleCount, needed,
			config.Board.GridSize, config.Board.GridSize, cells)
		return result
	}

	trial := validateGeneration(&config)
	if !trial.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, trial.Errors...)

	if result.Valid {
		result.info("Name: %s", config.Name)
		result.info("Grid: %dx%d", config.Board.GridSize, config.Board.GridSize)
		result.info("Pairs: %d", pairs)
		result.info("Obstacles: %d (persist: %v)", config.Board.ObstacleCount, config.PersistObstacles)
		result.info("Fallback: %s", config.Board.Fallback)
	}

	return result
}

// validateGeneration generates a few seeded boards with the preset settings.
// A preset with the abort policy fails when any trial is exhausted; a best
// effort preset only gets a warning when a trial falls back to an unverified
// board.
func validateGeneration(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	baseSeed := config.Seed
	if baseSeed == 0 {
		baseSeed = 1
	}

	var totalAttempts int
	var slowest time.Duration
	fallbacks := 0
	for i := 0; i < trialBoards; i++ {
		seed := baseSeed + int64(i)
		gen, err := board.NewGenerator(config.Board, board.NewSeededRand(seed))
		if err != nil {
			result.fail("Trial generation: %v", err)
			return result
		}

		ctx, cancel := context.WithTimeout(context.Background(), trialTimeout)
		layout, err := gen.Generate(ctx)
		cancel()
		stats := gen.Stats()
		totalAttempts += stats.Attempts
		slowest = max(slowest, stats.Duration)

		switch {
		case errors.Is(err, board.ErrGenerationExhausted):
			result.fail("Trial %d (seed %d): no solvable board after %d attempts", i+1, seed, stats.Attempts)
			continue
		case err != nil:
			result.fail("Trial %d (seed %d): %v", i+1, seed, err)
			continue
		case stats.Duration > slowTrial:
			result.fail("Trial %d (seed %d): took %v after %d attempts, limit is %v",
				i+1, seed, stats.Duration.Round(time.Millisecond), stats.Attempts, slowTrial)
			continue
		}

		if !layout.Validated {
			fallbacks++
			continue
		}
		if err := layout.Verify(); err != nil {
			result.fail("Trial %d (seed %d): solution does not verify: %v", i+1, seed, err)
		}
	}

	if fallbacks > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Warning: %d/%d trial boards fell back to an unverified layout", fallbacks, trialBoards))
	}
	if result.Valid {
		result.info("Trial generation: %d boards, %d attempts, slowest %v", trialBoards, totalAttempts, slowest.Round(time.Millisecond))
	}
	return result
}

// main scans the preset directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
