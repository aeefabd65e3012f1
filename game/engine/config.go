package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/janchain/game/board"
)

// DefaultGameConfig returns the built-in preset used when no preset files
// are available.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic",
		Description: "Six pairs on an 8x8 board",
		Board:       board.DefaultConfig(),
		Messages: Messages{
			Welcome:        "Welcome to Jan Chain! Connect every pair of matching tiles without crossing lines.",
			Connected:      "Pair %s connected!",
			AlreadyMatched: "That pair is already connected",
			InvalidPath:    "That line is not allowed",
			Disconnected:   "Line removed",
			Victory:        "Victory! All %d pairs connected!",
			Unsolvable:     "This board could not be verified as solvable",
		},
	}
}

// ApplyDefaults fills zero-valued board settings from board.DefaultConfig so
// presets only need to list what they change.
func (c *GameConfig) ApplyDefaults() {
	def := board.DefaultConfig()
	if c.Board.GridSize == 0 {
		c.Board.GridSize = def.GridSize
	}
	if c.Board.RequestedTypes == 0 {
		c.Board.RequestedTypes = def.RequestedTypes
	}
	if c.Board.MaxPlacementAttempts == 0 {
		c.Board.MaxPlacementAttempts = def.MaxPlacementAttempts
	}
	if c.Board.MaxPathsPerPair == 0 {
		c.Board.MaxPathsPerPair = def.MaxPathsPerPair
	}
	if c.Board.PathSlack == 0 {
		c.Board.PathSlack = def.PathSlack
	}
	if c.Board.Fallback == "" {
		c.Board.Fallback = def.Fallback
	}
}

// ValidateGameConfig validates a preset for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}

	if err := config.Board.Validate(); err != nil {
		return fmt.Errorf("%w: board: %v", ErrInvalidConfig, err)
	}
	if len(config.Board.Blocked) > 0 {
		return fmt.Errorf("%w: board.blocked is reserved for obstacles carried between boards", ErrInvalidConfig)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("%w: messages.welcome is required", ErrInvalidConfig)
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("%w: messages.victory is required", ErrInvalidConfig)
	}
	// Victory always takes the pair count, connected only when it has a verb.
	if err := checkRendered("victory", fmt.Sprintf(config.Messages.Victory, 6)); err != nil {
		return err
	}
	if err := checkRendered("connected", formatMessage(config.Messages.Connected, board.TileType("A"))); err != nil {
		return err
	}

	return nil
}

// checkRendered rejects a sample rendering that fmt flagged with a bad verb
// or a missing or extra argument.
func checkRendered(field, out string) error {
	if strings.Contains(out, "%!") {
		return fmt.Errorf("%w: messages.%s does not format: %q", ErrInvalidConfig, field, out)
	}
	return nil
}

// LoadGameConfig loads a preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return ParseGameConfig(data)
}

// ParseGameConfig decodes, defaults and validates a preset
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	config.ApplyDefaults()

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a preset by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}

// boardConfigFor returns the generator settings for the next board. Carried
// obstacles count towards ObstacleCount so the total never grows past it.
func boardConfigFor(config *GameConfig, carried []board.Cell) board.Config {
	cfg := config.Board
	cfg.Blocked = nil
	if config.PersistObstacles && len(carried) > 0 {
		cfg.Blocked = append([]board.Cell(nil), carried...)
		cfg.ObstacleCount = max(0, cfg.ObstacleCount-len(carried))
	}
	return cfg
}
