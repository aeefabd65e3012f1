// Package config provides preset management for Jan Chain.
//
// The config package handles:
//   - Loading presets from JSON files
//   - Preset validation through the engine package
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are stored as JSON files in the configs directory. Each preset
// defines:
//   - The board generator settings (grid size, number of pairs, search
//     budgets, obstacles and fallback policy)
//   - Whether obstacles carry over from one board to the next
//   - An optional fixed seed for reproducible boards
//   - Player-facing messages
//
// Zero-valued board settings fall back to the generator defaults, so a preset
// may list only what it changes.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
