package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBoardConfig returns the classic 9x9 board with six colors
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "Classic",
		Description: "Classic 9x9 board with six colors",
		Width:       DefaultWidth,
		Depth:       DefaultDepth,
		Colors:      DefaultColors,
	}
}

// ValidateBoardSize checks the dimensions against the supported bounds
func ValidateBoardSize(size BoardSize) error {
	if size.Width < MinBoardSize || size.Width > MaxBoardSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidSize, MinBoardSize, MaxBoardSize, size.Width)
	}
	if size.Depth < MinBoardSize || size.Depth > MaxBoardSize {
		return fmt.Errorf("%w: depth must be between %d and %d, got %d", ErrInvalidSize, MinBoardSize, MaxBoardSize, size.Depth)
	}
	return nil
}

// ValidateBoardConfig validates a board configuration for correctness
func ValidateBoardConfig(config *BoardConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if err := ValidateBoardSize(config.Size()); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if config.Colors < MinColors || config.Colors > MaxColors {
		return fmt.Errorf("config validation: colors must be between %d and %d, got %d", MinColors, MaxColors, config.Colors)
	}

	return nil
}

// LoadBoardConfig loads a board configuration from a JSON file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filepath.Base(filename), err)
	}

	if err := ValidateBoardConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a board configuration by name from dir
func LoadConfigByName(dir, configName string) (*BoardConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join(dir, configName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadBoardConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}
