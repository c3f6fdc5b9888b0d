// Command validate provides a small CLI that validates board configuration
// JSON files in the ../configs directory (or the directory given as the
// first argument). It checks:
//   - JSON structure, unknown keys and required fields
//   - Board dimensions and color count against the engine bounds
//   - Opening: a seeded start places three balls and each can reach a free cell
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/pathfind"
)

// openingSeed makes the opening check reproducible
const openingSeed = 1

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
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

	var config engine.BoardConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("Missing required field: name")
	}
	if config.Description == "" {
		result.fail("Missing required field: description")
	}

	size := config.Size()
	if err := engine.ValidateBoardSize(size); err != nil {
		result.fail("%v", err)
	}
	if config.Colors < engine.MinColors || config.Colors > engine.MaxColors {
		result.fail("colors must be between %d and %d, got %d", engine.MinColors, engine.MaxColors, config.Colors)
	}

	// Opening validation - play a seeded start and make sure no ball is boxed in
	if result.Valid {
		opening := validateOpening(&config)
		if !opening.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, opening.Errors...)
	}

	// Add informational data
	if result.Valid {
		enforce := "off"
		if config.EnforcePath {
			enforce = "on"
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", size.Width, size.Depth))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Colors: %d", config.Colors))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Path enforcement: %s", enforce))
	}

	return result
}

// validateOpening starts a seeded game and checks that every opening ball
// can reach at least one empty cell through the path finder
func validateOpening(config *engine.BoardConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	board, err := engine.NewBoard(config, engine.WithSeed(openingSeed))
	if err != nil {
		result.fail("Cannot create board: %v", err)
		return result
	}

	turn := board.Start()
	if turn.GameOver() {
		result.fail("Opening failed: board full after start")
		return result
	}
	added := turn.Added()
	if len(added) != engine.BallsPerTurn {
		result.fail("Opening placed %d balls, expected %d", len(added), engine.BallsPerTurn)
		return result
	}

	balls := make([]engine.Position, len(added))
	for i, change := range added {
		balls[i] = change.Position()
	}
	boxed := boxedBalls(board.Snapshot(), balls)

	if len(boxed) > 0 {
		result.fail("Opening failure: %d/%d balls cannot move", len(boxed), len(added))
		for _, pos := range boxed {
			result.Errors = append(result.Errors, fmt.Sprintf("Boxed in: ball at (%d,%d)", pos.X, pos.Y))
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Opening: all %d balls can move", len(added)))
	}

	return result
}

// boxedBalls returns the balls that have no path to any neighboring cell
func boxedBalls(grid *engine.Grid, balls []engine.Position) []engine.Position {
	boxed := []engine.Position{}
	for _, from := range balls {
		free := grid.FreeMovementNeighbors(from)
		if len(free) == 0 {
			boxed = append(boxed, from)
			continue
		}
		path, err := pathfind.FindPath(grid, from, free[0])
		if err != nil || !path.Success {
			boxed = append(boxed, from)
		}
	}
	return boxed
}

// main scans the config directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
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
		fmt.Printf("No config files found in %s\n", configDir)
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
