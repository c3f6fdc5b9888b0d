// Command analyze prints quick, human-readable heuristics about the board
// configurations in the project's configs directory, and plays headless
// games with a random legal-move player to compare how configs score.
//
//	analyze configs --dir configs
//	analyze simulate --config classic --games 50 --seed 7
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/dhadley519/kulki-too/game/config"
	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/pathfind"
)

// targetsPerBall bounds how many destinations the random player tries per ball
const targetsPerBall = 8

// GameReport is the outcome of one simulated game
type GameReport struct {
	Score     int
	Turns     int
	BoardFull bool
}

// SimulationReport aggregates a batch of simulated games
type SimulationReport struct {
	Config       string
	Games        int
	AverageScore float64
	AverageTurns float64
	BestScore    int
	BoardFull    int
	Stuck        int
}

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("analyze failed")
	}
}

func dirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "dir",
		Value:   "configs",
		Usage:   "directory containing board configurations",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "inspect board configurations and simulate games",
		Commands: []*cli.Command{
			{
				Name:  "configs",
				Usage: "summarize every configuration",
				Flags: []cli.Flag{dirFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return summarizeConfigs(cmd.Root().Writer, cmd.String("dir"))
				},
			},
			{
				Name:  "simulate",
				Usage: "play seeded games with a random legal-move player",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.StringFlag{Name: "config", Value: config.DefaultConfigName, Usage: "config ID to play"},
					&cli.IntFlag{Name: "games", Value: 20, Usage: "number of games"},
					&cli.IntFlag{Name: "seed", Value: 1, Usage: "seed of the first game"},
					&cli.IntFlag{Name: "max-turns", Value: 500, Usage: "turn limit per game"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					manager, err := config.NewManager(cmd.String("dir"))
					if err != nil {
						return err
					}
					boardConfig, err := manager.LoadConfig(cmd.String("config"))
					if err != nil {
						return fmt.Errorf("config %q: %w", cmd.String("config"), err)
					}

					games := int(cmd.Int("games"))
					if games < 1 {
						return fmt.Errorf("games must be positive, got %d", games)
					}
					report := simulateGames(boardConfig, games, int64(cmd.Int("seed")), int(cmd.Int("max-turns")))
					printReport(cmd.Root().Writer, report)
					return nil
				},
			},
		},
	}
}

func summarizeConfigs(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	for _, info := range infos {
		cells := info.Width * info.Depth
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.Filename)
		fmt.Fprintf(w, "Name: %s\n", info.Name)
		fmt.Fprintf(w, "Board: %d x %d (%d cells)\n", info.Width, info.Depth, cells)
		fmt.Fprintf(w, "Colors: %d\n", info.Colors)
		fmt.Fprintf(w, "Path enforcement: %t\n", info.EnforcePath)
		// Every turn without a clear adds three balls
		fmt.Fprintf(w, "Turns until full without clears: %d\n", (cells-engine.BallsPerTurn)/engine.BallsPerTurn)
		if info.Colors > 7 {
			fmt.Fprintf(w, "⚠️  WARNING: %d colors make lines rare\n", info.Colors)
		}
	}
	return nil
}

func simulateGames(boardConfig *engine.BoardConfig, games int, seed int64, maxTurns int) SimulationReport {
	report := SimulationReport{Config: boardConfig.Name, Games: games}

	totalScore, totalTurns := 0, 0
	for i := 0; i < games; i++ {
		gameSeed := seed + int64(i)
		board, err := engine.NewBoard(boardConfig, engine.WithSeed(gameSeed))
		if err != nil {
			log.Error().Err(err).Msg("failed to create board")
			continue
		}

		game := playGame(board, rand.New(rand.NewSource(gameSeed)), maxTurns)
		totalScore += game.Score
		totalTurns += game.Turns
		if game.Score > report.BestScore {
			report.BestScore = game.Score
		}
		if game.BoardFull {
			report.BoardFull++
		} else if game.Turns < maxTurns {
			report.Stuck++
		}
	}

	report.AverageScore = float64(totalScore) / float64(games)
	report.AverageTurns = float64(totalTurns) / float64(games)
	return report
}

// playGame starts board and plays random reachable moves until the board
// fills up, no ball can move, or maxTurns is reached
func playGame(board *engine.Board, rng *rand.Rand, maxTurns int) GameReport {
	var report GameReport
	if board.Start().GameOver() {
		report.BoardFull = true
		return report
	}

	for report.Turns < maxTurns {
		move, ok := pickMove(board.Snapshot(), rng)
		if !ok {
			break
		}
		result := board.ResolveMove(move.From, move.To)
		report.Turns++
		if result.GameOver() {
			report.BoardFull = true
			break
		}
	}

	report.Score = board.Score()
	return report
}

// pickMove chooses a random ball and a random empty cell it can reach
func pickMove(grid *engine.Grid, rng *rand.Rand) (engine.MovePath, bool) {
	size := grid.Size()
	var balls, empties []engine.Position
	for y := 0; y < size.Depth; y++ {
		for x := 0; x < size.Width; x++ {
			pos := engine.Position{X: x, Y: y}
			if grid.IsOccupied(pos) {
				balls = append(balls, pos)
			} else {
				empties = append(empties, pos)
			}
		}
	}
	if len(empties) == 0 {
		return engine.MovePath{}, false
	}

	for _, bi := range rng.Perm(len(balls)) {
		from := balls[bi]
		if len(grid.FreeMovementNeighbors(from)) == 0 {
			continue
		}
		for tries, ei := range rng.Perm(len(empties)) {
			if tries == targetsPerBall {
				break
			}
			path, err := pathfind.FindPath(grid, from, empties[ei])
			if err == nil && path.Success {
				return engine.MovePath{From: from, To: empties[ei]}, true
			}
		}
	}
	return engine.MovePath{}, false
}

func printReport(w io.Writer, report SimulationReport) {
	fmt.Fprintf(w, "\n=== Simulating %s ===\n", report.Config)
	fmt.Fprintf(w, "Games: %d\n", report.Games)
	fmt.Fprintf(w, "Average score: %.1f\n", report.AverageScore)
	fmt.Fprintf(w, "Average turns: %.1f\n", report.AverageTurns)
	fmt.Fprintf(w, "Best score: %d\n", report.BestScore)
	fmt.Fprintf(w, "Ended with a full board: %d\n", report.BoardFull)
	if report.Stuck > 0 {
		fmt.Fprintf(w, "⚠️  %d games ended with no legal move\n", report.Stuck)
	}
}
