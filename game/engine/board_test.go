package engine

import (
	"errors"
	"math/rand"
	"testing"
)

// scriptedSource replays fixed values so that Intn(n) returns v%n for each
// scripted v, cycling when the script runs out.
type scriptedSource struct {
	values []int64
	next   int
}

func (s *scriptedSource) Int63() int64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v << 32
}

func (s *scriptedSource) Seed(int64) {}

func scripted(values ...int64) Option {
	return WithRand(rand.New(&scriptedSource{values: values}))
}

func createTestBoard(t *testing.T, opts ...Option) *Board {
	t.Helper()
	board, err := NewBoard(DefaultBoardConfig(), opts...)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	return board
}

func place(t *testing.T, board *Board, color int, positions ...Position) {
	t.Helper()
	for _, pos := range positions {
		if err := board.Place(pos, color); err != nil {
			t.Fatalf("Failed to place %d at (%d,%d): %v", color, pos.X, pos.Y, err)
		}
	}
}

// hasLine reports whether any run of MatchLength same-colored balls exists
func hasLine(g *Grid) bool {
	size := g.Size()
	for y := 0; y < size.Depth; y++ {
		for x := 0; x < size.Width; x++ {
			if len(g.MatchLine(Position{X: x, Y: y})) > 0 {
				return true
			}
		}
	}
	return false
}

func TestNewBoard(t *testing.T) {
	board := createTestBoard(t, WithSeed(1))

	if board.Size() != (BoardSize{Width: 9, Depth: 9}) {
		t.Errorf("Expected 9x9 board, got %+v", board.Size())
	}
	if board.Score() != 0 {
		t.Errorf("Expected score 0, got %d", board.Score())
	}
	stats := board.Statistics()
	if stats.EmptyTileCount != 81 {
		t.Errorf("Expected 81 empty tiles, got %d", stats.EmptyTileCount)
	}
	next := board.NextColors()
	if len(next) != BallsPerTurn {
		t.Fatalf("Expected %d queued colors, got %d", BallsPerTurn, len(next))
	}
	for _, c := range next {
		if c < 1 || c > DefaultColors {
			t.Errorf("Queued color %d out of range", c)
		}
	}
}

func TestNewBoard_NilConfigUsesDefault(t *testing.T) {
	board, err := NewBoard(nil)
	if err != nil {
		t.Fatalf("Expected nil config to use default, got: %v", err)
	}
	if board.Config().Colors != DefaultColors {
		t.Errorf("Expected %d colors, got %d", DefaultColors, board.Config().Colors)
	}
}

func TestNewBoard_InvalidConfig(t *testing.T) {
	config := DefaultBoardConfig()
	config.Colors = 1
	if _, err := NewBoard(config); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestReset(t *testing.T) {
	board := createTestBoard(t, WithSeed(2))
	board.Start()
	place(t, board, 1, Position{X: 0, Y: 0})

	if err := board.Reset(BoardSize{Width: 12, Depth: 7}); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	state := board.State()
	if state.Size != (BoardSize{Width: 12, Depth: 7}) {
		t.Errorf("Expected 12x7 after reset, got %+v", state.Size)
	}
	if len(state.Cells) != 7 || len(state.Cells[0]) != 12 {
		t.Errorf("Expected 7 rows of 12 cells, got %d rows", len(state.Cells))
	}
	if state.EmptyTileCount != 84 {
		t.Errorf("Expected 84 empty tiles, got %d", state.EmptyTileCount)
	}
	if state.Score != 0 {
		t.Errorf("Expected score 0, got %d", state.Score)
	}
	if state.Game != 2 {
		t.Errorf("Expected game 2 after reset, got %d", state.Game)
	}

	if err := board.Reset(BoardSize{Width: 3, Depth: 9}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestStart(t *testing.T) {
	board := createTestBoard(t, WithSeed(3))
	result := board.Start()

	if result.Status != TurnContinue {
		t.Fatalf("Expected continue, got %s", result.Status)
	}
	if len(result.Changes) != BallsPerTurn {
		t.Fatalf("Expected %d changes, got %d", BallsPerTurn, len(result.Changes))
	}

	seen := make(map[Position]bool)
	for _, c := range result.Changes {
		if c.Command != CommandAdd {
			t.Errorf("Expected ADD, got %s", c.Command)
		}
		if c.Color < 1 || c.Color > DefaultColors {
			t.Errorf("Color %d out of range", c.Color)
		}
		if seen[c.Position()] {
			t.Errorf("Position (%d,%d) used twice", c.X, c.Y)
		}
		seen[c.Position()] = true
		if board.ColorAt(c.Position()) != c.Color {
			t.Errorf("Board does not hold color %d at (%d,%d)", c.Color, c.X, c.Y)
		}
	}

	if board.Statistics().EmptyTileCount != 78 {
		t.Errorf("Expected 78 empty tiles, got %d", board.Statistics().EmptyTileCount)
	}
}

func TestFillThree_UsesQueueInOrder(t *testing.T) {
	// colors 2,3,4 then positions (1,1) (0,1) (1,1) (2,2) (0,0); the middle two are taken
	board := createTestBoard(t, scripted(1, 2, 3, 1, 1, 0, 1, 1, 1, 2, 2, 0, 0, 0))
	place(t, board, 6, Position{X: 0, Y: 1})

	result := board.FillThree()
	if result.Status != TurnContinue {
		t.Fatalf("Expected continue, got %s", result.Status)
	}

	expected := []Change{
		AddBall(Position{X: 1, Y: 1}, 2),
		AddBall(Position{X: 2, Y: 2}, 3),
		AddBall(Position{X: 0, Y: 0}, 4),
	}
	if len(result.Changes) != len(expected) {
		t.Fatalf("Expected %d changes, got %+v", len(expected), result.Changes)
	}
	for i, c := range expected {
		if result.Changes[i] != c {
			t.Errorf("Change %d: expected %+v, got %+v", i, c, result.Changes[i])
		}
	}
	if board.ColorAt(Position{X: 0, Y: 1}) != 6 {
		t.Error("Occupied cell was overwritten")
	}
}

func TestFillThree_BoardFull(t *testing.T) {
	config := &BoardConfig{Name: "tiny", Description: "tiny", Width: 5, Depth: 5, Colors: 2}
	// colors 1,1,1 then positions (3,4) (4,4)
	board, err := NewBoard(config, scripted(0, 0, 0, 3, 4, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if y == 4 && x >= 3 {
				continue
			}
			place(t, board, 1+(x+y)%2, Position{X: x, Y: y})
		}
	}

	result := board.FillThree()
	if result.Status != TurnBoardFull {
		t.Fatalf("Expected board_full, got %s", result.Status)
	}
	if !result.GameOver() {
		t.Error("Expected GameOver on board_full result")
	}
	if len(result.Changes) != 0 {
		t.Errorf("Expected no changes, got %d", len(result.Changes))
	}
	// Balls placed before the board filled up stay
	if board.Statistics().EmptyTileCount != 0 {
		t.Errorf("Expected full board, got %d empty", board.Statistics().EmptyTileCount)
	}
	if !board.IsGameOver() || !board.State().GameOver {
		t.Error("Expected board to report game over")
	}
}

func TestFillThree_NeverOverwrites(t *testing.T) {
	board := createTestBoard(t, WithSeed(4))
	for turn := 0; turn < 26; turn++ {
		before := board.State()
		result := board.FillThree()
		if result.Status != TurnContinue {
			break
		}
		for _, c := range result.Changes {
			if before.Cells[c.Y][c.X] != EmptyColor {
				t.Fatalf("Turn %d placed a ball on occupied (%d,%d)", turn, c.X, c.Y)
			}
		}
		if before.EmptyTileCount-board.Statistics().EmptyTileCount != BallsPerTurn {
			t.Fatalf("Turn %d: expected exactly %d new balls", turn, BallsPerTurn)
		}
	}
}

func TestMove(t *testing.T) {
	board := createTestBoard(t, WithSeed(5))
	from := Position{X: 2, Y: 2}
	to := Position{X: 6, Y: 7}
	place(t, board, 4, from)

	tests := []struct {
		name     string
		from, to Position
		want     bool
	}{
		{"empty from", Position{X: 0, Y: 0}, Position{X: 1, Y: 1}, false},
		{"off-board from", Position{X: -1, Y: 0}, to, false},
		{"off-board to", from, Position{X: 9, Y: 0}, false},
		{"valid move", from, to, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := board.Move(tt.from, tt.to); got != tt.want {
				t.Errorf("Move() = %v, want %v", got, tt.want)
			}
		})
	}

	if board.IsOccupied(from) {
		t.Error("Expected from to be empty after move")
	}
	if board.ColorAt(to) != 4 {
		t.Errorf("Expected color 4 at target, got %d", board.ColorAt(to))
	}
}

func TestMove_RoundTrip(t *testing.T) {
	board := createTestBoard(t, WithSeed(6))
	place(t, board, 3, Position{X: 4, Y: 4}, Position{X: 5, Y: 4})
	place(t, board, 1, Position{X: 0, Y: 0}, Position{X: 8, Y: 2})
	from := Position{X: 4, Y: 4}
	to := Position{X: 0, Y: 8}
	before := board.State().Cells

	if !board.Move(from, to) || !board.Move(to, from) {
		t.Fatal("Expected both moves to succeed")
	}

	after := board.State().Cells
	for y := range before {
		for x := range before[y] {
			if before[y][x] != after[y][x] {
				t.Errorf("Cell (%d,%d) changed from %d to %d", x, y, before[y][x], after[y][x])
			}
		}
	}
}

func TestMatchResolve_FourThenFive(t *testing.T) {
	board := createTestBoard(t, WithSeed(7))
	place(t, board, 2,
		Position{X: 0, Y: 0}, Position{X: 1, Y: 0}, Position{X: 2, Y: 0}, Position{X: 3, Y: 0})

	if removed := board.MatchResolve(Position{X: 1, Y: 0}); len(removed) != 0 {
		t.Fatalf("Expected no removal with four in a row, got %d", len(removed))
	}
	if board.Score() != 0 {
		t.Errorf("Expected score 0, got %d", board.Score())
	}

	place(t, board, 2, Position{X: 4, Y: 0})
	removed := board.MatchResolve(Position{X: 2, Y: 0})
	if len(removed) != 5 {
		t.Fatalf("Expected 5 removals, got %d", len(removed))
	}
	for _, c := range removed {
		if c.Command != CommandRemove || c.Color != 0 {
			t.Errorf("Expected colorless REMOVE, got %+v", c)
		}
	}
	if board.Score() != 25 {
		t.Errorf("Expected score 25, got %d", board.Score())
	}
	if board.Statistics().EmptyTileCount != 81 {
		t.Errorf("Expected empty board, got %d empty", board.Statistics().EmptyTileCount)
	}
}

func TestMatchResolve_Axes(t *testing.T) {
	tests := []struct {
		name  string
		balls []Position
		pivot Position
		want  int
	}{
		{
			name:  "vertical",
			balls: []Position{{X: 4, Y: 0}, {X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 4}},
			pivot: Position{X: 4, Y: 4},
			want:  5,
		},
		{
			name:  "diagonal down-right",
			balls: []Position{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}},
			pivot: Position{X: 2, Y: 2},
			want:  5,
		},
		{
			name:  "diagonal up-right",
			balls: []Position{{X: 0, Y: 8}, {X: 1, Y: 7}, {X: 2, Y: 6}, {X: 3, Y: 5}, {X: 4, Y: 4}, {X: 5, Y: 3}},
			pivot: Position{X: 0, Y: 8},
			want:  6,
		},
		{
			name: "cross counts the pivot once",
			balls: []Position{
				{X: 2, Y: 4}, {X: 3, Y: 4}, {X: 4, Y: 4}, {X: 5, Y: 4}, {X: 6, Y: 4},
				{X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 5}, {X: 4, Y: 6},
			},
			pivot: Position{X: 4, Y: 4},
			want:  9,
		},
		{
			name:  "broken line",
			balls: []Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}, {X: 5, Y: 0}},
			pivot: Position{X: 3, Y: 0},
			want:  0,
		},
		{
			name:  "empty pivot",
			balls: []Position{{X: 0, Y: 0}},
			pivot: Position{X: 5, Y: 5},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := createTestBoard(t, WithSeed(8))
			place(t, board, 5, tt.balls...)

			removed := board.MatchResolve(tt.pivot)
			if len(removed) != tt.want {
				t.Fatalf("Expected %d removals, got %d", tt.want, len(removed))
			}
			if board.Score() != tt.want*tt.want {
				t.Errorf("Expected score %d, got %d", tt.want*tt.want, board.Score())
			}
		})
	}
}

func TestMatchResolve_OtherColorStopsRun(t *testing.T) {
	board := createTestBoard(t, WithSeed(9))
	place(t, board, 1, Position{X: 0, Y: 0}, Position{X: 1, Y: 0}, Position{X: 3, Y: 0}, Position{X: 4, Y: 0})
	place(t, board, 2, Position{X: 2, Y: 0})

	if removed := board.MatchResolve(Position{X: 0, Y: 0}); len(removed) != 0 {
		t.Errorf("Expected no removals, got %d", len(removed))
	}
}

func TestResolveMove_MatchStopsTurn(t *testing.T) {
	board := createTestBoard(t, WithSeed(10))
	place(t, board, 1, Position{X: 0, Y: 0}, Position{X: 1, Y: 0}, Position{X: 2, Y: 0}, Position{X: 3, Y: 0})
	place(t, board, 1, Position{X: 5, Y: 5})

	result := board.ResolveMove(Position{X: 5, Y: 5}, Position{X: 4, Y: 0})
	if result.Status != TurnContinue {
		t.Fatalf("Expected continue, got %s", result.Status)
	}

	expected := []Change{
		RemoveBall(Position{X: 5, Y: 5}),
		AddBall(Position{X: 4, Y: 0}, 1),
		RemoveBall(Position{X: 3, Y: 0}),
		RemoveBall(Position{X: 2, Y: 0}),
		RemoveBall(Position{X: 1, Y: 0}),
		RemoveBall(Position{X: 0, Y: 0}),
		RemoveBall(Position{X: 4, Y: 0}),
	}
	if len(result.Changes) != len(expected) {
		t.Fatalf("Expected %d changes, got %+v", len(expected), result.Changes)
	}
	for i, c := range expected {
		if result.Changes[i] != c {
			t.Errorf("Change %d: expected %+v, got %+v", i, c, result.Changes[i])
		}
	}
	if board.Score() != 25 {
		t.Errorf("Expected score 25, got %d", board.Score())
	}
	if board.Statistics().EmptyTileCount != 81 {
		t.Error("Expected no balls injected after a match")
	}
}

func TestResolveMove_NoMatchInjects(t *testing.T) {
	// colors 2,2,2 then positions (8,8) (8,7) (8,6)
	board := createTestBoard(t, scripted(1, 1, 1, 8, 8, 8, 7, 8, 6, 1, 1, 1))
	place(t, board, 1, Position{X: 0, Y: 0}, Position{X: 1, Y: 0}, Position{X: 2, Y: 0}, Position{X: 5, Y: 5})

	result := board.ResolveMove(Position{X: 5, Y: 5}, Position{X: 3, Y: 0})
	if result.Status != TurnContinue {
		t.Fatalf("Expected continue, got %s", result.Status)
	}

	expected := []Change{
		RemoveBall(Position{X: 5, Y: 5}),
		AddBall(Position{X: 3, Y: 0}, 1),
		AddBall(Position{X: 8, Y: 8}, 2),
		AddBall(Position{X: 8, Y: 7}, 2),
		AddBall(Position{X: 8, Y: 6}, 2),
	}
	if len(result.Changes) != len(expected) {
		t.Fatalf("Expected %d changes, got %+v", len(expected), result.Changes)
	}
	for i, c := range expected {
		if result.Changes[i] != c {
			t.Errorf("Change %d: expected %+v, got %+v", i, c, result.Changes[i])
		}
	}
	if board.Score() != 0 {
		t.Errorf("Expected score 0, got %d", board.Score())
	}
	if len(result.Added()) != 4 || len(result.Removed()) != 1 {
		t.Errorf("Expected 4 adds and 1 remove, got %d and %d", len(result.Added()), len(result.Removed()))
	}
}

func TestResolveMove_InjectedBallCascades(t *testing.T) {
	// colors 2,2,2 then positions (8,8) (8,7) (8,6)
	board := createTestBoard(t, scripted(1, 1, 1, 8, 8, 8, 7, 8, 6, 1, 1, 1))
	place(t, board, 2, Position{X: 8, Y: 2}, Position{X: 8, Y: 3}, Position{X: 8, Y: 4}, Position{X: 8, Y: 5})
	place(t, board, 1, Position{X: 0, Y: 0})

	result := board.ResolveMove(Position{X: 0, Y: 0}, Position{X: 0, Y: 1})

	expected := []Change{
		RemoveBall(Position{X: 0, Y: 0}),
		AddBall(Position{X: 0, Y: 1}, 1),
		AddBall(Position{X: 8, Y: 8}, 2),
		AddBall(Position{X: 8, Y: 7}, 2),
		AddBall(Position{X: 8, Y: 6}, 2),
		RemoveBall(Position{X: 8, Y: 7}),
		RemoveBall(Position{X: 8, Y: 6}),
		RemoveBall(Position{X: 8, Y: 5}),
		RemoveBall(Position{X: 8, Y: 4}),
		RemoveBall(Position{X: 8, Y: 3}),
		RemoveBall(Position{X: 8, Y: 2}),
		RemoveBall(Position{X: 8, Y: 8}),
	}
	if len(result.Changes) != len(expected) {
		t.Fatalf("Expected %d changes, got %+v", len(expected), result.Changes)
	}
	for i, c := range expected {
		if result.Changes[i] != c {
			t.Errorf("Change %d: expected %+v, got %+v", i, c, result.Changes[i])
		}
	}
	if board.Score() != 49 {
		t.Errorf("Expected score 49, got %d", board.Score())
	}

	history := board.History()
	if len(history) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.Injected != 3 || entry.Cleared != 7 || entry.ScoreGained != 49 {
		t.Errorf("Unexpected history entry %+v", entry)
	}
}

func TestResolveMove_EmptyFromRejected(t *testing.T) {
	board := createTestBoard(t, WithSeed(11))

	result := board.ResolveMove(Position{X: 0, Y: 0}, Position{X: 1, Y: 1})
	if result.Status != TurnRejected {
		t.Errorf("Expected rejected, got %s", result.Status)
	}
	if len(result.Changes) != 0 {
		t.Errorf("Expected no changes, got %d", len(result.Changes))
	}
	if board.Statistics().EmptyTileCount != 81 {
		t.Error("Expected rejected move to leave the board untouched")
	}

	history := board.History()
	if len(history) != 1 || history[0].Status != TurnRejected {
		t.Errorf("Expected one rejected history entry, got %+v", history)
	}
}

func TestPlace_Validation(t *testing.T) {
	board := createTestBoard(t, WithSeed(12))

	if err := board.Place(Position{X: 9, Y: 0}, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
	if err := board.Place(Position{X: 0, Y: 0}, 0); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Expected ErrInvalidColor for 0, got %v", err)
	}
	if err := board.Place(Position{X: 0, Y: 0}, DefaultColors+1); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Expected ErrInvalidColor for %d, got %v", DefaultColors+1, err)
	}
}

func TestRandomGameProperties(t *testing.T) {
	board := createTestBoard(t, WithSeed(42))
	rng := rand.New(rand.NewSource(42))
	board.Start()

	expectedScore := 0
	for turn := 0; turn < 500; turn++ {
		state := board.State()
		var balls, holes []Position
		for y, row := range state.Cells {
			for x, c := range row {
				if c == EmptyColor {
					holes = append(holes, Position{X: x, Y: y})
				} else {
					balls = append(balls, Position{X: x, Y: y})
				}
			}
		}
		if len(balls) == 0 || len(holes) == 0 {
			break
		}

		before := board.Score()
		result := board.ResolveMove(balls[rng.Intn(len(balls))], holes[rng.Intn(len(holes))])

		// The moved ball's REMOVE(from) is not a match removal
		removed := len(result.Removed()) - 1
		if removed > 0 && removed < MatchLength {
			t.Fatalf("Turn %d removed %d balls", turn, removed)
		}
		if board.Score() < before {
			t.Fatalf("Turn %d: score decreased from %d to %d", turn, before, board.Score())
		}

		for _, h := range board.History()[turn:] {
			expectedScore += h.ScoreGained
		}
		if board.Score() != expectedScore {
			t.Fatalf("Turn %d: score %d does not match history total %d", turn, board.Score(), expectedScore)
		}

		stats := board.Statistics()
		if stats.EmptyTileCount != 81-board.Snapshot().OccupiedCount() {
			t.Fatalf("Turn %d: inconsistent empty tile count", turn)
		}
		if len(board.NextColors()) != BallsPerTurn {
			t.Fatalf("Turn %d: queue has %d colors", turn, len(board.NextColors()))
		}
		if hasLine(board.Snapshot()) {
			t.Fatalf("Turn %d left an unresolved line", turn)
		}

		if result.GameOver() {
			break
		}
	}
}
