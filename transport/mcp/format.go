package mcp

import (
	"fmt"
	"strings"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/pathfind"
	"github.com/dhadley519/kulki-too/game/service"
)

// formatGrid draws the board with '.' for empty cells and the color digit for balls
func formatGrid(cells [][]int) string {
	if len(cells) == 0 {
		return "(empty board)\n"
	}

	var sb strings.Builder
	sb.WriteString("   ")
	for x := range cells[0] {
		sb.WriteString(fmt.Sprintf("%d", x%10))
	}
	sb.WriteString("\n")

	for y, row := range cells {
		sb.WriteString(fmt.Sprintf("%2d ", y))
		for _, color := range row {
			if color == engine.EmptyColor {
				sb.WriteByte('.')
			} else {
				sb.WriteString(fmt.Sprintf("%d", color))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatColors(colors []int) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ", ")
}

func formatChanges(changes []engine.Change) string {
	var sb strings.Builder
	for _, c := range changes {
		if c.Command == engine.CommandAdd {
			sb.WriteString(fmt.Sprintf("  + (%d,%d) color %d\n", c.X, c.Y, c.Color))
		} else {
			sb.WriteString(fmt.Sprintf("  - (%d,%d)\n", c.X, c.Y))
		}
	}
	return sb.String()
}

func formatBoardState(state *engine.BoardState) string {
	var sb strings.Builder
	sb.WriteString(formatGrid(state.Cells))
	sb.WriteString(fmt.Sprintf("\nBoard: %dx%d, Colors: 1-%d\n", state.Size.Width, state.Size.Depth, state.Colors))
	sb.WriteString(fmt.Sprintf("Score: %d | Empty tiles: %d | Game: %d | Moves: %d\n",
		state.Score, state.EmptyTileCount, state.Game, state.TotalMoves))
	sb.WriteString(fmt.Sprintf("Next colors: %s\n", formatColors(state.NextColors)))
	if state.GameOver {
		sb.WriteString("\nGAME OVER - the board is full. Use start_game to play again.\n")
	}
	return sb.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session: %s\nConfig: %s\n", session.ID, session.ConfigName))
	if session.EnforcePath {
		sb.WriteString("Moves must follow a free path\n")
	}
	if session.Board != nil {
		sb.WriteString("\n")
		sb.WriteString(formatBoardState(session.Board))
	}
	return sb.String()
}

func formatTurn(turn *service.TurnResponse) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Game started on session %s\n", turn.SessionID))
	sb.WriteString(formatChanges(turn.Changes))
	sb.WriteString(fmt.Sprintf("Score: %d | Empty tiles: %d\n", turn.Statistics.Score, turn.Statistics.EmptyTileCount))
	sb.WriteString(fmt.Sprintf("Next colors: %s\n", formatColors(turn.NextColors)))
	if turn.GameOver {
		sb.WriteString("GAME OVER - the board is full.\n")
	}
	return sb.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var sb strings.Builder
	if !result.Success {
		sb.WriteString("Move rejected: ")
		sb.WriteString(result.Message)
		sb.WriteString("\n")
		if result.Path != nil && !result.Path.Success {
			sb.WriteString(fmt.Sprintf("Searched %d cells without reaching the target\n", len(result.Path.ClosedList)))
		}
		return sb.String()
	}

	sb.WriteString(result.Message)
	sb.WriteString("\n")
	sb.WriteString(formatChanges(result.Changes))
	if result.ScoreGained > 0 {
		sb.WriteString(fmt.Sprintf("Scored %d points\n", result.ScoreGained))
	}
	sb.WriteString(fmt.Sprintf("Score: %d | Empty tiles: %d\n", result.Statistics.Score, result.Statistics.EmptyTileCount))
	sb.WriteString(fmt.Sprintf("Next colors: %s\n", formatColors(result.NextColors)))
	if result.GameOver {
		sb.WriteString("\nGAME OVER - the board is full. Use start_game to play again.\n")
	}
	return sb.String()
}

func formatPath(result *pathfind.PathResult) string {
	if !result.Success {
		return fmt.Sprintf("No free path from (%d,%d) to (%d,%d). Explored %d cells.",
			result.From.X, result.From.Y, result.To.X, result.To.Y, len(result.ClosedList))
	}

	steps := make([]string, 0, len(result.FinalPath))
	for i := len(result.FinalPath) - 1; i >= 0; i-- {
		p := result.FinalPath[i]
		steps = append(steps, fmt.Sprintf("(%d,%d)", p.X, p.Y))
	}
	return fmt.Sprintf("Path found in %d steps: %s", result.Steps(), strings.Join(steps, " -> "))
}

func formatHistory(history *service.HistoryResponse) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Move History (page %d of %d, %d turns total):\n\n",
		history.Page, history.TotalPages, history.TotalMoves))
	for _, m := range history.Moves {
		sb.WriteString(fmt.Sprintf("#%d [game %d] (%d,%d) -> (%d,%d) %s",
			m.MoveNumber, m.Game, m.From.X, m.From.Y, m.To.X, m.To.Y, m.Status))
		if m.Cleared > 0 {
			sb.WriteString(fmt.Sprintf(", cleared %d (+%d)", m.Cleared, m.ScoreGained))
		}
		if m.Injected > 0 {
			sb.WriteString(fmt.Sprintf(", %d new balls", m.Injected))
		}
		sb.WriteString(fmt.Sprintf(", score %d\n", m.Score))
	}
	if history.HasNext {
		sb.WriteString(fmt.Sprintf("\nMore turns on page %d\n", history.Page+1))
	}
	return sb.String()
}

// describeCell reports what sits at pos and, for a ball, where it can step
// and how many same-colored balls touch it
func describeCell(grid *engine.Grid, pos engine.Position) string {
	color := grid.ColorAt(pos)
	if color == engine.EmptyColor {
		return fmt.Sprintf("Cell (%d,%d) is empty", pos.X, pos.Y)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Cell (%d,%d) holds color %d\n", pos.X, pos.Y, color))

	free := grid.FreeMovementNeighbors(pos)
	if len(free) == 0 {
		sb.WriteString("Boxed in: no empty orthogonal neighbors\n")
	} else {
		cells := make([]string, len(free))
		for i, p := range free {
			cells[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
		}
		sb.WriteString(fmt.Sprintf("Can step to: %s\n", strings.Join(cells, ", ")))
	}

	same := 0
	for _, n := range grid.MatchNeighbors(pos) {
		if grid.ColorAt(n) == color {
			same++
		}
	}
	sb.WriteString(fmt.Sprintf("Same-colored neighbors: %d\n", same))
	return sb.String()
}

const gameInstructions = `Kulki Too - Complete Instructions

GAME OBJECTIVE:
Keep the board from filling up. Score by lining up five or more balls of the same color.

BOARD LEGEND:
- Columns are x, rows are y, both 0-based from the top-left corner
- '.' is an empty cell
- A digit is a ball of that color

TURNS:
1. start_game clears the board, resets the score and drops three balls
2. move_ball moves one ball to another cell
3. If the moved ball completes a line of five or more, the line is cleared and no new balls drop
4. Otherwise three balls drop on random empty cells, in the colors shown as "next colors"
5. Dropped balls that complete a line clear it too
6. When there is no room for the three new balls, the game is over

LINES:
- Lines run along rows, columns and both diagonals
- Balls are counted on both sides of the moved ball
- Several lines through the same ball clear together

SCORING:
- A clear of n balls scores n squared: five balls score 25, nine balls score 81
- Crossing lines count as one clear, so they score more than two separate clears

PATHS:
- Balls travel orthogonally through empty cells
- Some boards require a free path for every move (see list_configs)
- Use preview_path before moving on those boards; a blocked move is rejected and nothing drops

STRATEGY:
- Build lines near the middle where they can grow both ways
- Keep open corridors so balls can still reach where they are needed
- Watch the next colors and leave room for them
- Aim for crossings: clearing 9 balls at once beats clearing 5 twice

Good luck!`
