package engine

import "time"

// Command identifies the kind of board delta sent to clients
type Command string

const (
	CommandAdd    Command = "ADD"
	CommandRemove Command = "REMOVE"

	// Board constants
	DefaultWidth  = 9
	DefaultDepth  = 9
	DefaultColors = 6
	MinBoardSize  = 5
	MaxBoardSize  = 50
	MinColors     = 2
	MaxColors     = 9
	BallsPerTurn  = 3
	MatchLength   = 5
	EmptyColor    = 0
)

// TurnStatus tags the outcome of a start, fill or move
type TurnStatus string

const (
	// TurnContinue means the turn was applied and the game goes on
	TurnContinue TurnStatus = "continue"
	// TurnBoardFull means new balls could not be injected: the game is over
	TurnBoardFull TurnStatus = "board_full"
	// TurnRejected means nothing was applied (no ball at from, or unreachable target)
	TurnRejected TurnStatus = "rejected"
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoardSize is the grid dimension; depth is the number of rows
type BoardSize struct {
	Width int `json:"width"`
	Depth int `json:"depth"`
}

// Cells returns the total number of tiles
func (s BoardSize) Cells() int {
	return s.Width * s.Depth
}

// Change is a single board delta. ADD carries a color, REMOVE does not.
type Change struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Color   int     `json:"color,omitempty"`
	Command Command `json:"command"`
}

// Position returns the tile the change applies to
func (c Change) Position() Position {
	return Position{X: c.X, Y: c.Y}
}

// AddBall builds an ADD change
func AddBall(pos Position, color int) Change {
	return Change{X: pos.X, Y: pos.Y, Color: color, Command: CommandAdd}
}

// RemoveBall builds a REMOVE change
func RemoveBall(pos Position) Change {
	return Change{X: pos.X, Y: pos.Y, Command: CommandRemove}
}

// MovePath is a requested move or path preview
type MovePath struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Statistics summarizes the board for clients
type Statistics struct {
	EmptyTileCount int `json:"emptyTileCount"`
	Score          int `json:"score"`
}

// TurnResult is the tagged outcome of Start, FillThree and ResolveMove
type TurnResult struct {
	Status  TurnStatus `json:"status"`
	Changes []Change   `json:"changes"`
}

// GameOver reports whether the board could not take more balls
func (r TurnResult) GameOver() bool {
	return r.Status == TurnBoardFull
}

// Added returns the ADD changes of the turn
func (r TurnResult) Added() []Change {
	return filterChanges(r.Changes, CommandAdd)
}

// Removed returns the REMOVE changes of the turn
func (r TurnResult) Removed() []Change {
	return filterChanges(r.Changes, CommandRemove)
}

func filterChanges(changes []Change, cmd Command) []Change {
	out := []Change{}
	for _, c := range changes {
		if c.Command == cmd {
			out = append(out, c)
		}
	}
	return out
}

// BoardConfig represents a board configuration loaded from JSON
type BoardConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Depth       int    `json:"depth"`
	Colors      int    `json:"colors"`
	EnforcePath bool   `json:"enforce_path"`
}

// Size returns the configured board size
func (c *BoardConfig) Size() BoardSize {
	return BoardSize{Width: c.Width, Depth: c.Depth}
}

// BoardState is the read model of a board
type BoardState struct {
	Size           BoardSize `json:"size"`
	Colors         int       `json:"colors"`
	Cells          [][]int   `json:"cells"`
	NextColors     []int     `json:"next_colors"`
	Score          int       `json:"score"`
	EmptyTileCount int       `json:"empty_tile_count"`
	GameOver       bool      `json:"game_over"`
	Game           int       `json:"game"`
	TotalMoves     int       `json:"total_moves"`
}

// TurnRecord represents a single resolved move in the board history
type TurnRecord struct {
	MoveNumber  int        `json:"move_number"`
	Game        int        `json:"game"`
	From        Position   `json:"from"`
	To          Position   `json:"to"`
	Status      TurnStatus `json:"status"`
	Injected    int        `json:"injected"`
	Cleared     int        `json:"cleared"`
	ScoreGained int        `json:"score_gained"`
	Score       int        `json:"score"`
	Timestamp   int64      `json:"timestamp"`
}

func newTurnRecord(game, number int, move MovePath, status TurnStatus, injected, cleared, before, after int) TurnRecord {
	return TurnRecord{
		MoveNumber:  number,
		Game:        game,
		From:        move.From,
		To:          move.To,
		Status:      status,
		Injected:    injected,
		Cleared:     cleared,
		ScoreGained: after - before,
		Score:       after,
		Timestamp:   time.Now().Unix(),
	}
}
