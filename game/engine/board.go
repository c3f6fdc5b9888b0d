package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrOutOfBounds    = errors.New("position is off the board")
	ErrInvalidColor   = errors.New("invalid ball color")
	ErrInvalidSize    = errors.New("invalid board size")
	ErrQueueExhausted = errors.New("next color queue exhausted")
)

// Board owns the grid, the next-color queue, the score and the turn history.
// All methods are safe for concurrent use.
type Board struct {
	mu         sync.Mutex
	config     *BoardConfig
	grid       *Grid
	next       []int
	score      int
	rng        *rand.Rand
	gameOver   bool
	game       int
	history    []TurnRecord
	totalMoves int
}

// Option customizes a Board at construction time
type Option func(*Board)

// WithRand sets the random source used for colors and positions
func WithRand(r *rand.Rand) Option {
	return func(b *Board) {
		b.rng = r
	}
}

// WithSeed seeds the random source, making a board reproducible
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// NewBoard creates an empty board for the provided configuration.
// A nil config uses DefaultBoardConfig.
func NewBoard(config *BoardConfig, opts ...Option) (*Board, error) {
	if config == nil {
		config = DefaultBoardConfig()
	}
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	b := &Board{
		config:  config,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		history: []TurnRecord{},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.resetLocked(config.Size())
	return b, nil
}

// Config returns the board configuration
func (b *Board) Config() *BoardConfig {
	return b.config
}

// Reset clears the grid, zeroes the score and regenerates the next colors.
// History is kept; the next moves count towards a new game number.
func (b *Board) Reset(size BoardSize) error {
	if err := ValidateBoardSize(size); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked(size)
	return nil
}

func (b *Board) resetLocked(size BoardSize) {
	b.grid = NewGrid(size)
	b.score = 0
	b.gameOver = false
	b.game++
	b.randomNextColors()
}

// Start regenerates the next colors and drops the first three balls
func (b *Board) Start() TurnResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.randomNextColors()
	return b.fillThreeLocked()
}

// FillThree places the queued colors on three random empty cells.
// It reports TurnBoardFull when the board fills up before three balls fit.
func (b *Board) FillThree() TurnResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fillThreeLocked()
}

func (b *Board) fillThreeLocked() TurnResult {
	size := b.grid.Size()
	added := make([]Change, 0, BallsPerTurn)

	for i := 0; i < BallsPerTurn; {
		if b.grid.IsFull() {
			b.gameOver = true
			return TurnResult{Status: TurnBoardFull, Changes: []Change{}}
		}

		pos := Position{X: b.rng.Intn(size.Width), Y: b.rng.Intn(size.Depth)}
		if b.grid.IsOccupied(pos) {
			continue
		}

		if i >= len(b.next) {
			panic(fmt.Errorf("%w: ball %d requested, %d queued", ErrQueueExhausted, i+1, len(b.next)))
		}
		color := b.next[i]
		b.grid.set(pos, color)
		added = append(added, AddBall(pos, color))
		i++
	}

	b.randomNextColors()
	return TurnResult{Status: TurnContinue, Changes: added}
}

func (b *Board) randomNextColors() {
	b.next = make([]int, BallsPerTurn)
	for i := range b.next {
		b.next[i] = b.rng.Intn(b.config.Colors) + 1
	}
}

// IsOccupied reports whether a ball sits at pos
func (b *Board) IsOccupied(pos Position) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.IsOccupied(pos)
}

// ColorAt returns the ball color at pos, EmptyColor if none
func (b *Board) ColorAt(pos Position) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.ColorAt(pos)
}

// MatchNeighbors returns the in-bounds cells surrounding pos
func (b *Board) MatchNeighbors(pos Position) []Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.MatchNeighbors(pos)
}

// MovementNeighbors returns the in-bounds orthogonal neighbors of pos
func (b *Board) MovementNeighbors(pos Position) []Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.MovementNeighbors(pos)
}

// FreeMovementNeighbors returns the empty orthogonal neighbors of pos
func (b *Board) FreeMovementNeighbors(pos Position) []Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.FreeMovementNeighbors(pos)
}

// Move relocates the ball at from to to. It only fails when from is empty
// or either position is off the board; reachability is not checked here.
func (b *Board) Move(from, to Position) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moveLocked(from, to)
}

func (b *Board) moveLocked(from, to Position) bool {
	if !b.grid.InBounds(to) {
		return false
	}
	color := b.grid.ColorAt(from)
	if color == EmptyColor {
		return false
	}
	b.grid.release(from)
	b.grid.set(to, color)
	return true
}

// MatchResolve clears every line of MatchLength or more through pos and
// adds count squared to the score, where count is all balls removed.
func (b *Board) MatchResolve(pos Position) []Change {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.matchResolveLocked(pos)
}

func (b *Board) matchResolveLocked(pos Position) []Change {
	line := b.grid.MatchLine(pos)
	removals := make([]Change, 0, len(line))
	for _, p := range line {
		b.grid.release(p)
		removals = append(removals, RemoveBall(p))
	}
	b.score += len(removals) * len(removals)
	return removals
}

// ResolveMove plays one full turn: move, match at the target, and when
// nothing matched inject three balls and resolve matches they create.
// Each injected ball is resolved in placement order, so a ball cleared by
// an earlier one yields no further removals.
func (b *Board) ResolveMove(from, to Position) TurnResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	before := b.score
	result, injected, cleared := b.resolveMoveLocked(from, to)
	b.recordTurn(MovePath{From: from, To: to}, result.Status, injected, cleared, before)
	return result
}

func (b *Board) resolveMoveLocked(from, to Position) (TurnResult, int, int) {
	if !b.moveLocked(from, to) {
		return TurnResult{Status: TurnRejected, Changes: []Change{}}, 0, 0
	}
	color := b.grid.ColorAt(to)
	if color == EmptyColor {
		return TurnResult{Status: TurnRejected, Changes: []Change{}}, 0, 0
	}

	changes := []Change{RemoveBall(from), AddBall(to, color)}

	if removals := b.matchResolveLocked(to); len(removals) > 0 {
		changes = append(changes, removals...)
		return TurnResult{Status: TurnContinue, Changes: changes}, 0, len(removals)
	}

	// All ADDs go out before any removal so clients can replay the list in order
	fill := b.fillThreeLocked()
	changes = append(changes, fill.Changes...)
	cleared := 0
	for _, added := range fill.Changes {
		removals := b.matchResolveLocked(added.Position())
		changes = append(changes, removals...)
		cleared += len(removals)
	}
	return TurnResult{Status: fill.Status, Changes: changes}, len(fill.Changes), cleared
}

func (b *Board) recordTurn(move MovePath, status TurnStatus, injected, cleared, before int) {
	b.totalMoves++
	b.history = append(b.history, newTurnRecord(b.game, b.totalMoves, move, status, injected, cleared, before, b.score))
}

// Place puts a ball of the given color at pos, replacing any ball there
func (b *Board) Place(pos Position, color int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.grid.InBounds(pos) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, pos.X, pos.Y)
	}
	if color < 1 || color > b.config.Colors {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidColor, color, b.config.Colors)
	}
	b.grid.set(pos, color)
	return nil
}

// Statistics returns the empty tile count and score
func (b *Board) Statistics() Statistics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Statistics{
		EmptyTileCount: b.grid.Size().Cells() - b.grid.OccupiedCount(),
		Score:          b.score,
	}
}

// Score returns the current score
func (b *Board) Score() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.score
}

// Size returns the current board size
func (b *Board) Size() BoardSize {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Size()
}

// NextColors returns a copy of the queued colors
func (b *Board) NextColors() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.next...)
}

// IsGameOver reports whether the last injection ran out of room
func (b *Board) IsGameOver() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gameOver
}

// Snapshot returns a copy of the grid for read-only consumers such as path search
func (b *Board) Snapshot() *Grid {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Clone()
}

// History returns a copy of all recorded turns
func (b *Board) History() []TurnRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]TurnRecord{}, b.history...)
}

// State returns the read model of the board
func (b *Board) State() *BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.grid.Size()
	return &BoardState{
		Size:           size,
		Colors:         b.config.Colors,
		Cells:          b.grid.Rows(),
		NextColors:     append([]int(nil), b.next...),
		Score:          b.score,
		EmptyTileCount: size.Cells() - b.grid.OccupiedCount(),
		GameOver:       b.gameOver,
		Game:           b.game,
		TotalMoves:     b.totalMoves,
	}
}
