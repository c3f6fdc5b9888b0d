package engine

import "fmt"

// Direction is one of the eight compass steps on the grid
type Direction int

const (
	North Direction = iota
	South
	West
	East
	NorthWest
	SouthWest
	SouthEast
	NorthEast
)

var directionOffsets = map[Direction]struct{ dx, dy int }{
	North:     {0, -1},
	South:     {0, 1},
	West:      {-1, 0},
	East:      {1, 0},
	NorthWest: {-1, -1},
	SouthWest: {-1, 1},
	SouthEast: {1, 1},
	NorthEast: {1, -1},
}

// MovementDirections are the orthogonal steps a ball may travel along
var MovementDirections = []Direction{North, South, West, East}

// MatchDirections are all eight steps used when scanning for lines
var MatchDirections = []Direction{North, South, West, East, NorthWest, SouthWest, SouthEast, NorthEast}

// matchAxes pairs opposing directions; a line is counted along both halves
var matchAxes = [][2]Direction{
	{North, South},
	{West, East},
	{NorthWest, SouthEast},
	{NorthEast, SouthWest},
}

// Grid holds the colors of a width x depth board. Zero means empty.
// Grid is not safe for concurrent use; Board wraps it with a mutex and
// hands out copies through Snapshot.
type Grid struct {
	size  BoardSize
	cells [][]int
}

// NewGrid creates an empty grid
func NewGrid(size BoardSize) *Grid {
	cells := make([][]int, size.Depth)
	for y := range cells {
		cells[y] = make([]int, size.Width)
	}
	return &Grid{size: size, cells: cells}
}

// Size returns the grid dimension
func (g *Grid) Size() BoardSize {
	return g.size
}

// InBounds checks if the position is on the board
func (g *Grid) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < g.size.Width && pos.Y < g.size.Depth
}

// ColorAt returns the color at pos, or EmptyColor when empty or off the board
func (g *Grid) ColorAt(pos Position) int {
	if !g.InBounds(pos) {
		return EmptyColor
	}
	return g.cells[pos.Y][pos.X]
}

// IsOccupied reports whether a ball sits at pos
func (g *Grid) IsOccupied(pos Position) bool {
	return g.ColorAt(pos) != EmptyColor
}

// Neighbor returns the adjacent position in the given direction, if on the board
func (g *Grid) Neighbor(pos Position, dir Direction) (Position, bool) {
	off := directionOffsets[dir]
	n := Position{X: pos.X + off.dx, Y: pos.Y + off.dy}
	if !g.InBounds(n) {
		return Position{}, false
	}
	return n, true
}

// MatchNeighbors returns the in-bounds cells among the 8 surrounding pos
func (g *Grid) MatchNeighbors(pos Position) []Position {
	return g.neighbors(pos, MatchDirections, false)
}

// MovementNeighbors returns the in-bounds orthogonal neighbors of pos (N, S, W, E)
func (g *Grid) MovementNeighbors(pos Position) []Position {
	return g.neighbors(pos, MovementDirections, false)
}

// FreeMovementNeighbors returns the empty orthogonal neighbors of pos (N, S, W, E)
func (g *Grid) FreeMovementNeighbors(pos Position) []Position {
	return g.neighbors(pos, MovementDirections, true)
}

func (g *Grid) neighbors(pos Position, dirs []Direction, freeOnly bool) []Position {
	result := make([]Position, 0, len(dirs))
	for _, dir := range dirs {
		n, ok := g.Neighbor(pos, dir)
		if !ok {
			continue
		}
		if freeOnly && g.IsOccupied(n) {
			continue
		}
		result = append(result, n)
	}
	return result
}

// OccupiedCount counts the cells holding a ball
func (g *Grid) OccupiedCount() int {
	count := 0
	for _, row := range g.cells {
		for _, color := range row {
			if color != EmptyColor {
				count++
			}
		}
	}
	return count
}

// IsFull reports whether every cell holds a ball
func (g *Grid) IsFull() bool {
	return g.OccupiedCount() == g.size.Cells()
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.size)
	for y, row := range g.cells {
		copy(c.cells[y], row)
	}
	return c
}

// Rows returns a copy of the cells, row-major by y
func (g *Grid) Rows() [][]int {
	return g.Clone().cells
}

func (g *Grid) set(pos Position, color int) {
	g.cells[pos.Y][pos.X] = color
}

// release empties pos and reports whether a ball was there
func (g *Grid) release(pos Position) bool {
	if !g.IsOccupied(pos) {
		return false
	}
	g.cells[pos.Y][pos.X] = EmptyColor
	return true
}

// GridFromRows builds a grid from row-major cells such as BoardState.Cells
func GridFromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidSize)
	}
	g := NewGrid(BoardSize{Width: len(rows[0]), Depth: len(rows)})
	for y, row := range rows {
		if len(row) != g.size.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSize, y, len(row), g.size.Width)
		}
		copy(g.cells[y], row)
	}
	return g, nil
}
