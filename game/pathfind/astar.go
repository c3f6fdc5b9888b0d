package pathfind

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhadley519/kulki-too/game/engine"
)

var (
	// ErrSearchBoundExceeded means the search expanded more nodes than the board has cells
	ErrSearchBoundExceeded = errors.New("path search exceeded board size")
	// ErrBrokenPath means a closed node had no predecessor one step cheaper
	ErrBrokenPath = errors.New("path reconstruction found no predecessor")
)

// Grid is the read-only board geometry the search needs
type Grid interface {
	Size() engine.BoardSize
	FreeMovementNeighbors(pos engine.Position) []engine.Position
}

// CostedPosition is a search node: g is TravelCost, h is Estimate
type CostedPosition struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	TravelCost int `json:"travelCost"`
	Estimate   int `json:"estimate"`
}

// Position returns the cell of the node
func (c CostedPosition) Position() engine.Position {
	return engine.Position{X: c.X, Y: c.Y}
}

// Score is g + h
func (c CostedPosition) Score() int {
	return c.TravelCost + c.Estimate
}

// PathResult is the outcome of a search. FinalPath runs from the target back
// to the origin and is only set on success.
type PathResult struct {
	From       engine.Position  `json:"from"`
	To         engine.Position  `json:"to"`
	Success    bool             `json:"success"`
	OpenList   []CostedPosition `json:"openList"`
	ClosedList []CostedPosition `json:"closedList"`
	FinalPath  []CostedPosition `json:"finalPath,omitempty"`
}

// Steps returns the number of moves along the final path
func (r *PathResult) Steps() int {
	if len(r.FinalPath) == 0 {
		return 0
	}
	return len(r.FinalPath) - 1
}

// FindPath searches for the shortest orthogonal path from from to to through
// empty cells. An unreachable target is reported with Success false, not an
// error; errors only signal a search that broke its own bounds.
func FindPath(grid Grid, from, to engine.Position) (*PathResult, error) {
	result := &PathResult{
		From:       from,
		To:         to,
		OpenList:   []CostedPosition{},
		ClosedList: []CostedPosition{},
	}
	if from == to {
		return result, nil
	}

	s := &search{grid: grid, to: to}
	s.closed = append(s.closed, CostedPosition{X: from.X, Y: from.Y})
	s.open = append(s.open, s.expand(from, 0)...)

	limit := grid.Size().Cells()
	for iterations := 0; len(s.open) > 0; iterations++ {
		if iterations >= limit {
			return nil, fmt.Errorf("%w: %d iterations on %d cells", ErrSearchBoundExceeded, iterations, limit)
		}

		current := s.popBest()
		s.closed = append(s.closed, current)

		if current.Position() == to {
			path, err := s.finalPath(current, from)
			if err != nil {
				return nil, err
			}
			result.Success = true
			result.OpenList = s.open
			result.ClosedList = s.closed
			result.FinalPath = path
			return result, nil
		}

		for _, next := range s.expand(current.Position(), current.TravelCost) {
			if indexOf(s.closed, next) >= 0 {
				continue
			}
			i := indexOf(s.open, next)
			if i < 0 {
				s.open = append(s.open, next)
				continue
			}
			if s.open[i].TravelCost > next.TravelCost {
				s.open[i].TravelCost = next.TravelCost
			}
		}
	}

	result.OpenList = s.open
	result.ClosedList = s.closed
	return result, nil
}

type search struct {
	grid   Grid
	to     engine.Position
	open   []CostedPosition
	closed []CostedPosition
}

// expand costs the free neighbors of pos, kept in N, S, W, E order
func (s *search) expand(pos engine.Position, travelCost int) []CostedPosition {
	neighbors := s.grid.FreeMovementNeighbors(pos)
	nodes := make([]CostedPosition, 0, len(neighbors))
	for _, n := range neighbors {
		nodes = append(nodes, CostedPosition{
			X:          n.X,
			Y:          n.Y,
			TravelCost: travelCost + 1,
			Estimate:   engine.ManhattanDistance(n, s.to),
		})
	}
	return nodes
}

// popBest sorts the open list in place and removes its head. The sort is
// stable and its order persists, so ties go to the earliest inserted node.
func (s *search) popBest() CostedPosition {
	sort.SliceStable(s.open, func(i, j int) bool {
		return s.open[i].Score() < s.open[j].Score()
	})
	best := s.open[0]
	s.open = s.open[1:]
	return best
}

// finalPath walks back from the target through closed nodes, each step
// taking the first orthogonal neighbor exactly one move cheaper.
func (s *search) finalPath(current CostedPosition, from engine.Position) ([]CostedPosition, error) {
	path := []CostedPosition{current}
	for current.Position() != from {
		prev, ok := s.predecessor(current)
		if !ok {
			return nil, fmt.Errorf("%w: at (%d,%d) cost %d", ErrBrokenPath, current.X, current.Y, current.TravelCost)
		}
		path = append(path, prev)
		current = prev
	}
	return path, nil
}

func (s *search) predecessor(current CostedPosition) (CostedPosition, bool) {
	for _, node := range s.closed {
		if node.TravelCost == current.TravelCost-1 && engine.IsOrthogonalStep(node.Position(), current.Position()) {
			return node, true
		}
	}
	return CostedPosition{}, false
}

func indexOf(nodes []CostedPosition, node CostedPosition) int {
	for i, n := range nodes {
		if n.X == node.X && n.Y == node.Y {
			return i
		}
	}
	return -1
}
