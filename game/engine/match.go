package engine

// MatchLine returns the balls cleared by a match through pos: every axis
// whose runs on both sides of pos add up to MatchLength-1 or more, followed
// by pos itself. The result is empty when pos is empty or nothing lines up.
func (g *Grid) MatchLine(pos Position) []Position {
	color := g.ColorAt(pos)
	if color == EmptyColor {
		return nil
	}

	var line []Position
	for _, axis := range matchAxes {
		run := g.run(pos, color, axis[0])
		run = append(run, g.run(pos, color, axis[1])...)
		if len(run) >= MatchLength-1 {
			line = append(line, run...)
		}
	}

	if len(line) == 0 {
		return nil
	}
	return append(line, pos)
}

// run walks from pos in dir while the color holds, excluding pos
func (g *Grid) run(pos Position, color int, dir Direction) []Position {
	var run []Position
	for {
		next, ok := g.Neighbor(pos, dir)
		if !ok || g.ColorAt(next) != color {
			return run
		}
		run = append(run, next)
		pos = next
	}
}
