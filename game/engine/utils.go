package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// IsOrthogonalStep reports whether a and b are one movement step apart
func IsOrthogonalStep(a, b Position) bool {
	return ManhattanDistance(a, b) == 1
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
