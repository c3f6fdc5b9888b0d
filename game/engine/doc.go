// Package engine provides the core rules of the Kulki Too ball game.
//
// A Board holds a width x depth grid of colored balls. Each turn the player
// moves one ball; any line of five or more balls of the same color through
// the target cell (horizontal, vertical or diagonal) is cleared and scores
// count squared. A move that clears nothing drops three new balls at random
// empty cells, and those may clear lines of their own. The game is over
// when the board has no room left for a new ball.
//
// Reachability of the target is not the engine's concern; see the pathfind
// package.
//
// Usage:
//
//	board, err := engine.NewBoard(engine.DefaultBoardConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board.Start()
//	result := board.ResolveMove(engine.Position{X: 0, Y: 0}, engine.Position{X: 4, Y: 4})
//	if result.GameOver() {
//		fmt.Println("final score:", board.Score())
//	}
package engine
