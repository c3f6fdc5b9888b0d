// Package pathfind decides whether a ball can travel between two cells.
//
// Balls move one orthogonal step at a time and only through empty cells.
// FindPath runs an A* search with the Manhattan distance as heuristic and
// returns the shortest path together with the open and closed lists it
// finished with, so that clients can highlight what the search explored.
//
// The search reads the board through the small Grid interface; an
// *engine.Grid snapshot satisfies it.
package pathfind
