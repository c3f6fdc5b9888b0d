// Package mcp exposes Kulki Too to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is turned into a request
// against the REST API, and the JSON response is rendered as text.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: board management
//   - start_game: reset a board and drop the first three balls
//   - move_ball: play one turn
//   - preview_path: search for a free path without moving
//   - board_state, statistics, move_history: read the board
//   - describe_cell: color, free steps and same-colored neighbors of one cell
//   - list_configs, game_instructions
//
// Tools that take a session_id fall back to the shared "default" board.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
