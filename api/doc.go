// Package api provides the HTTP handlers for Kulki Too.
//
// Endpoints:
//
// Single board (the default session):
//   - GET|POST /start?width=&depth= - Reset and drop three balls, returns []Change
//   - POST /move - Play {from, to}, returns []Change (empty when rejected)
//   - POST /hover - Preview the path for {from, to}, returns the search lists
//   - GET /statistics - {emptyTileCount, score}
//
// Sessions:
//   - POST /api/sessions - Create a session from {config_id}
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET|DELETE /api/sessions/{id}
//   - POST /api/sessions/{id}/start - Optional {width, depth}
//   - POST /api/sessions/{id}/move
//   - POST /api/sessions/{id}/hover
//   - GET /api/sessions/{id}/statistics
//   - GET /api/sessions/{id}/board
//   - GET /api/sessions/{id}/history?page=&limit=&order=
//
// Configuration:
//   - GET /api/configs, POST /api/configs, GET /api/configs/{name}
//
// Other:
//   - GET /health
//   - GET /ws?session=<id> - WebSocket change feed
//   - everything else is served from ./static/
//
// Errors are returned as JSON with a matching status code:
//
//	{"error": "session not found"}
//
// 400 for malformed bodies, off-board positions and invalid sizes, 404 for
// unknown sessions and configs, 500 otherwise. Handler panics are logged and
// answered with 500.
package api
