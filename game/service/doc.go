// Package service provides the business logic layer for Kulki Too.
//
// The service package implements:
//   - Multi-session board management
//   - Configuration lookup for new sessions
//   - Turn processing with optional path enforcement
//   - Paginated turn history
//
// Core Interfaces:
//
// GameService is the main service interface used by the HTTP, WebSocket and
// MCP transports. SessionManager stores sessions; ConfigManager loads board
// configurations.
//
// The session named DefaultSessionID is created on first use with the
// default configuration. The legacy /start, /move, /hover and /statistics
// routes all operate on it.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "small")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	turn, _ := gameService.Start(ctx, info.ID, nil)
//	result, err := gameService.Move(ctx, info.ID, engine.MovePath{
//		From: engine.Position{X: turn.Changes[0].X, Y: turn.Changes[0].Y},
//		To:   engine.Position{X: 0, Y: 0},
//	})
//
// Every service method serializes on a single lock so that a path check
// and the move it guards see the same board.
package service
