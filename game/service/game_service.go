package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/pathfind"
)

// DefaultSessionID names the process-wide board used by the legacy routes.
// It is created on first use and shared by every caller that does not
// name a session.
const DefaultSessionID = "default"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Start(ctx context.Context, sessionID string, size *engine.BoardSize) (*TurnResponse, error)
	Move(ctx context.Context, sessionID string, move engine.MovePath) (*MoveResult, error)
	Preview(ctx context.Context, sessionID string, move engine.MovePath) (*pathfind.PathResult, error)

	// Game State
	Statistics(ctx context.Context, sessionID string) (*engine.Statistics, error)
	GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.BoardConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
}

// Session represents an active game session
type Session struct {
	ID        string
	Board     *engine.Board
	Config    *engine.BoardConfig
	CreatedAt time.Time

	mu         sync.Mutex
	accessedAt time.Time
}

// Touch records at as the last time the session was used
func (s *Session) Touch(at time.Time) {
	s.mu.Lock()
	s.accessedAt = at
	s.mu.Unlock()
}

// LastAccessed returns the last time the session was used
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessedAt
}
