package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/pathfind"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	enforcePath bool
	mu          sync.RWMutex
}

// Option customizes the game service
type Option func(*gameServiceImpl)

// WithEnforcePath rejects moves without a free path in every session,
// regardless of the session's configuration.
func WithEnforcePath(enforce bool) Option {
	return func(s *gameServiceImpl) {
		s.enforcePath = enforce
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// session resolves a session ID. The default session is created on first use.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	if sessionID == "" || strings.EqualFold(sessionID, DefaultSessionID) {
		sess, err := s.sessions.GetOrCreate(DefaultSessionID, s.configs.GetDefault())
		if err != nil {
			return nil, fmt.Errorf("failed to open default session: %w", err)
		}
		return sess, nil
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sess.ID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		EnforcePath:    s.enforces(sess),
		Board:          sess.Board.State(),
		BoardConfig:    sess.Config,
	}
}

func (s *gameServiceImpl) enforces(sess *Session) bool {
	return s.enforcePath || (sess.Config != nil && sess.Config.EnforcePath)
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info := s.sessionInfo(sess)
	if configName != "" {
		info.ConfigName = strings.TrimSuffix(configName, ".json")
	}
	log.Info().Str("session", sess.ID).Str("config", info.ConfigName).Msg("session created")
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, s.sessionInfo(sess))
	}
	return infos, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Start resets the board, optionally to a new size, and drops the first three balls
func (s *gameServiceImpl) Start(ctx context.Context, sessionID string, size *engine.BoardSize) (*TurnResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	target := sess.Board.Size()
	if size != nil {
		target = *size
	}
	if err := sess.Board.Reset(target); err != nil {
		return nil, err
	}
	result := sess.Board.Start()
	stats := sess.Board.Statistics()

	log.Info().
		Str("session", sess.ID).
		Int("width", target.Width).
		Int("depth", target.Depth).
		Msg("game started")

	return &TurnResponse{
		SessionID:  sess.ID,
		Status:     result.Status,
		Changes:    result.Changes,
		Statistics: stats,
		NextColors: sess.Board.NextColors(),
		GameOver:   result.GameOver(),
	}, nil
}

// Move plays one turn. When path enforcement is on, a move with no free
// path is rejected before the board is touched.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, move engine.MovePath) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkMove(sess.Board, move); err != nil {
		return nil, err
	}

	var path *pathfind.PathResult
	if s.enforces(sess) {
		path, err = pathfind.FindPath(sess.Board.Snapshot(), move.From, move.To)
		if err != nil {
			return nil, fmt.Errorf("path search failed: %w", err)
		}
		if !path.Success {
			log.Debug().Str("session", sess.ID).Interface("move", move).Msg("move rejected, no free path")
			return &MoveResult{
				SessionID:  sess.ID,
				Status:     engine.TurnRejected,
				Message:    fmt.Sprintf("No free path from (%d,%d) to (%d,%d)", move.From.X, move.From.Y, move.To.X, move.To.Y),
				Changes:    []engine.Change{},
				Statistics: sess.Board.Statistics(),
				NextColors: sess.Board.NextColors(),
				GameOver:   sess.Board.IsGameOver(),
				Path:       path,
			}, nil
		}
	}

	before := sess.Board.Score()
	result := sess.Board.ResolveMove(move.From, move.To)
	stats := sess.Board.Statistics()

	log.Debug().
		Str("session", sess.ID).
		Interface("move", move).
		Str("status", string(result.Status)).
		Int("changes", len(result.Changes)).
		Int("score", stats.Score).
		Msg("move resolved")

	return &MoveResult{
		SessionID:   sess.ID,
		Success:     result.Status != engine.TurnRejected,
		Status:      result.Status,
		Message:     moveMessage(result, stats.Score-before),
		Changes:     result.Changes,
		Statistics:  stats,
		ScoreGained: stats.Score - before,
		NextColors:  sess.Board.NextColors(),
		GameOver:    sess.Board.IsGameOver(),
		Path:        path,
	}, nil
}

func moveMessage(result engine.TurnResult, gained int) string {
	switch {
	case result.Status == engine.TurnRejected:
		return "Move rejected: no ball at the starting cell"
	case result.Status == engine.TurnBoardFull:
		return "Board is full. Game over!"
	case gained > 0:
		return fmt.Sprintf("Cleared %d balls for %d points", len(result.Removed()), gained)
	default:
		return fmt.Sprintf("%d new balls dropped", len(result.Added()))
	}
}

// checkMove rejects positions off the current board
func checkMove(board *engine.Board, move engine.MovePath) error {
	size := board.Size()
	for _, p := range []engine.Position{move.From, move.To} {
		if p.X < 0 || p.Y < 0 || p.X >= size.Width || p.Y >= size.Depth {
			return fmt.Errorf("%w: (%d,%d) on a %dx%d board", engine.ErrOutOfBounds, p.X, p.Y, size.Width, size.Depth)
		}
	}
	return nil
}

// Preview runs the path search on a snapshot of the board without moving anything
func (s *gameServiceImpl) Preview(ctx context.Context, sessionID string, move engine.MovePath) (*pathfind.PathResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkMove(sess.Board, move); err != nil {
		return nil, err
	}
	return pathfind.FindPath(sess.Board.Snapshot(), move.From, move.To)
}

// Statistics returns the empty tile count and score
func (s *gameServiceImpl) Statistics(ctx context.Context, sessionID string) (*engine.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	stats := sess.Board.Statistics()
	return &stats, nil
}

// GetBoardState returns the full board read model
func (s *gameServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Board.State(), nil
}

// GetMoveHistory returns paginated turn history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Board.History()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.TurnRecord{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}
