package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// MaxSessionIDLength bounds client supplied session IDs
const MaxSessionIDLength = 64

// BoardFactory builds the board for a new session
type BoardFactory func(config *engine.BoardConfig) (*engine.Board, error)

// Manager keeps the live sessions in memory, keyed by lower-cased ID
type Manager struct {
	sessions map[string]*service.Session
	newBoard BoardFactory
	mu       sync.RWMutex
}

// NewManager creates a session manager whose boards use a time-seeded random source
func NewManager() *Manager {
	return NewManagerWithFactory(func(config *engine.BoardConfig) (*engine.Board, error) {
		return engine.NewBoard(config)
	})
}

// NewManagerWithFactory creates a session manager that builds boards with newBoard
func NewManagerWithFactory(newBoard BoardFactory) *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		newBoard: newBoard,
	}
}

// Create registers a new session. An empty id gets a generated one.
func (m *Manager) Create(id string, config *engine.BoardConfig) (*service.Session, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if config == nil {
		config = engine.DefaultBoardConfig()
	}

	board, err := m.newBoard(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	} else if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	sess := &service.Session{
		ID:        id,
		Board:     board,
		Config:    config,
		CreatedAt: now,
	}
	sess.Touch(now)
	m.sessions[strings.ToLower(id)] = sess

	log.Debug().Str("session", id).Str("config", config.Name).Msg("session created")
	return sess, nil
}

// Get retrieves a session by ID, ignoring case
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetOrCreate returns the session with id, creating it from config when missing
func (m *Manager) GetOrCreate(id string, config *engine.BoardConfig) (*service.Session, error) {
	sess, err := m.Get(id)
	if err == nil {
		return sess, nil
	}

	sess, err = m.Create(id, config)
	if errors.Is(err, ErrSessionAlreadyExists) {
		// lost a race with another creator
		return m.Get(id)
	}
	return sess, err
}

// List returns all live sessions in no particular order
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)

	log.Debug().Str("session", id).Msg("session deleted")
	return nil
}

// UpdateLastAccessed marks a session as used now
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	sess.Touch(time.Now())
	return nil
}

// CleanupExpiredSessions removes sessions idle for longer than maxAge,
// except those listed in keep, and returns how many were removed.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration, keep ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	pinned := make(map[string]bool, len(keep))
	for _, id := range keep {
		pinned[strings.ToLower(id)] = true
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, sess := range m.sessions {
		if pinned[key] || !sess.LastAccessed().Before(cutoff) {
			continue
		}
		delete(m.sessions, key)
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Dur("max_age", maxAge).Msg("expired sessions cleaned up")
	}
	return removed
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns a short unused ID. Callers hold the write lock.
func (m *Manager) generateSessionID() string {
	for {
		id := strings.SplitN(uuid.NewString(), "-", 2)[0]
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}

func validateID(id string) error {
	if len(id) > MaxSessionIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidSessionID, MaxSessionIDLength)
	}
	if strings.ContainsAny(id, " /?#\t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}
