package service

import (
	"time"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/pathfind"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	EnforcePath    bool                `json:"enforce_path"`
	Board          *engine.BoardState  `json:"board"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// TurnResponse is returned when a game starts
type TurnResponse struct {
	SessionID  string            `json:"session_id"`
	Status     engine.TurnStatus `json:"status"`
	Changes    []engine.Change   `json:"changes"`
	Statistics engine.Statistics `json:"statistics"`
	NextColors []int             `json:"next_colors"`
	GameOver   bool              `json:"game_over"`
}

// MoveResult contains the result of a move
type MoveResult struct {
	SessionID   string               `json:"session_id"`
	Success     bool                 `json:"success"`
	Status      engine.TurnStatus    `json:"status"`
	Message     string               `json:"message"`
	Changes     []engine.Change      `json:"changes"`
	Statistics  engine.Statistics    `json:"statistics"`
	ScoreGained int                  `json:"score_gained"`
	NextColors  []int                `json:"next_colors"`
	GameOver    bool                 `json:"game_over"`
	Path        *pathfind.PathResult `json:"path,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.TurnRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // identifier used for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Depth       int    `json:"depth"`
	Colors      int    `json:"colors"`
	EnforcePath bool   `json:"enforce_path"`
}
