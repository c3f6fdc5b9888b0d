package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/service"
	"github.com/dhadley519/kulki-too/transport/websocket"
)

// Legacy single-board handlers. They answer with bare change lists the way
// the original browser client expects.

func (s *Server) handleLegacyStart(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	width, err := optionalInt(query.Get("width"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "width must be a number")
		return
	}
	depth, err := optionalInt(query.Get("depth"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "depth must be a number")
		return
	}

	turn, ok := s.start(w, r, service.DefaultSessionID, width, depth)
	if !ok {
		return
	}
	if turn.GameOver {
		respondJSON(w, http.StatusOK, []engine.Change{})
		return
	}
	respondJSON(w, http.StatusOK, turn.Changes)
}

func (s *Server) handleLegacyMove(w http.ResponseWriter, r *http.Request) {
	result, ok := s.move(w, r, service.DefaultSessionID, respondLegacyMoveError)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, result.Changes)
}

// respondLegacyMoveError answers off-board moves with an empty change list,
// which is what legacy clients expect for a move that does nothing.
func respondLegacyMoveError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrOutOfBounds) {
		respondJSON(w, http.StatusOK, []engine.Change{})
		return
	}
	respondServiceError(w, err)
}

func (s *Server) handleLegacyHover(w http.ResponseWriter, r *http.Request) {
	s.hover(w, r, service.DefaultSessionID)
}

func (s *Server) handleLegacyStatistics(w http.ResponseWriter, r *http.Request) {
	s.statistics(w, r, service.DefaultSessionID)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default)
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < total {
		sessions = sessions[:l]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width *int `json:"width,omitempty"`
		Depth *int `json:"depth,omitempty"`
	}
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	turn, ok := s.start(w, r, mux.Vars(r)["id"], req.Width, req.Depth)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, turn)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	result, ok := s.move(w, r, mux.Vars(r)["id"], respondServiceError)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	s.hover(w, r, mux.Vars(r)["id"])
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.statistics(w, r, mux.Vars(r)["id"])
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetBoardState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		opts.Limit = l
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Shared game operations

// start fills in a missing width or depth from the current board before
// restarting. It writes the error response itself.
func (s *Server) start(w http.ResponseWriter, r *http.Request, sessionID string, width, depth *int) (*service.TurnResponse, bool) {
	var size *engine.BoardSize
	if width != nil || depth != nil {
		state, err := s.service.GetBoardState(r.Context(), sessionID)
		if err != nil {
			respondServiceError(w, err)
			return nil, false
		}
		size = &engine.BoardSize{Width: state.Size.Width, Depth: state.Size.Depth}
		if width != nil {
			size.Width = *width
		}
		if depth != nil {
			size.Depth = *depth
		}
	}

	turn, err := s.service.Start(r.Context(), sessionID, size)
	if err != nil {
		respondServiceError(w, err)
		return nil, false
	}

	s.broadcastTurn(turn.SessionID, websocket.EventStart, turn.Changes, turn.Statistics, turn.GameOver)
	return turn, true
}

func (s *Server) move(w http.ResponseWriter, r *http.Request, sessionID string, respondErr func(http.ResponseWriter, error)) (*service.MoveResult, bool) {
	var move engine.MovePath
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	result, err := s.service.Move(r.Context(), sessionID, move)
	if err != nil {
		respondErr(w, err)
		return nil, false
	}

	log.Info().
		Str("session", result.SessionID).
		Interface("from", move.From).
		Interface("to", move.To).
		Str("status", string(result.Status)).
		Int("score", result.Statistics.Score).
		Msg("move")

	s.broadcastTurn(result.SessionID, websocket.EventMove, result.Changes, result.Statistics, result.Status == engine.TurnBoardFull)
	return result, true
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request, sessionID string) {
	var move engine.MovePath
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Preview(r.Context(), sessionID, move)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request, sessionID string) {
	stats, err := s.service.Statistics(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id"`
		engine.BoardConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(req.Name), " ", "-"))
	}

	if err := s.service.SaveConfig(r.Context(), configID, &req.BoardConfig); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session parameter required")
		return
	}
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket updates are disabled")
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.hub.ServeWS(w, r, info.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func optionalInt(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// decodeOptional decodes a JSON body, treating an empty body as no input
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
