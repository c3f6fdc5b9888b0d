package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/pathfind"
	"github.com/dhadley519/kulki-too/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Kulki Too",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Kulki Too - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Line up five or more balls of the same color (row, column or diagonal) to clear them.
Every move that clears nothing drops three new balls. The game ends when the board is full.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: manage boards
- start_game: reset a board and drop the first three balls
- move_ball: move a ball from one cell to another
- preview_path: check whether a ball can reach a cell without moving it
- board_state: show the board as a grid of color digits
- statistics: score and empty tile count
- move_history: past turns
- list_configs: available board configurations
- game_instructions: full rules and strategy
- describe_cell: details about one cell

Omit session_id to play on the shared "default" board.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID (optional, defaults to the shared board)",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func moveSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionProperty(),
			"from_x":     intProperty("Column of the ball to move (0-based)"),
			"from_y":     intProperty("Row of the ball to move (0-based)"),
			"to_x":       intProperty("Target column (0-based)"),
			"to_y":       intProperty("Target row (0-based)"),
		},
		Required: []string{"from_x", "from_y", "to_x", "to_y"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active boards",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Clear the board, reset the score and drop three balls",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"width":      intProperty("New board width (optional)"),
				"depth":      intProperty("New board depth (optional)"),
			},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_ball",
		Description: "Move a ball and play one turn",
		InputSchema: moveSchema(),
	}, c.handleMoveBall)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_path",
		Description: "Check whether a ball can travel to a cell through empty cells",
		InputSchema: moveSchema(),
	}, c.handlePreviewPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "statistics",
		Description: "Get the score and the number of empty tiles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
		},
	}, c.handleStatistics)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Show the board, the next colors and the score",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get turn history with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page":       intProperty("Page number (default 1)"),
				"limit":      intProperty("Turns per page (default 20, max 100)"),
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first (default desc)",
				},
			},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules and strategy tips",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the color of a cell and where a ball there could move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x":          intProperty("Column (0-based)"),
				"y":          intProperty("Row (0-based)"),
			},
			Required: []string{"x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(request mcp.CallToolRequest, suffix string) string {
	id := request.GetString("session_id", service.DefaultSessionID)
	return "/api/sessions/" + url.PathEscape(id) + suffix
}

func movePath(request mcp.CallToolRequest) (engine.MovePath, error) {
	var err error
	var move engine.MovePath
	if move.From.X, err = request.RequireInt("from_x"); err != nil {
		return move, err
	}
	if move.From.Y, err = request.RequireInt("from_y"); err != nil {
		return move, err
	}
	if move.To.X, err = request.RequireInt("to_x"); err != nil {
		return move, err
	}
	if move.To.Y, err = request.RequireInt("to_y"); err != nil {
		return move, err
	}
	return move, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n%s", session.ID, formatSessionInfo(&session))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score := 0
		if s.Board != nil {
			score = s.Board.Score
		}
		result += fmt.Sprintf("- %s (Config: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, score, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]int{}
	args := request.GetArguments()
	if _, ok := args["width"]; ok {
		body["width"] = request.GetInt("width", 0)
	}
	if _, ok := args["depth"]; ok {
		body["depth"] = request.GetInt("depth", 0)
	}

	var turn service.TurnResponse
	if err := c.apiCall(ctx, "POST", sessionPath(request, "/start"), body, &turn); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTurn(&turn)), nil
}

func (c *Client) handleMoveBall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	move, err := movePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(request, "/move"), move, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handlePreviewPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	move, err := movePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result pathfind.PathResult
	if err := c.apiCall(ctx, "POST", sessionPath(request, "/hover"), move, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPath(&result)), nil
}

func (c *Client) handleStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats engine.Statistics
	if err := c.apiCall(ctx, "GET", sessionPath(request, "/statistics"), nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Score: %d\nEmpty tiles: %d", stats.Score, stats.EmptyTileCount)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state engine.BoardState
	if err := c.apiCall(ctx, "GET", sessionPath(request, "/board"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoardState(&state)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		query.Set("order", order)
	}

	path := sessionPath(request, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Board: %dx%d, Colors: %d",
			config.Name, config.ConfigID, config.Description, config.Width, config.Depth, config.Colors)
		if config.EnforcePath {
			result += ", path required"
		}
		result += "\n\n"
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := request.RequireInt("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireInt("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.BoardState
	if err := c.apiCall(ctx, "GET", sessionPath(request, "/board"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	grid, err := engine.GridFromRows(state.Cells)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos := engine.Position{X: x, Y: y}
	if !grid.InBounds(pos) {
		size := grid.Size()
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board is %dx%d (x 0-%d, y 0-%d)",
			x, y, size.Width, size.Depth, size.Width-1, size.Depth-1)), nil
	}
	return mcp.NewToolResultText(describeCell(grid, pos)), nil
}
