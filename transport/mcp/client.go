package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/engine"
	"github.com/wricardo/janchain/game/service"
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
			// Board generation can take a while on large presets
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Jan Chain",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Jan Chain - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Connect every pair of matching tiles with a line. Lines move between
orthogonal neighbors and may not cross obstacles (#), other tiles or other lines.

AVAILABLE TOOLS:
- create_session: Create a new game session (optionally from a preset)
- get_session / list_sessions: Inspect sessions
- board_state: Show the board, remaining pairs and status
- connect_pair: Draw a line given as a list of cells - requires intent explanation
- disconnect_pair: Remove a line by pair id or by any cell on it
- reset_board: Remove every line from the current board
- new_board: Generate a new board for the session
- move_history: View past actions
- describe_cell: Get detailed info about a specific grid cell
- list_configs: List available presets
- generate_board: Generate a standalone board without a session
- game_instructions: Rules and tips

NOTE: The 'intent' parameter on connect_pair serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the preset to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
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
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board, the pairs still to connect and the game status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "connect_pair",
		Description: "Draw a line between the two tiles of a pair. The path lists every cell from one tile to the other.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"path": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "integer"},
							"y": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x", "y"},
					},
					"description": "Cells of the line in order, starting and ending on the pair's tiles",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this line (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "path"},
		},
	}, c.handleConnectPair)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "disconnect_pair",
		Description: "Remove a line, selected either by pair_id or by the x/y of any cell it covers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"pair_id": map[string]interface{}{
					"type":        "integer",
					"description": "ID of the pair whose line should be removed",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate of a cell on the line",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate of a cell on the line",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDisconnectPair)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_board",
		Description: "Remove every line from the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_board",
		Description: "Generate a new board for the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific cell: free, obstacle, tile or part of a line",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "generate_board",
		Description: "Generate a standalone board from a preset or explicit settings, without creating a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID to take the board settings from (optional)",
				},
				"grid_size": map[string]interface{}{
					"type":        "integer",
					"description": "Width and height of the board",
				},
				"pairs": map[string]interface{}{
					"type":        "integer",
					"description": "Number of pairs to place",
				},
				"obstacles": map[string]interface{}{
					"type":        "integer",
					"description": "Number of obstacles to add after routing",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for a reproducible board",
				},
				"show_paths": map[string]interface{}{
					"type":        "boolean",
					"description": "Draw the solution paths on the board",
				},
			},
		},
	}, c.handleGenerateBoard)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// parsePath accepts a list of {"x":..,"y":..} objects or [x, y] pairs.
func parsePath(raw interface{}) (board.Path, error) {
	items, ok := raw.([]interface{})
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("path must be a non-empty array of cells")
	}

	path := make(board.Path, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case map[string]interface{}:
			x, okX := intArg(v, "x")
			y, okY := intArg(v, "y")
			if !okX || !okY {
				return nil, fmt.Errorf("path[%d] needs integer x and y", i)
			}
			path = append(path, board.Cell{X: x, Y: y})
		case []interface{}:
			if len(v) != 2 {
				return nil, fmt.Errorf("path[%d] must be [x, y]", i)
			}
			x, okX := v[0].(float64)
			y, okY := v[1].(float64)
			if !okX || !okY {
				return nil, fmt.Errorf("path[%d] must be [x, y]", i)
			}
			path = append(path, board.Cell{X: int(x), Y: int(y)})
		default:
			return nil, fmt.Errorf("path[%d] is not a cell", i)
		}
	}
	return path, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n", session.ID, session.ConfigName)
	result += formatGameState(session.GameState)
	return mcp.NewToolResultText(result), nil
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
		progress := ""
		if s.GameState != nil {
			progress = fmt.Sprintf(", Pairs: %d/%d", s.GameState.MatchedPairs, s.GameState.TotalPairs)
		}
		result += fmt.Sprintf("- %s (Config: %s, Created: %s%s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), progress)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", url.PathEscape(sessionID)), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleConnectPair(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	intent, _ := args["intent"].(string)
	_ = intent

	path, err := parsePath(args["path"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ConnectResult
	body := map[string]interface{}{"path": path}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/connect", url.PathEscape(sessionID)), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatConnectResult("Line", &result)), nil
}

func (c *Client) handleDisconnectPair(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	var req service.DisconnectRequest
	if pairID, ok := intArg(args, "pair_id"); ok {
		req.PairID = &pairID
	}
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if okX && okY {
		req.Cell = &board.Cell{X: x, Y: y}
	}
	if (req.PairID == nil) == (req.Cell == nil) {
		return mcp.NewToolResultError("provide either pair_id or both x and y"), nil
	}

	var result service.ConnectResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/disconnect", url.PathEscape(sessionID)), req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatConnectResult("Disconnect", &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/reset", url.PathEscape(sessionID)), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Board reset\n\n" + formatGameState(response.State)), nil
}

func (c *Client) handleNewBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.BoardResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/new-board", url.PathEscape(sessionID)), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	header := fmt.Sprintf("New board generated after %d attempt(s)", result.Stats.Attempts)
	if result.Stats.Fallback {
		header += " (fallback layout, not verified solvable)"
	}
	return mcp.NewToolResultText(header + "\n\n" + formatGameState(result.GameState)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}

	var history service.HistoryResponse
	path := fmt.Sprintf("/api/sessions/%s/history?%s", url.PathEscape(sessionID), params.Encode())
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

	result := "Available Presets:\n\n"
	for _, cfg := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Grid: %dx%d, Pairs: %d, Obstacles: %d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.GridSize, cfg.GridSize, cfg.Pairs, cfg.ObstacleCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Jan Chain - Instructions

GAME OBJECTIVE:
Connect every pair of matching tiles. Each board is generated together with
a hidden solution, so a board marked as validated can always be solved.

GRID LEGEND:
• A, B, C ... - Tiles. Each letter appears exactly twice
• # - Obstacle (impassable)
• . - Free cell
• a, b, c ... - Cells covered by the line of the matching pair

RULES FOR A LINE:
• It starts on one tile of a pair and ends on the other tile of the same pair
• Each step moves to an orthogonal neighbor (no diagonals)
• It never visits a cell twice
• It never passes over an obstacle, another tile or another line
• A pair can only be connected once; disconnect it to redraw

COORDINATES:
• x is the column and y is the row, both 0-based from the top-left corner
• A line is sent as an ordered list of cells, e.g. [{"x":0,"y":0},{"x":1,"y":0}]

STRATEGY TIPS:
- Connect pairs whose tiles are next to each other first
- Lines along the border rarely block other pairs
- If a pair seems impossible, another line is in the way: disconnect it
- Use describe_cell to double check a cell before routing through it

VICTORY:
- All pairs connected. The board reports victory and further lines are rejected
- Use new_board to keep playing in the same session`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var info engine.CellInfo
	path := fmt.Sprintf("/api/sessions/%s/cell?x=%d&y=%d", url.PathEscape(sessionID), x, y)
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&info)), nil
}

func (c *Client) handleGenerateBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var req service.GenerateRequest
	req.Preset, _ = args["preset"].(string)
	req.ShowPaths, _ = args["show_paths"].(bool)
	if v, ok := intArg(args, "grid_size"); ok {
		req.Board.GridSize = v
	}
	if v, ok := intArg(args, "pairs"); ok {
		req.Board.RequestedTypes = v
	}
	if v, ok := intArg(args, "obstacles"); ok {
		req.Board.ObstacleCount = v
	}
	if v, ok := intArg(args, "seed"); ok {
		req.Seed = int64(v)
	}

	var result service.GenerateResult
	if err := c.apiCall(ctx, "POST", "/api/generate", req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGenerateResult(&result)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast accessed: %s\n\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	return result + formatGameState(session.GameState)
}

// formatGrid prints rows with column and row indexes so coordinates can be
// read off directly.
func formatGrid(rows []string) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("    ")
	for x := range rows[0] {
		b.WriteString(fmt.Sprintf("%d", x%10))
	}
	b.WriteString("\n")
	for y, row := range rows {
		b.WriteString(fmt.Sprintf("%3d %s\n", y, row))
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "Game state unavailable"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Board #%d (%dx%d) - Pairs: %d/%d connected",
		state.BoardNumber, state.GridSize, state.GridSize, state.MatchedPairs, state.TotalPairs))
	if !state.Validated {
		result.WriteString(" [not verified solvable]")
	}
	result.WriteString("\n")

	if state.Victory {
		result.WriteString("🎉 VICTORY!\n")
	}
	if state.Message != "" {
		result.WriteString(fmt.Sprintf("Message: %s\n", state.Message))
	}

	result.WriteString("\nGrid:\n")
	result.WriteString(formatGrid(state.Grid))

	remaining := engine.RemainingPairs(state)
	if len(remaining) > 0 {
		result.WriteString("\nPairs to connect:\n")
		for _, p := range remaining {
			result.WriteString(fmt.Sprintf("  #%d %s: %s -> %s\n", p.ID, p.Type, p.A, p.B))
		}
	}
	if len(state.Connections) > 0 {
		result.WriteString("\nConnected:\n")
		for _, conn := range state.Connections {
			result.WriteString(fmt.Sprintf("  #%d %s: %d cells\n", conn.PairID, conn.Type, len(conn.Path)))
		}
	}

	return result.String()
}

func formatConnectResult(action string, result *service.ConnectResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString(fmt.Sprintf("✓ %s successful\n", action))
	} else {
		b.WriteString(fmt.Sprintf("✗ %s failed: %s\n", action, result.Reason))
	}
	for _, ev := range result.Events {
		if ev.Type == "victory" {
			b.WriteString("🎉 " + ev.Message + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatCellInfo(info *engine.CellInfo) string {
	var description string
	passable := false
	switch info.Kind {
	case engine.CellFree:
		description = "Free cell - a line may pass through"
		passable = true
	case engine.CellBlocked:
		description = "Obstacle - IMPASSABLE"
	case engine.CellTile:
		description = fmt.Sprintf("Tile %s - endpoint of pair #%d", info.Type, derefInt(info.PairID))
		if info.Matched {
			description += " (already connected)"
		}
	case engine.CellLine:
		description = fmt.Sprintf("Covered by the line of pair #%d (%s)", derefInt(info.PairID), info.Type)
	default:
		description = "Unknown cell"
	}

	return fmt.Sprintf(`Cell at position (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Kind: %s
Passable: %v
Description: %s
`, info.X, info.Y, info.Kind, passable, description)
}

func derefInt(v *int) int {
	if v == nil {
		return -1
	}
	return *v
}

func formatGenerateResult(result *service.GenerateResult) string {
	var b strings.Builder
	if result.Layout != nil {
		b.WriteString(fmt.Sprintf("Layout %s: %dx%d, %d pairs, %d obstacles, validated=%v\n",
			result.Layout.ID, result.Layout.GridSize, result.Layout.GridSize,
			len(result.Layout.Pairs), len(result.Layout.Blocked), result.Layout.Validated))
	}
	b.WriteString(fmt.Sprintf("Attempts: %d, candidates tried: %d, backtracks: %d\n\n",
		result.Stats.Attempts, result.Stats.Candidates, result.Stats.Backtracks))
	b.WriteString(formatGrid(result.Grid))

	if result.Layout != nil {
		b.WriteString("\nPairs:\n")
		for _, p := range result.Layout.Pairs {
			b.WriteString(fmt.Sprintf("  #%d %s: %s -> %s\n", p.ID, p.Type, p.A, p.B))
		}
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) - Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		line := fmt.Sprintf("%d. %s %s", move.MoveNumber, move.Action, status)
		if move.PairID >= 0 {
			line += fmt.Sprintf(" pair #%d", move.PairID)
		}
		if len(move.Path) > 0 {
			line += fmt.Sprintf(" (%d cells)", len(move.Path))
		}
		if move.Reason != "" {
			line += " - " + move.Reason
		}
		result += line + fmt.Sprintf(" [Pairs: %d]\n", move.MatchedPairs)
	}

	return result
}
