package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/config"
	"github.com/wricardo/janchain/game/engine"
	"github.com/wricardo/janchain/game/service"
	"github.com/wricardo/janchain/game/session"
	"github.com/wricardo/janchain/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	ConnectFunc    func(ctx context.Context, sessionID string, path board.Path) (*service.ConnectResult, error)
	DisconnectFunc func(ctx context.Context, sessionID string, req service.DisconnectRequest) (*service.ConnectResult, error)
	ResetFunc      func(ctx context.Context, sessionID string) (*engine.GameState, error)
	NewBoardFunc   func(ctx context.Context, sessionID string) (*service.BoardResult, error)

	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetSolutionFunc    func(ctx context.Context, sessionID string) (*service.SolutionResponse, error)
	DescribeCellFunc   func(ctx context.Context, sessionID string, cell board.Cell) (*engine.CellInfo, error)
	GetMoveHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	GenerateFunc func(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error)

	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{ID: "test-session", ConfigName: configName, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, ConfigName: "test-config", CreatedAt: time.Now()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Connect(ctx context.Context, sessionID string, path board.Path) (*service.ConnectResult, error) {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx, sessionID, path)
	}
	return &service.ConnectResult{Success: true, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) Disconnect(ctx context.Context, sessionID string, req service.DisconnectRequest) (*service.ConnectResult, error) {
	if m.DisconnectFunc != nil {
		return m.DisconnectFunc(ctx, sessionID, req)
	}
	return &service.ConnectResult{Success: true, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) NewBoard(ctx context.Context, sessionID string) (*service.BoardResult, error) {
	if m.NewBoardFunc != nil {
		return m.NewBoardFunc(ctx, sessionID)
	}
	return &service.BoardResult{GameState: &engine.GameState{BoardNumber: 2}}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetSolution(ctx context.Context, sessionID string) (*service.SolutionResponse, error) {
	if m.GetSolutionFunc != nil {
		return m.GetSolutionFunc(ctx, sessionID)
	}
	return &service.SolutionResponse{Paths: map[int]board.Path{}}, nil
}

func (m *MockGameService) DescribeCell(ctx context.Context, sessionID string, cell board.Cell) (*engine.CellInfo, error) {
	if m.DescribeCellFunc != nil {
		return m.DescribeCellFunc(ctx, sessionID, cell)
	}
	return &engine.CellInfo{X: cell.X, Y: cell.Y, Kind: engine.CellFree}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Moves:      []engine.MoveHistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) Generate(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &service.GenerateResult{Layout: &board.Layout{GridSize: 2}}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{Name: configName, Description: "Test config"}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v (body %s)", err, w.Body.String())
	}
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		wantConfig     string
	}{
		{
			name:           "Create session with default config",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Create session with config_id",
			requestBody:    map[string]string{"config_id": "easy"},
			expectedStatus: http.StatusCreated,
			wantConfig:     "easy",
		},
		{
			name:           "Deprecated config_name still works",
			requestBody:    map[string]string{"config_name": "hard"},
			expectedStatus: http.StatusCreated,
			wantConfig:     "hard",
		},
		{
			name:        "Unknown preset is a bad request",
			requestBody: map[string]string{"config_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("config 'nope' not found. Available configs: [easy]")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Generation failure",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("failed to create session: %w", board.ErrGenerationExhausted)
				}
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusCreated {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != tt.wantConfig {
					t.Errorf("Expected config %q, got %q", tt.wantConfig, resp.ConfigName)
				}
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Minute)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now.Add(-time.Hour)},
				{ID: "mid", CreatedAt: now.Add(-time.Minute), LastAccessedAt: now},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
		total   int
	}{
		{name: "default sorts by access desc", query: "", wantIDs: []string{"mid", "old", "new"}},
		{name: "created ascending", query: "?sort=created&order=asc", wantIDs: []string{"old", "mid", "new"}},
		{name: "limit", query: "?sort=created&limit=1", wantIDs: []string{"new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(server, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)
			if resp.Total != 3 || resp.Count != len(tt.wantIDs) {
				t.Errorf("Expected count %d of 3, got %d of %d", len(tt.wantIDs), resp.Count, resp.Total)
			}
			for i, id := range tt.wantIDs {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}

	t.Run("service error", func(t *testing.T) {
		failing := setupTestServer(&MockGameService{
			ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
				return nil, fmt.Errorf("database error")
			},
		})
		w := serve(failing, makeRequest("GET", "/api/sessions", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

func TestGetAndDeleteSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("session not found")
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "ab12" {
				return session.ErrSessionNotFound
			}
			return nil
		},
	}
	server := setupTestServer(mockService)

	if w := serve(server, makeRequest("GET", "/api/sessions/ab12", nil)); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w := serve(server, makeRequest("GET", "/api/sessions/zz99", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if w := serve(server, makeRequest("DELETE", "/api/sessions/ab12", nil)); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w := serve(server, makeRequest("DELETE", "/api/sessions/zz99", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestConnect(t *testing.T) {
	t.Run("path is decoded", func(t *testing.T) {
		var got board.Path
		server := setupTestServer(&MockGameService{
			ConnectFunc: func(ctx context.Context, sessionID string, path board.Path) (*service.ConnectResult, error) {
				got = path
				return &service.ConnectResult{Success: true, GameState: &engine.GameState{MatchedPairs: 1}}, nil
			},
		})

		body := map[string]interface{}{"path": []map[string]int{{"x": 0, "y": 0}, {"x": 1, "y": 0}}}
		w := serve(server, makeRequest("POST", "/api/sessions/ab12/connect", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		want := board.Path{{X: 0, Y: 0}, {X: 1, Y: 0}}
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("Expected path %v, got %v", want, got)
		}
	})

	t.Run("rejected line is still 200", func(t *testing.T) {
		server := setupTestServer(&MockGameService{
			ConnectFunc: func(ctx context.Context, sessionID string, path board.Path) (*service.ConnectResult, error) {
				return &service.ConnectResult{Success: false, Reason: "crosses a line", GameState: &engine.GameState{}}, nil
			},
		})
		body := map[string]interface{}{"path": []map[string]int{{"x": 0, "y": 0}}}
		w := serve(server, makeRequest("POST", "/api/sessions/ab12/connect", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var resp service.ConnectResult
		parseResponse(t, w, &resp)
		if resp.Success || resp.Reason != "crosses a line" {
			t.Errorf("Unexpected result %+v", resp)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		server := setupTestServer(&MockGameService{})
		w := serve(server, makeRequest("POST", "/api/sessions/ab12/connect", map[string]string{}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		server := setupTestServer(&MockGameService{})
		req := httptest.NewRequest("POST", "/api/sessions/ab12/connect", bytes.NewBufferString("{"))
		if w := serve(server, req); w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		server := setupTestServer(&MockGameService{
			ConnectFunc: func(ctx context.Context, sessionID string, path board.Path) (*service.ConnectResult, error) {
				return nil, fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
			},
		})
		body := map[string]interface{}{"path": []map[string]int{{"x": 0, "y": 0}}}
		if w := serve(server, makeRequest("POST", "/api/sessions/zz99/connect", body)); w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestDisconnect(t *testing.T) {
	var got service.DisconnectRequest
	server := setupTestServer(&MockGameService{
		DisconnectFunc: func(ctx context.Context, sessionID string, req service.DisconnectRequest) (*service.ConnectResult, error) {
			got = req
			if req.PairID == nil && req.Cell == nil {
				return nil, fmt.Errorf("%w: nothing selected", service.ErrInvalidRequest)
			}
			return &service.ConnectResult{Success: true, GameState: &engine.GameState{}}, nil
		},
	})

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/disconnect", map[string]int{"pair_id": 2}))
	if w.Code != http.StatusOK || got.PairID == nil || *got.PairID != 2 {
		t.Errorf("Expected pair 2 to be removed, got status %d req %+v", w.Code, got)
	}

	body := map[string]interface{}{"cell": map[string]int{"x": 3, "y": 1}}
	w = serve(server, makeRequest("POST", "/api/sessions/ab12/disconnect", body))
	if w.Code != http.StatusOK || got.Cell == nil || *got.Cell != (board.Cell{X: 3, Y: 1}) {
		t.Errorf("Expected cell (3,1) to be used, got status %d req %+v", w.Code, got)
	}

	w = serve(server, makeRequest("POST", "/api/sessions/ab12/disconnect", map[string]int{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestResetAndNewBoard(t *testing.T) {
	server := setupTestServer(&MockGameService{
		NewBoardFunc: func(ctx context.Context, sessionID string) (*service.BoardResult, error) {
			if sessionID == "fail" {
				return nil, fmt.Errorf("failed to generate board: %w", board.ErrGenerationExhausted)
			}
			return &service.BoardResult{
				GameState: &engine.GameState{BoardNumber: 2},
				Stats:     board.GenerateStats{Attempts: 4},
			}, nil
		},
	})

	w := serve(server, makeRequest("POST", "/api/sessions/ab12/reset", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from reset, got %d", w.Code)
	}

	w = serve(server, makeRequest("POST", "/api/sessions/ab12/new-board", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from new-board, got %d", w.Code)
	}
	var resp service.BoardResult
	parseResponse(t, w, &resp)
	if resp.GameState.BoardNumber != 2 || resp.Stats.Attempts != 4 {
		t.Errorf("Unexpected new board response %+v", resp)
	}

	w = serve(server, makeRequest("POST", "/api/sessions/fail/new-board", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	var got service.HistoryOptions
	server := setupTestServer(&MockGameService{
		GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			got = opts
			return &service.HistoryResponse{Moves: []engine.MoveHistoryEntry{}}, nil
		},
	})

	tests := []struct {
		query string
		want  service.HistoryOptions
	}{
		{query: "", want: service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{query: "?page=2&limit=5&order=asc", want: service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{query: "?page=-1&limit=abc&order=sideways", want: service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		w := serve(server, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if got != tt.want {
			t.Errorf("query %q: expected %+v, got %+v", tt.query, tt.want, got)
		}
	}
}

func TestDescribeCell(t *testing.T) {
	server := setupTestServer(&MockGameService{
		DescribeCellFunc: func(ctx context.Context, sessionID string, cell board.Cell) (*engine.CellInfo, error) {
			if cell.X > 7 {
				return nil, fmt.Errorf("%w: %s", engine.ErrOutOfBounds, cell)
			}
			return &engine.CellInfo{X: cell.X, Y: cell.Y, Kind: engine.CellBlocked}, nil
		},
	})

	w := serve(server, makeRequest("GET", "/api/sessions/ab12/cell?x=2&y=3", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var info engine.CellInfo
	parseResponse(t, w, &info)
	if info.X != 2 || info.Y != 3 || info.Kind != engine.CellBlocked {
		t.Errorf("Unexpected cell info %+v", info)
	}

	if w := serve(server, makeRequest("GET", "/api/sessions/ab12/cell?x=a&y=3", nil)); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad coordinates, got %d", w.Code)
	}
	if w := serve(server, makeRequest("GET", "/api/sessions/ab12/cell?x=9&y=0", nil)); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for out of bounds, got %d", w.Code)
	}
}

func TestGenerate(t *testing.T) {
	var got service.GenerateRequest
	server := setupTestServer(&MockGameService{
		GenerateFunc: func(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error) {
			got = req
			if req.Board.GridSize == 1 {
				return nil, fmt.Errorf("%w: %w", service.ErrInvalidRequest, board.ErrInvalidConfig)
			}
			return &service.GenerateResult{Layout: &board.Layout{GridSize: 6}, Grid: []string{"......"}}, nil
		},
	})

	body := map[string]interface{}{"board": map[string]int{"grid_size": 6, "requested_types": 3}, "seed": 9}
	w := serve(server, makeRequest("POST", "/api/generate", body))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got.Board.GridSize != 6 || got.Board.RequestedTypes != 3 || got.Seed != 9 {
		t.Errorf("Request not decoded: %+v", got)
	}

	if w := serve(server, makeRequest("POST", "/api/generate", nil)); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with an empty body, got %d", w.Code)
	}

	body = map[string]interface{}{"board": map[string]int{"grid_size": 1}}
	if w := serve(server, makeRequest("POST", "/api/generate", body)); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestConfigs(t *testing.T) {
	var savedID string
	server := setupTestServer(&MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "easy", Name: "Easy", Pairs: 3}}, nil
		},
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			if configName != "easy" {
				return nil, config.ErrConfigNotFound
			}
			return &engine.GameConfig{Name: "Easy"}, nil
		},
		SaveConfigFunc: func(ctx context.Context, configName string, cfg *engine.GameConfig) error {
			savedID = configName
			return nil
		},
	})

	w := serve(server, makeRequest("GET", "/api/configs", nil))
	var list []*service.ConfigInfo
	parseResponse(t, w, &list)
	if len(list) != 1 || list[0].Pairs != 3 {
		t.Errorf("Unexpected config list %+v", list)
	}

	if w := serve(server, makeRequest("GET", "/api/configs/easy.json", nil)); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w := serve(server, makeRequest("GET", "/api/configs/missing", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}

	w = serve(server, makeRequest("POST", "/api/configs", map[string]string{"name": "My Big Board"}))
	if w.Code != http.StatusCreated || savedID != "my-big-board" {
		t.Errorf("Expected preset saved as my-big-board, got status %d id %q", w.Code, savedID)
	}
	w = serve(server, makeRequest("POST", "/api/configs?id=custom", map[string]string{"name": "Other"}))
	if w.Code != http.StatusCreated || savedID != "custom" {
		t.Errorf("Expected preset saved as custom, got status %d id %q", w.Code, savedID)
	}
	if w := serve(server, makeRequest("POST", "/api/configs", map[string]string{})); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a name, got %d", w.Code)
	}
}

func TestHealthAndWebSocketGuards(t *testing.T) {
	server := setupTestServer(&MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, errors.New("session not found")
		},
	})

	for _, path := range []string{"/health", "/api/health"} {
		w := serve(server, makeRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}

	if w := serve(server, makeRequest("GET", "/ws", nil)); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without session, got %d", w.Code)
	}
	if w := serve(server, makeRequest("GET", "/ws?session=zz99", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", w.Code)
	}
}

// TestServerEndToEnd drives a real service through HTTP: create a session,
// connect every pair from the published solution and win.
func TestServerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	preset := engine.DefaultGameConfig()
	preset.Name = "Tiny"
	preset.Board.GridSize = 5
	preset.Board.RequestedTypes = 3
	preset.Board.Fallback = board.FallbackAbort
	preset.Seed = 21
	data, _ := json.Marshal(preset)
	if err := os.WriteFile(filepath.Join(dir, "tiny.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), configs)
	hub := websocket.NewHub()
	go hub.Run()
	server := NewServer(svc, hub)

	w := serve(server, makeRequest("POST", "/api/sessions", map[string]string{"config_id": "tiny"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created service.SessionInfo
	parseResponse(t, w, &created)
	if created.ConfigName != "tiny" || created.GameState.TotalPairs != 3 {
		t.Fatalf("Unexpected session %+v", created)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/"+created.ID+"/solution", nil))
	var solution service.SolutionResponse
	parseResponse(t, w, &solution)
	if len(solution.Paths) != 3 {
		t.Fatalf("Expected 3 solution paths, got %d", len(solution.Paths))
	}

	var last service.ConnectResult
	for id := 0; id < 3; id++ {
		body := map[string]interface{}{"path": solution.Paths[id]}
		w = serve(server, makeRequest("POST", "/api/sessions/"+created.ID+"/connect", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Connect pair %d: status %d", id, w.Code)
		}
		parseResponse(t, w, &last)
		if !last.Success {
			t.Fatalf("Connect pair %d rejected: %s", id, last.Reason)
		}
	}
	if !last.GameState.Victory {
		t.Error("Expected victory after connecting every pair")
	}

	w = serve(server, makeRequest("POST", "/api/sessions/"+created.ID+"/new-board", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("new-board: status %d", w.Code)
	}
	var next service.BoardResult
	parseResponse(t, w, &next)
	if next.GameState.BoardNumber != 2 || next.GameState.Victory {
		t.Errorf("Expected a fresh second board, got %+v", next.GameState)
	}
}
