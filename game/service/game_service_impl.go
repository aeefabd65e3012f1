package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/engine"
)

// ErrInvalidRequest is returned for malformed operation arguments
var ErrInvalidRequest = errors.New("invalid request")

// DefaultGenerateTimeout bounds one board generation.
const DefaultGenerateTimeout = 20 * time.Second

// gameServiceImpl implements the GameService interface. Board generation
// runs outside mu; only the swap to the new board takes the lock.
type gameServiceImpl struct {
	sessions        SessionManager
	configs         ConfigManager
	mu              sync.RWMutex
	generateTimeout time.Duration
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithGenerateTimeout sets the deadline of a single board generation. Zero or
// negative disables the deadline.
func WithGenerateTimeout(d time.Duration) Option {
	return func(s *gameServiceImpl) {
		s.generateTimeout = d
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
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

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:        sessions,
		configs:         configs,
		generateTimeout: DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *gameServiceImpl) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.generateTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.generateTimeout)
}

// CreateSession creates a new game session and generates its first board.
// The session manager registers it under its own lock once the board exists.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	genCtx, cancel := s.generationContext(ctx)
	defer cancel()
	session, err := s.sessions.Create(genCtx, "", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	stats := session.Engine.LastGenerateStats()
	log.Printf("[BOARD] session=%s config=%s attempts=%d fallback=%v took=%s",
		session.ID, configID, stats.Attempts, stats.Fallback, stats.Duration)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState().Clone(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Connect draws a player line for a session
func (s *gameServiceImpl) Connect(ctx context.Context, sessionID string, path board.Path) (*ConnectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &ConnectResult{Events: []GameEvent{}}
	if err := sess.Engine.Connect(path); err != nil {
		result.Reason = err.Error()
		result.Events = append(result.Events, GameEvent{
			Type:      "rejected",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		log.Printf("[CONNECT] session=%s rejected: %v", sessionID, err)
	} else {
		result.Success = true
		last := sess.Engine.GetLastMove()
		pairID := last.PairID
		result.Events = append(result.Events, GameEvent{
			Type:      "connected",
			Message:   fmt.Sprintf("Pair %d connected with a line of %d cells", pairID, len(path)),
			Timestamp: time.Now(),
			PairID:    &pairID,
		})
		if sess.Engine.IsVictory() {
			result.Events = append(result.Events, GameEvent{
				Type:      "victory",
				Message:   sess.Engine.GetState().Message,
				Timestamp: time.Now(),
			})
		}
		log.Printf("[CONNECT] session=%s pair=%d matched=%d/%d",
			sessionID, pairID, sess.Engine.MatchedPairs(), sess.Engine.TotalPairs())
	}

	state := sess.Engine.GetState()
	result.GameState = state.Clone()
	result.Message = state.Message

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after connect: %v", sessionID, err)
	}

	return result, nil
}

// Disconnect removes a player line, selected by pair or by cell
func (s *gameServiceImpl) Disconnect(ctx context.Context, sessionID string, req DisconnectRequest) (*ConnectResult, error) {
	if (req.PairID == nil) == (req.Cell == nil) {
		return nil, fmt.Errorf("%w: exactly one of pair_id or cell is required", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if req.PairID != nil {
		err = sess.Engine.Disconnect(*req.PairID)
	} else {
		err = sess.Engine.DisconnectAt(*req.Cell)
	}

	result := &ConnectResult{Events: []GameEvent{}}
	if err != nil {
		result.Reason = err.Error()
	} else {
		result.Success = true
		pairID := sess.Engine.GetLastMove().PairID
		result.Events = append(result.Events, GameEvent{
			Type:      "disconnected",
			Message:   fmt.Sprintf("Line of pair %d removed", pairID),
			Timestamp: time.Now(),
			PairID:    &pairID,
		})
	}

	state := sess.Engine.GetState()
	result.GameState = state.Clone()
	result.Message = state.Message
	if err != nil {
		result.Message = err.Error()
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after disconnect: %v", sessionID, err)
	}

	return result, nil
}

// Reset clears every line of the current board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}

	return state.Clone(), nil
}

// NewBoard replaces the session's board with a freshly generated one. The
// board is generated without holding the service lock.
func (s *gameServiceImpl) NewBoard(ctx context.Context, sessionID string) (*BoardResult, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	genCtx, cancel := s.generationContext(ctx)
	defer cancel()
	plan, err := sess.Engine.PlanBoard(genCtx)
	if err != nil {
		log.Printf("[BOARD] session=%s generation failed after %d attempts: %v", sessionID, plan.Stats.Attempts, err)
		return nil, fmt.Errorf("failed to generate board: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := sess.Engine.ApplyBoard(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to apply board: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	stats := plan.Stats
	log.Printf("[BOARD] session=%s board=%d attempts=%d fallback=%v took=%s",
		sessionID, state.BoardNumber, stats.Attempts, stats.Fallback, stats.Duration)

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after new board: %v", sessionID, err)
	}

	return &BoardResult{
		GameState: state.Clone(),
		Stats:     stats,
		Events: []GameEvent{{
			Type:      "board_generated",
			Message:   fmt.Sprintf("Board %d generated in %d attempts", state.BoardNumber, stats.Attempts),
			Timestamp: time.Now(),
		}},
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Clone(), nil
}

// GetSolution returns the committed solution of the session's current board
func (s *gameServiceImpl) GetSolution(ctx context.Context, sessionID string) (*SolutionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	layout := sess.Engine.GetLayout()
	paths := make(map[int]board.Path, len(layout.Paths))
	for id, p := range layout.Paths {
		paths[id] = p.Clone()
	}

	return &SolutionResponse{
		LayoutID:  layout.ID,
		Validated: layout.Validated,
		Paths:     paths,
		Grid:      layout.Render(true),
	}, nil
}

// DescribeCell reports what occupies one cell of the session's board
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, cell board.Cell) (*engine.CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	info, err := sess.Engine.DescribeCell(cell)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
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

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
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

// Generate produces a standalone board that is not attached to any session
func (s *gameServiceImpl) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	cfg := engine.DefaultGameConfig()
	seed := req.Seed
	if req.Preset != "" {
		preset, err := s.configs.LoadConfig(req.Preset)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", req.Preset, err)
		}
		cfg.Board = preset.Board
		cfg.Board.Blocked = nil
		if seed == 0 {
			seed = preset.Seed
		}
	} else {
		cfg.Board = req.Board
	}
	cfg.ApplyDefaults()

	gen, err := board.NewGenerator(cfg.Board, board.NewSeededRand(seed))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	genCtx, cancel := s.generationContext(ctx)
	defer cancel()
	layout, err := gen.Generate(genCtx)
	stats := gen.Stats()
	if err != nil {
		log.Printf("[BOARD] standalone generation failed after %d attempts: %v", stats.Attempts, err)
		return nil, err
	}
	log.Printf("[BOARD] standalone %dx%d pairs=%d attempts=%d fallback=%v took=%s",
		layout.GridSize, layout.GridSize, len(layout.Pairs), stats.Attempts, stats.Fallback, stats.Duration)

	return &GenerateResult{
		Layout: layout,
		Grid:   layout.Render(req.ShowPaths),
		Stats:  stats,
	}, nil
}

// ListConfigs returns available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
