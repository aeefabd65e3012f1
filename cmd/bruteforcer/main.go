// Command bruteforcer plays a Jan Chain session through the REST API. It
// rebuilds the board from the public game state, routes every pair itself
// and submits the lines one by one.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/wricardo/janchain/game/board"
	"github.com/wricardo/janchain/game/engine"
	"github.com/wricardo/janchain/game/service"
)

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends body as JSON and decodes a 2xx response into result.
func (c *Client) do(method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) CreateSession(configID string) (*engine.GameState, error) {
	var reqBody interface{}
	if configID != "" {
		reqBody = map[string]string{"config_id": configID}
	}

	var info service.SessionInfo
	if err := c.do(http.MethodPost, "/api/sessions", reqBody, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

func (c *Client) GetState() (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(http.MethodGet, "/api/sessions/"+c.sessionID+"/state", nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

type ResetResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func (c *Client) Reset() (*engine.GameState, error) {
	var resp ResetResponse
	if err := c.do(http.MethodPost, "/api/sessions/"+c.sessionID+"/reset", nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

func (c *Client) NewBoard() (*engine.GameState, error) {
	var result service.BoardResult
	if err := c.do(http.MethodPost, "/api/sessions/"+c.sessionID+"/new-board", nil, &result); err != nil {
		return nil, fmt.Errorf("new board: %w", err)
	}
	return result.GameState, nil
}

// Connect submits one line. A rejected line returns the result and an error
// carrying the server's reason.
func (c *Client) Connect(path board.Path) (*service.ConnectResult, error) {
	var result service.ConnectResult
	body := map[string]interface{}{"path": path}
	if err := c.do(http.MethodPost, "/api/sessions/"+c.sessionID+"/connect", body, &result); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if !result.Success {
		return &result, fmt.Errorf("connect rejected: %s", result.Reason)
	}
	return &result, nil
}

// Options controls one bruteforcer run.
type Options struct {
	MaxAttempts int
	MaxPaths    int
	Slack       int
	NewBoard    bool // ask for a fresh board after a failed attempt
	Delay       time.Duration
	Verbose     bool
}

var errNoVictory = errors.New("no victory")

// play resets the session and tries to win it, widening the search after
// each failed attempt. It returns the attempt that won.
func play(ctx context.Context, client *Client, opts Options) (int, error) {
	strategy := NewRouteStrategy(opts.MaxPaths, opts.Slack)

	log.Printf("🔄 Resetting board...")
	state, err := client.Reset()
	if err != nil {
		return 0, err
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}
		if attempt > 1 {
			if state, err = client.Reset(); err != nil {
				return attempt, err
			}
		}

		maxPaths, slack := strategy.Budgets()
		log.Printf("\n=== 🎮 Attempt %d/%d (board #%d, max_paths=%d, slack=%d) ===",
			attempt, opts.MaxAttempts, state.BoardNumber, maxPaths, slack)

		paths, ok := strategy.Solve(ctx, state)
		stats := strategy.LastStats()
		if opts.Verbose {
			log.Printf("Router: candidates=%d backtracks=%d dead_ends=%d",
				stats.Candidates, stats.Backtracks, stats.DeadEnds)
		}
		if !ok {
			log.Printf("⚠️  No routing found for %d pairs", len(state.Pairs))
			strategy.Escalate()
			if opts.NewBoard {
				if state, err = client.NewBoard(); err != nil {
					return attempt, err
				}
				log.Printf("Switched to board #%d", state.BoardNumber)
			}
			continue
		}

		for i, path := range paths {
			result, err := client.Connect(path)
			if err != nil {
				if result == nil {
					return attempt, err
				}
				log.Printf("Pair #%d: %v", state.Pairs[i].ID, err)
				break
			}
			state = result.GameState
			if opts.Verbose {
				log.Printf("Pair #%d %s connected (%d cells), %d/%d",
					state.Pairs[i].ID, state.Pairs[i].Type, len(path), state.MatchedPairs, state.TotalPairs)
			}
			if opts.Delay > 0 {
				time.Sleep(opts.Delay)
			}
		}

		if state.Victory {
			log.Printf("\n🎉 VICTORY! Board #%d solved in attempt %d", state.BoardNumber, attempt)
			return attempt, nil
		}
		strategy.Escalate()
	}

	return opts.MaxAttempts, fmt.Errorf("%w after %d attempts", errNoVictory, opts.MaxAttempts)
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Preset ID (classic, easy, hard, obstacles)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxAttempts := flag.Int("max-attempts", 10, "Maximum attempts before giving up")
	maxPaths := flag.Int("max-paths", board.DefaultMaxPathsPerPair, "Initial candidate paths per pair")
	slack := flag.Int("slack", board.DefaultPathSlack, "Initial path slack over the shortest distance")
	newBoard := flag.Bool("new-board", false, "Request a new board after a failed attempt")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between lines in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *engine.GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else if data, err := os.ReadFile(sessionFile); err == nil {
		savedSessionID = string(bytes.TrimSpace(data))
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = ""
		} else {
			log.Printf("Session resumed - Grid: %dx%d, Pairs: %d/%d",
				state.GridSize, state.GridSize, state.MatchedPairs, state.TotalPairs)
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*configID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)
		log.Printf("Grid size: %dx%d, Pairs to connect: %d", state.GridSize, state.GridSize, state.TotalPairs)

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	attempts, err := play(context.Background(), client, Options{
		MaxAttempts: *maxAttempts,
		MaxPaths:    *maxPaths,
		Slack:       *slack,
		NewBoard:    *newBoard,
		Delay:       time.Duration(*delayMs) * time.Millisecond,
		Verbose:     *verbose,
	})
	log.Printf("Session: %s", client.sessionID)
	if err != nil {
		log.Printf("\n❌ Failed after %d attempts: %v", attempts, err)
		os.Exit(1)
	}
}
