// Command janchain serves Jan Chain boards.
//
// Modes:
//
//	server     REST API, WebSocket updates and the /mcp endpoint (default)
//	stdio-mcp  MCP over stdio, backed by a running server or an internal one
//
// Presets are read from -config-dir and sessions are persisted to
// -sessions-dir. With -ngrok the HTTP handler is also exposed through a tunnel.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/janchain/api"
	"github.com/wricardo/janchain/game/config"
	"github.com/wricardo/janchain/game/service"
	"github.com/wricardo/janchain/game/session"
	"github.com/wricardo/janchain/transport/mcp"
	"github.com/wricardo/janchain/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Jan Chain Server"
)

const (
	sessionMaxAge      = 24 * time.Hour
	cleanupInterval    = time.Hour
	syncInterval       = 5 * time.Second
	defaultExternalAPI = "http://localhost:8080"
)

var (
	port            = flag.Int("port", 8080, "HTTP server port")
	host            = flag.String("host", "localhost", "HTTP server host")
	configDir       = flag.String("config-dir", getConfigDirDefault(), "Directory containing preset JSON files")
	sessionsDir     = flag.String("sessions-dir", getSessionsDirDefault(), "Directory where sessions are persisted")
	defaultPreset   = flag.String("default-config", "", "Preset used when a session is created without one")
	generateTimeout = flag.Duration("generate-timeout", service.DefaultGenerateTimeout, "Deadline for generating one board")
	debug           = flag.Bool("debug", false, "Enable debug logging")
	version         = flag.Bool("version", false, "Show version information")
	ngrokEnabled    = flag.Bool("ngrok", false, "Enable ngrok tunnel (or NGROK_ENABLED=true)")
	ngrokAuth       = flag.String("ngrok-auth", "", "Ngrok auth token (or NGROK_AUTHTOKEN)")
	ngrokDomain     = flag.String("ngrok-domain", "", "Custom ngrok domain (or NGROK_DOMAIN)")
)

// getConfigDirDefault honors CONFIG_DIR, then falls back to "configs".
func getConfigDirDefault() string {
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		return configDir
	}
	return "configs"
}

// getSessionsDirDefault honors SESSIONS_DIR, then falls back to "sessions".
func getSessionsDirDefault() string {
	if dir := os.Getenv("SESSIONS_DIR"); dir != "" {
		return dir
	}
	return "sessions"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [server|stdio-mcp]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -default-config easy\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -generate-timeout 5s -port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp\n", os.Args[0])
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	gameService, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "server", "http":
		runHTTPServer(gameService)
	case "stdio-mcp", "mcp":
		runStdioMCP(gameService)
	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// newHandler mounts the REST API at the root and the MCP JSON-RPC endpoint at
// /mcp, one message per POST.
func newHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})

	return mainRouter
}

// writeTimeout leaves room for a full board generation plus encoding.
func writeTimeout(generate time.Duration) time.Duration {
	if generate <= 0 {
		return 0
	}
	return generate + 10*time.Second
}

func runHTTPServer(gameService service.GameService) {
	hub := websocket.NewHub()
	go hub.Run()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	handler := newHandler(api.NewServer(gameService, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(*generateTimeout),
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP server listening on %s (REST /api, WebSocket /ws?session=<id>, MCP /mcp)", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if tunnel := tunnelSettings(); tunnel.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveTunnel(ctx, tunnel, handler)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// tunnelConfig is the ngrok setup resolved from flags and environment.
type tunnelConfig struct {
	enabled   bool
	authToken string
	domain    string
}

// tunnelSettings prefers flags over NGROK_ENABLED, NGROK_AUTHTOKEN (or
// NGROK_AUTH_TOKEN) and NGROK_DOMAIN.
func tunnelSettings() tunnelConfig {
	cfg := tunnelConfig{
		enabled:   *ngrokEnabled,
		authToken: *ngrokAuth,
		domain:    *ngrokDomain,
	}
	if !cfg.enabled {
		env := os.Getenv("NGROK_ENABLED")
		cfg.enabled = env == "true" || env == "1"
	}
	if cfg.authToken == "" {
		cfg.authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if cfg.authToken == "" {
		cfg.authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if cfg.domain == "" {
		cfg.domain = os.Getenv("NGROK_DOMAIN")
	}
	return cfg
}

func serveTunnel(ctx context.Context, cfg tunnelConfig, handler http.Handler) {
	if cfg.authToken == "" {
		log.Println("Warning: ngrok enabled but no auth token provided (use -ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	endpoint := ngrokConfig.HTTPEndpoint()
	if cfg.domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.domain))
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(cfg.authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer tun.Close()

	log.Printf("🚀 Ngrok tunnel established: %s (REST /api, MCP /mcp)", tun.URL())
	go func() {
		<-ctx.Done()
		tun.Close()
	}()
	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server stopped: %v", err)
	}
}

// initializeServices wires the preset and session managers into the game
// service and starts session maintenance.
func initializeServices() (service.GameService, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	if *defaultPreset != "" {
		if err := configManager.SetDefault(*defaultPreset); err != nil {
			return nil, fmt.Errorf("failed to set default preset: %w", err)
		}
	}

	persistence, err := session.NewFilePersistence(*sessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	gameService := service.NewGameService(sessionManager, configManager,
		service.WithGenerateTimeout(*generateTimeout))

	go maintainSessions(sessionManager, persistence)

	return gameService, nil
}

// maintainSessions expires idle sessions and drops sessions whose file was
// deleted from the sessions directory.
func maintainSessions(manager *session.Manager, persistence session.SessionPersistence) {
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()
	prune := time.NewTicker(syncInterval)
	defer prune.Stop()

	for {
		select {
		case <-cleanup.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		case <-prune.C:
			pruneDeletedSessions(manager, persistence)
		}
	}
}

// pruneDeletedSessions returns the number of sessions dropped from memory.
func pruneDeletedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Printf("Pruned session %s from memory (file deleted)", sess.ID)
		}
	}
	return pruned
}

// apiAvailable reports whether a Jan Chain API answers at baseURL.
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns
// its base URL.
func startInternalAPI(gameService service.GameService) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	internal := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := internal.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	return "http://" + listener.Addr().String(), nil
}

// runStdioMCP serves MCP over stdio. The tools talk to an already running
// server when there is one, otherwise to an internal API.
func runStdioMCP(gameService service.GameService) {
	baseURL := defaultExternalAPI
	if apiAvailable(baseURL) {
		log.Printf("Using API server at %s for MCP", baseURL)
	} else {
		var err error
		if baseURL, err = startInternalAPI(gameService); err != nil {
			log.Fatalf("Failed to start internal API: %v", err)
		}
		log.Printf("Started internal API at %s for MCP", baseURL)
	}

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
