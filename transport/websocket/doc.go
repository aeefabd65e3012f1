// Package websocket provides the WebSocket transport for Jan Chain.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after every line, reset and new board
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns every connection. Its Run goroutine is the only code
// touching the session map; registration, removal and broadcasts all reach
// it through channels. Each client has a read and a write goroutine.
//
// Message Protocol:
//
// Clients only listen. Outgoing messages are JSON:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "board_generated", "game_state": {...}, "data": {"attempts": 3, ...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// in an HTTP handler for /ws?session=ab12
//	hub.ServeWS(w, r, sessionID)
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
