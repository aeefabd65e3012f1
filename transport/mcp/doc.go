// Package mcp exposes Jan Chain to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON answer is rendered as text an agent can
// read. Board grids are printed with row and column indexes so coordinates
// can be read off directly.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - board_state: grid, remaining pairs and status
//   - connect_pair: draw a line given as an ordered list of cells
//   - disconnect_pair: remove a line by pair id or by a cell it covers
//   - reset_board, new_board: start over on the same or a fresh board
//   - move_history: paginated action history
//   - describe_cell: what occupies a single cell
//   - list_configs: available presets
//   - generate_board: standalone board generation, no session involved
//   - game_instructions: rules and tips
//
// Transport Modes:
//
// The same MCPServer serves both transports:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP, one JSON-RPC message per POST to /mcp
//	response := client.GetMCPServer().HandleMessage(r.Context(), body)
package mcp
