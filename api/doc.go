// Package api provides the HTTP REST API for Jan Chain.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions                 create a session ({"config_id": "easy"})
//   - GET    /api/sessions                 list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}            session details
//   - DELETE /api/sessions/{id}            delete a session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state        player-visible state
//   - POST /api/sessions/{id}/connect      draw a line: {"path": [{"x":0,"y":0}, {"x":1,"y":0}]}
//   - POST /api/sessions/{id}/disconnect   remove a line: {"pair_id": 2} or {"cell": {"x":1,"y":0}}
//   - POST /api/sessions/{id}/reset        clear every line, keep the board
//   - POST /api/sessions/{id}/new-board    generate the next board
//   - GET  /api/sessions/{id}/history      paginated history (?page=&limit=&order=)
//   - GET  /api/sessions/{id}/solution     committed solution of the current board
//   - GET  /api/sessions/{id}/cell?x=&y=   what occupies a cell
//
// Generation and Configuration:
//   - POST /api/generate                   standalone board ({"preset": "hard"} or {"board": {...}, "seed": 42})
//   - GET  /api/configs                    list presets
//   - POST /api/configs                    save a preset (?id= sets the file name)
//   - GET  /api/configs/{name}             preset details
//
// Other:
//   - GET /health, /api/health             liveness
//   - GET /ws?session={id}                 WebSocket updates for one session
//
// A rejected line is not an HTTP error: connect answers 200 with
// "success": false and a "reason". Errors are JSON with a single field:
//
//	{"error": "session not found: ..."}
package api
