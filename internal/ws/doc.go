// Package ws implements the WebSocket hub for live evaluation updates.
//
// Hub manages a set of connected clients and pushes each one the current
// evaluation of its own session on a configurable interval (default 5s in
// production). The session is selected by the X-Session-ID header or the
// "session" query parameter, falling back to "default".
//
// New(snapshot, interval) creates a Hub; snapshot resolves a session ID to
// its current evaluation state.
// Hub.Run(ctx) starts the push ticker — blocks until ctx is cancelled, then
// closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// evaluation immediately on connect, then streams updates on each tick.
//
// Message format sent to clients:
//
//	{
//	  "event":   "evaluation",
//	  "session": "<session id>",
//	  "data":    { /* same schema as POST /api/v1/evaluate */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/stream by the server.
package ws
