// Package server provides the HTTP server for the mission control dashboard.
//
//   - Dashboard serving: the embedded page at "/"
//   - REST API: panel snapshots as JSON at "/api/panels"
//   - HTML fragments: one rendered panel at "/api/panels/{name}"
//   - Server-Sent Events: real-time snapshots at "/api/sse"
//
// The server shuts down gracefully on context cancellation, with a 5-second
// timeout for in-flight requests.
package server
