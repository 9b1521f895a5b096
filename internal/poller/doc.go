// Package poller provides the HTTP client and refresh scheduler used by
// Mission Control.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeouts, a pooled
//     transport, a body size limit and JSON decoding
//   - [Scheduler]: Runs panel refresh tasks periodically on a worker pool
//   - [Task]: One periodically executed refresh
//   - [Result]: Outcome of running a task once
//
// Users of the missioncontrol library should not need to interact with this
// package directly.
package poller
