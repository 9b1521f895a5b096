// Package dashboard provides the embedded web UI for mission control.
//
// The page is compiled into the binary, so a deployment needs no external
// asset files. It subscribes to "/api/sse" and swaps in the panel fragment
// served at "/api/panels/{name}" whenever a snapshot arrives.
package dashboard

import "embed"

// Assets is the embedded dashboard filesystem:
//
//	assets/
//	  index.html    - dashboard page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
