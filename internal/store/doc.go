// Package store holds the latest rendered snapshot of every dashboard panel
// and publishes updates to subscribers.
//
// The main components are:
//
//   - [Store]: interface defining storage and subscription operations
//   - [MemoryStore]: in-memory implementation with pub/sub
//   - [PanelSnapshot]: storage representation of one panel
//
// Subscribers receive updates via channels with non-blocking sends, so a
// slow subscriber misses updates rather than stalling refreshes.
package store
