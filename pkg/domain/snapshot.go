package domain

import "time"

// Snapshot is the persisted result of one build for a session: the final
// document plus the capture history. Stored through ports.SnapshotStore so
// diagnostics tooling can inspect past builds.
type Snapshot struct {
	SessionID string         `json:"session_id"`
	BuildID   string         `json:"build_id"`
	Query     Document       `json:"query"`
	History   []HistoryEntry `json:"history,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
