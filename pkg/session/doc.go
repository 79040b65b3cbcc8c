// Package session serializes builds per session and persists their
// snapshots. An engine instance is single-build; the Manager provides the
// mutual-exclusion discipline that makes shared engines safe.
package session
