package domain

import "errors"

// ErrDepthExceeded is returned when a build drains more phrases than the
// configured step budget allows. It guards against handlers that endlessly
// re-inject themselves into the queue.
var ErrDepthExceeded = errors.New("pipeline depth exceeded")

// ErrNoDescriber is returned when a description is requested for a phrase
// that has no registered describer. Unlike execution dispatch, description
// is a hard failure, not a silent skip.
var ErrNoDescriber = errors.New("no describer registered")

// ErrSnapshotNotFound is returned when a session snapshot cannot be found in
// the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")
