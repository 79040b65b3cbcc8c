package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPhraseApplied EventType = "phrase_applied"
	EventPhraseSkipped EventType = "phrase_skipped"
	EventResolve       EventType = "resolve"
	EventCallback      EventType = "callback"
	EventBuildDone     EventType = "build_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	BuildID   string    `json:"build_id"`
}

// PhraseEvent describes a phrase dispatch (applied or skipped).
type PhraseEvent struct {
	EventBase
	Name     string         `json:"name"`
	Params   map[string]any `json:"params,omitempty"`
	Duration time.Duration  `json:"duration,omitempty"`
}

// ResolveEvent describes the resolve pass.
type ResolveEvent struct {
	EventBase
	Filters   int `json:"filters"`
	Callbacks int `json:"callbacks"`
}

// CallbackEvent describes one callback component invocation.
type CallbackEvent struct {
	EventBase
	CallbackID string `json:"callback_id"`
	Skipped    bool   `json:"skipped,omitempty"`
}

// BuildEvent describes a completed (or failed) build.
type BuildEvent struct {
	EventBase
	Phrases  int           `json:"phrases"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// BuildHooks defines callbacks for engine observability. All fields are
// optional; the engine checks for nil before invoking.
type BuildHooks struct {
	OnPhraseApplied func(context.Context, *PhraseEvent)
	OnPhraseSkipped func(context.Context, *PhraseEvent)
	OnResolve       func(context.Context, *ResolveEvent)
	OnCallback      func(context.Context, *CallbackEvent)
	OnBuildDone     func(context.Context, *BuildEvent)
}
