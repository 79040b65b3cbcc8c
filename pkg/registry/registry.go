package registry

import (
	"context"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// Builder is the view of the running build that handlers receive. Handlers
// mutate the document and builder state in place and may inject follow-up
// phrases into the queue; they never own either structure.
type Builder interface {
	// Query returns the document under construction.
	Query() domain.Document

	// State returns the builder state (component working memory).
	State() *domain.BuilderState

	// PushFront injects phrases at the front of the queue; they run next,
	// before anything already queued.
	PushFront(phrases ...domain.Phrase)

	// PushBack appends phrases to the end of the queue.
	PushBack(phrases ...domain.Phrase)
}

// PhraseFunc is the transformation registered under a phrase name. It either
// mutates the document directly, records components into the builder state,
// or both. A returned error aborts the build immediately (no rollback).
type PhraseFunc func(ctx context.Context, b Builder, params map[string]any) error

// CallbackFunc is the behavior registered under a callback component id,
// invoked during the resolve pass with the recorded component.
type CallbackFunc func(ctx context.Context, b Builder, c domain.Component) error

// DescribeFunc produces a human-readable (markdown) description for a phrase
// given its params.
type DescribeFunc func(params map[string]any) (string, error)

// Registry is the explicit name -> behavior mapping for phrases, callbacks
// and describers. It replaces convention-based method lookup with a typed
// table built at construction time; a miss is an explicit (fn, ok) result.
type Registry struct {
	mu         sync.RWMutex
	phrases    map[string]PhraseFunc
	callbacks  map[string]CallbackFunc
	describers map[string]DescribeFunc
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		phrases:    make(map[string]PhraseFunc),
		callbacks:  make(map[string]CallbackFunc),
		describers: make(map[string]DescribeFunc),
	}
}

// RegisterPhrase adds a phrase transformation to the registry.
// If one with the same name exists, it is overwritten.
func (r *Registry) RegisterPhrase(name string, fn PhraseFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phrases[name] = fn
}

// RegisterCallback adds a callback behavior under the given component id.
func (r *Registry) RegisterCallback(id string, fn CallbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[id] = fn
}

// RegisterDescriber adds a description producer for a phrase name.
func (r *Registry) RegisterDescriber(name string, fn DescribeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.describers[name] = fn
}

// Phrase looks up a phrase transformation by name.
func (r *Registry) Phrase(name string) (PhraseFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.phrases[name]
	return fn, ok
}

// Callback looks up a callback behavior by component id.
func (r *Registry) Callback(id string) (CallbackFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.callbacks[id]
	return fn, ok
}

// Describer looks up a description producer by phrase name.
func (r *Registry) Describer(name string) (DescribeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.describers[name]
	return fn, ok
}

// PhraseNames returns the registered phrase names (unordered).
func (r *Registry) PhraseNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.phrases))
	for name := range r.phrases {
		names = append(names, name)
	}
	return names
}
