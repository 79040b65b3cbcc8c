package espalier

import (
	"context"
	"log/slog"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/registry"
)

// Engine is the high-level entry point for the Espalier library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	core *runtime.Engine
	reg  *registry.Registry
}

// Option defines a functional option for configuring the Engine.
type Option func(*[]runtime.EngineOption)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *[]runtime.EngineOption) {
		*opts = append(*opts, runtime.WithLogger(logger))
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.BuildHooks) Option {
	return func(opts *[]runtime.EngineOption) {
		*opts = append(*opts, runtime.WithHooks(hooks))
	}
}

// WithResolver sets the filter merge strategy for the resolve pass.
func WithResolver(r ports.Resolver) Option {
	return func(opts *[]runtime.EngineOption) {
		*opts = append(*opts, runtime.WithResolver(r))
	}
}

// WithMaxSteps overrides the per-build phrase budget (default 1000).
func WithMaxSteps(n int) Option {
	return func(opts *[]runtime.EngineOption) {
		*opts = append(*opts, runtime.WithMaxSteps(n))
	}
}

// WithInitialQuery sets the document every build starts from.
func WithInitialQuery(doc domain.Document) Option {
	return func(opts *[]runtime.EngineOption) {
		*opts = append(*opts, runtime.WithInitialQuery(doc))
	}
}

// WithInitialState sets the builder state every build starts from.
func WithInitialState(state *domain.BuilderState) Option {
	return func(opts *[]runtime.EngineOption) {
		*opts = append(*opts, runtime.WithInitialState(state))
	}
}

// New initializes a new Espalier Engine around a phrase registry.
func New(reg *registry.Registry, opts ...Option) *Engine {
	var runtimeOpts []runtime.EngineOption
	for _, opt := range opts {
		opt(&runtimeOpts)
	}
	return &Engine{
		core: runtime.NewEngine(reg, runtimeOpts...),
		reg:  reg,
	}
}

// BuildQuery runs the full pipeline (reset, dispatch, resolve) and returns
// the final document.
func (e *Engine) BuildQuery(ctx context.Context, phrases []domain.Phrase) (domain.Document, error) {
	return e.core.BuildQuery(ctx, phrases)
}

// ApplyPhrase dispatches a single phrase without the resolve pass.
func (e *Engine) ApplyPhrase(ctx context.Context, name string, params map[string]any, reset bool) (domain.Document, error) {
	return e.core.ApplyPhrase(ctx, name, params, reset)
}

// ApplyPhrases dispatches phrases without the resolve pass, optionally
// resetting prior state first.
func (e *Engine) ApplyPhrases(ctx context.Context, phrases []domain.Phrase, reset bool) (domain.Document, error) {
	return e.core.ApplyPhrases(ctx, phrases, reset)
}

// Describe renders a human-readable description for each phrase. A phrase
// without a registered describer is a hard error (domain.ErrNoDescriber).
func (e *Engine) Describe(phrases []domain.Phrase) ([]string, error) {
	return e.core.Describe(phrases)
}

// Query returns the current document.
func (e *Engine) Query() domain.Document {
	return e.core.Query()
}

// History returns the snapshots recorded since the last reset.
func (e *Engine) History() []domain.HistoryEntry {
	return e.core.History()
}

// BuildID returns the ULID stamped on the current build.
func (e *Engine) BuildID() string {
	return e.core.BuildID()
}

// Registry returns the underlying phrase registry.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}
