package runtime

import (
	"log/slog"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// DefaultMaxSteps bounds the number of phrases one build may drain. The
// queue is self-extending, so an unguarded loop could never terminate.
const DefaultMaxSteps = 1000

// EngineOption configures the core engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.BuildHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithResolver sets the filter merge strategy applied during the resolve
// pass. Without one, the resolve pass only runs callbacks (base engine
// default is a no-op merge).
func WithResolver(r ports.Resolver) EngineOption {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithMaxSteps overrides the per-build step budget.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithInitialQuery sets the document each build starts from. The engine
// clones it on every reset; the caller's copy is never mutated.
func WithInitialQuery(doc domain.Document) EngineOption {
	return func(e *Engine) {
		e.initialQuery = doc.Clone()
	}
}

// WithInitialState sets the builder state each build starts from, cloned on
// every reset. Useful for domains that pre-seed mode flags or components.
func WithInitialState(state *domain.BuilderState) EngineOption {
	return func(e *Engine) {
		if state != nil {
			e.initialState = state.Clone()
		}
	}
}
