package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/oklog/ulid/v2"
)

// Engine is the core pipeline runner. Each build moves through four stages:
// reset, dispatch (drain the phrase queue), resolve (merge filters, run
// callbacks), done. The instance holds mutable session state between calls
// and is reusable, but NOT safe for overlapping builds; serialize externally
// (see pkg/session) or use one engine per concurrent build.
type Engine struct {
	registry *registry.Registry
	resolver ports.Resolver
	hooks    domain.BuildHooks
	logger   *slog.Logger
	maxSteps int

	initialQuery domain.Document
	initialState *domain.BuilderState

	buildID string
	query   domain.Document
	state   *domain.BuilderState
	queue   phraseQueue
	history recorder
	steps   int
}

// NewEngine creates a new engine with the given registry and options.
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: reg,
		logger:   logging.NewNop(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e
}

// reset restores the document, builder state, queue and history to their
// initial values and stamps a fresh build ID.
func (e *Engine) reset() {
	e.buildID = ulid.Make().String()
	if e.initialQuery != nil {
		e.query = e.initialQuery.Clone()
	} else {
		e.query = domain.Document{}
	}
	if e.initialState != nil {
		e.state = e.initialState.Clone()
	} else {
		e.state = domain.NewBuilderState()
	}
	e.queue.clear()
	e.history.clear()
	e.steps = 0
}

// BuildQuery runs the full pipeline: reset, dispatch every phrase (plus any
// injected follow-ups), then the resolve pass. Returns the final document.
// A handler error propagates immediately; mutations made before the failure
// stay applied (fail-fast, not transactional).
func (e *Engine) BuildQuery(ctx context.Context, phrases []domain.Phrase) (domain.Document, error) {
	e.reset()
	start := time.Now()

	err := e.dispatch(ctx, phrases)
	if err == nil {
		err = e.resolve(ctx)
	}

	e.fireBuildDone(ctx, len(phrases), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return e.query, nil
}

// ApplyPhrase dispatches a single phrase without the resolve pass.
// With reset true, prior document and state are discarded first.
func (e *Engine) ApplyPhrase(ctx context.Context, name string, params map[string]any, reset bool) (domain.Document, error) {
	return e.ApplyPhrases(ctx, []domain.Phrase{{Name: name, Params: params}}, reset)
}

// ApplyPhrases runs the dispatch loop without the resolve pass. Used by
// BuildQuery internally and for incremental application.
func (e *Engine) ApplyPhrases(ctx context.Context, phrases []domain.Phrase, reset bool) (domain.Document, error) {
	if reset {
		e.reset()
	}
	if err := e.dispatch(ctx, phrases); err != nil {
		return nil, err
	}
	return e.query, nil
}

// dispatch loads phrases into the queue and drains it front-to-back. The
// queue may grow while draining; the step budget bounds the loop.
func (e *Engine) dispatch(ctx context.Context, phrases []domain.Phrase) error {
	e.queue.pushBack(phrases...)

	for {
		phrase, ok := e.queue.pop()
		if !ok {
			return nil
		}

		e.steps++
		if e.steps > e.maxSteps {
			return fmt.Errorf("%w: %d phrases dispatched (budget %d)", domain.ErrDepthExceeded, e.steps, e.maxSteps)
		}

		fn, found := e.registry.Phrase(phrase.Name)
		if !found {
			// Unknown names pass through silently so optional phrases can be
			// sent to engines that do not support them. No history entry.
			e.logger.Debug("skipping unregistered phrase", "phrase", phrase.Name, "build_id", e.buildID)
			e.firePhraseSkipped(ctx, phrase)
			continue
		}

		input := e.query.Clone()
		phraseStart := time.Now()
		if err := fn(ctx, e, phrase.Params); err != nil {
			return fmt.Errorf("phrase %q: %w", phrase.Name, err)
		}

		e.history.recordPhrase(e.query, e.state, phrase.Name, phrase.Params, input)
		e.firePhraseApplied(ctx, phrase, time.Since(phraseStart))
	}
}

// resolve reconciles accumulated components into the document: the resolver
// strategy merges filter components (registration order), one history entry
// is recorded, then callback components run in insertion order with a
// history entry each. Unknown callback ids are skipped like unknown phrases.
func (e *Engine) resolve(ctx context.Context) error {
	filters := e.state.Components(domain.ComponentFilter)
	if e.resolver != nil {
		if err := e.resolver.Resolve(ctx, e.query, filters); err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
	}
	e.history.recordResolve(e.query, e.state)

	callbacks := e.state.Components(domain.ComponentCallback)
	e.fireResolve(ctx, len(filters), len(callbacks))

	for _, entry := range callbacks {
		fn, found := e.registry.Callback(entry.ID)
		if !found {
			e.logger.Debug("skipping unregistered callback", "callback", entry.ID, "build_id", e.buildID)
			e.fireCallback(ctx, entry.ID, true)
			continue
		}
		if err := fn(ctx, e, entry.Component); err != nil {
			return fmt.Errorf("callback %q: %w", entry.ID, err)
		}
		e.history.recordCallback(e.query, e.state, entry.ID)
		e.fireCallback(ctx, entry.ID, false)
	}
	return nil
}

// Query returns the current document. Pure accessor.
func (e *Engine) Query() domain.Document {
	return e.query
}

// State returns the current builder state. Pure accessor.
func (e *Engine) State() *domain.BuilderState {
	return e.state
}

// History returns the snapshots recorded since the last reset.
func (e *Engine) History() []domain.HistoryEntry {
	return e.history.snapshot()
}

// BuildID returns the ULID stamped on the current build.
func (e *Engine) BuildID() string {
	return e.buildID
}

// PushFront implements registry.Builder: injected phrases run next.
func (e *Engine) PushFront(phrases ...domain.Phrase) {
	e.queue.pushFront(phrases...)
}

// PushBack implements registry.Builder: injected phrases run after the
// current queue drains.
func (e *Engine) PushBack(phrases ...domain.Phrase) {
	e.queue.pushBack(phrases...)
}

// Describe builds a human-readable description for each phrase by invoking
// its registered describer. Unlike execution, a missing describer is a hard
// failure: the result names the phrase that had none.
func (e *Engine) Describe(phrases []domain.Phrase) ([]string, error) {
	out := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		fn, ok := e.registry.Describer(phrase.Name)
		if !ok {
			return nil, fmt.Errorf("%w: phrase %q", domain.ErrNoDescriber, phrase.Name)
		}
		text, err := fn(phrase.Params)
		if err != nil {
			return nil, fmt.Errorf("describe %q: %w", phrase.Name, err)
		}
		out = append(out, text)
	}
	return out, nil
}

func (e *Engine) firePhraseApplied(ctx context.Context, p domain.Phrase, d time.Duration) {
	if e.hooks.OnPhraseApplied == nil {
		return
	}
	e.hooks.OnPhraseApplied(ctx, &domain.PhraseEvent{
		EventBase: e.eventBase(domain.EventPhraseApplied),
		Name:      p.Name,
		Params:    p.Params,
		Duration:  d,
	})
}

func (e *Engine) firePhraseSkipped(ctx context.Context, p domain.Phrase) {
	if e.hooks.OnPhraseSkipped == nil {
		return
	}
	e.hooks.OnPhraseSkipped(ctx, &domain.PhraseEvent{
		EventBase: e.eventBase(domain.EventPhraseSkipped),
		Name:      p.Name,
		Params:    p.Params,
	})
}

func (e *Engine) fireResolve(ctx context.Context, filters, callbacks int) {
	if e.hooks.OnResolve == nil {
		return
	}
	e.hooks.OnResolve(ctx, &domain.ResolveEvent{
		EventBase: e.eventBase(domain.EventResolve),
		Filters:   filters,
		Callbacks: callbacks,
	})
}

func (e *Engine) fireCallback(ctx context.Context, id string, skipped bool) {
	if e.hooks.OnCallback == nil {
		return
	}
	e.hooks.OnCallback(ctx, &domain.CallbackEvent{
		EventBase:  e.eventBase(domain.EventCallback),
		CallbackID: id,
		Skipped:    skipped,
	})
}

func (e *Engine) fireBuildDone(ctx context.Context, phrases int, d time.Duration, err error) {
	if e.hooks.OnBuildDone == nil {
		return
	}
	e.hooks.OnBuildDone(ctx, &domain.BuildEvent{
		EventBase: e.eventBase(domain.EventBuildDone),
		Phrases:   phrases,
		Duration:  d,
		Err:       err,
	})
}

func (e *Engine) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now().UTC(),
		Type:      t,
		BuildID:   e.buildID,
	}
}
