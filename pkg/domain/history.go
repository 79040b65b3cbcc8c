package domain

import "time"

// EntryKind categorizes history entries by the dispatch point that produced
// them.
type EntryKind string

const (
	// EntryPhrase is recorded after each phrase handler runs.
	EntryPhrase EntryKind = "phrase"
	// EntryResolve is recorded once, after the resolver merged filters.
	EntryResolve EntryKind = "resolve"
	// EntryCallback is recorded after each callback component runs.
	EntryCallback EntryKind = "callback"
)

// HistoryEntry is an append-only snapshot of the build taken at a
// well-defined point. Query and State are deep copies; later mutation of the
// live build never changes a recorded entry. History is diagnostic output
// only, the engine never reads it back.
type HistoryEntry struct {
	Kind  EntryKind     `json:"kind"`
	Query Document      `json:"query"`
	State *BuilderState `json:"builder_state,omitempty"`

	// Phrase entries only.
	PhraseName string         `json:"phrase_name,omitempty"`
	Params     map[string]any `json:"phrase_params,omitempty"`
	InputQuery Document       `json:"input_query,omitempty"`

	// Callback entries only.
	CallbackID string `json:"callback_id,omitempty"`

	At time.Time `json:"at"`
}
