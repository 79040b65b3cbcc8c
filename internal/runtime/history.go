package runtime

import (
	"time"

	"github.com/aretw0/espalier/pkg/domain"
)

// recorder is the append-only history log for one build. Every record deep
// copies the document and builder state so prior entries are unaffected by
// later mutation. Bounded only by the number of phrases and components in a
// build; cleared on every reset.
type recorder struct {
	entries []domain.HistoryEntry
}

func (r *recorder) recordPhrase(query domain.Document, state *domain.BuilderState, name string, params map[string]any, input domain.Document) {
	r.entries = append(r.entries, domain.HistoryEntry{
		Kind:       domain.EntryPhrase,
		Query:      query.Clone(),
		State:      state.Clone(),
		PhraseName: name,
		Params:     domain.Document(params).Clone(),
		InputQuery: input, // already a clone taken before the handler ran
		At:         time.Now().UTC(),
	})
}

func (r *recorder) recordResolve(query domain.Document, state *domain.BuilderState) {
	r.entries = append(r.entries, domain.HistoryEntry{
		Kind:  domain.EntryResolve,
		Query: query.Clone(),
		State: state.Clone(),
		At:    time.Now().UTC(),
	})
}

func (r *recorder) recordCallback(query domain.Document, state *domain.BuilderState, callbackID string) {
	r.entries = append(r.entries, domain.HistoryEntry{
		Kind:       domain.EntryCallback,
		Query:      query.Clone(),
		State:      state.Clone(),
		CallbackID: callbackID,
		At:         time.Now().UTC(),
	})
}

func (r *recorder) clear() {
	r.entries = nil
}

// snapshot returns a copy of the entry slice. Entries themselves are already
// isolated from live state.
func (r *recorder) snapshot() []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), r.entries...)
}
