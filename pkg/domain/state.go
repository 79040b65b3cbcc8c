package domain

import "encoding/json"

// BuilderState is the working memory of one build session: component-type
// name -> insertion-ordered set of component records. It is owned exclusively
// by the engine and reset alongside the document; phrase handlers receive a
// reference and mutate it in place.
type BuilderState struct {
	sets map[string]*ComponentSet
}

// NewBuilderState creates an empty builder state.
func NewBuilderState() *BuilderState {
	return &BuilderState{sets: make(map[string]*ComponentSet)}
}

// SetComponent upserts BuilderState[componentType][id] = c.
// Last write wins; there is no merge with a prior record.
func (b *BuilderState) SetComponent(componentType, id string, c Component) {
	set, ok := b.sets[componentType]
	if !ok {
		set = NewComponentSet()
		b.sets[componentType] = set
	}
	set.Set(id, c)
}

// GetComponent returns the record for a type/id pair. The boolean
// distinguishes "absent" from "empty record".
func (b *BuilderState) GetComponent(componentType, id string) (Component, bool) {
	set, ok := b.sets[componentType]
	if !ok {
		return Component{}, false
	}
	return set.Get(id)
}

// Components returns the components of a type in insertion order.
// Returns nil if no component of the type was ever recorded.
func (b *BuilderState) Components(componentType string) []ComponentEntry {
	set, ok := b.sets[componentType]
	if !ok {
		return nil
	}
	return set.Entries()
}

// Clone returns a deep copy, used by the history recorder so prior snapshots
// are unaffected by later mutation.
func (b *BuilderState) Clone() *BuilderState {
	out := NewBuilderState()
	for typ, set := range b.sets {
		out.sets[typ] = set.Clone()
	}
	return out
}

// MarshalJSON exports the state as type -> ordered component entries.
// Used by history export and snapshot persistence; never read back by the
// engine itself.
func (b *BuilderState) MarshalJSON() ([]byte, error) {
	out := make(map[string][]ComponentEntry, len(b.sets))
	for typ, set := range b.sets {
		out[typ] = set.Entries()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a state exported by MarshalJSON. Only snapshot
// stores use this; the engine always starts from NewBuilderState.
func (b *BuilderState) UnmarshalJSON(data []byte) error {
	var raw map[string][]ComponentEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.sets = make(map[string]*ComponentSet, len(raw))
	for typ, entries := range raw {
		set := NewComponentSet()
		for _, e := range entries {
			set.Set(e.ID, e.Component)
		}
		b.sets[typ] = set
	}
	return nil
}
