package domain

// Component type names used by the engine and the reference phrase set.
// Domains may record additional types; the engine only gives special
// treatment to filters (merged by the resolver) and callbacks (invoked
// after the resolve pass).
const (
	ComponentFilter   = "filter"
	ComponentCallback = "callback"
)

// Component is a deferred mutation recorded into the BuilderState during
// phrase dispatch. Data-bearing components (filters) carry a Body; pure
// behavior components (callbacks) are usually empty records whose id selects
// the registered behavior.
type Component struct {
	Name   string         `json:"name,omitempty"`
	Body   map[string]any `json:"body,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

func (c Component) clone() Component {
	out := Component{Name: c.Name}
	if c.Body != nil {
		out.Body = Document(c.Body).Clone()
	}
	if c.Config != nil {
		out.Config = Document(c.Config).Clone()
	}
	return out
}

// ComponentEntry pairs a component with the id it was recorded under.
type ComponentEntry struct {
	ID        string    `json:"id"`
	Component Component `json:"component"`
}

// ComponentSet is an insertion-ordered collection of components keyed by id.
// Re-setting an id overwrites the record (last write wins) but keeps the
// original position, so resolution order matches first registration.
type ComponentSet struct {
	ids     []string
	records map[string]Component
}

// NewComponentSet creates an empty set.
func NewComponentSet() *ComponentSet {
	return &ComponentSet{records: make(map[string]Component)}
}

// Set upserts a component under the given id.
func (s *ComponentSet) Set(id string, c Component) {
	if _, exists := s.records[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.records[id] = c
}

// Get returns the component for an id. The boolean distinguishes a missing
// record from an empty one; callers that care must check it.
func (s *ComponentSet) Get(id string) (Component, bool) {
	c, ok := s.records[id]
	return c, ok
}

// Len returns the number of components in the set.
func (s *ComponentSet) Len() int {
	return len(s.ids)
}

// Entries returns the components in insertion order.
func (s *ComponentSet) Entries() []ComponentEntry {
	out := make([]ComponentEntry, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, ComponentEntry{ID: id, Component: s.records[id]})
	}
	return out
}

// Clone returns a deep copy of the set.
func (s *ComponentSet) Clone() *ComponentSet {
	out := &ComponentSet{
		ids:     append([]string(nil), s.ids...),
		records: make(map[string]Component, len(s.records)),
	}
	for id, c := range s.records {
		out.records[id] = c.clone()
	}
	return out
}
