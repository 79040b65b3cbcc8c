package domain

// Document is the nested structure a build constructs. Keys are strings,
// values are scalars, nested maps, or slices thereof. The engine enforces no
// schema; phrase handlers decide the shape.
type Document map[string]any

// Clone returns a deep copy of the document. History snapshots and store
// adapters rely on this to avoid aliasing live build state.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case Document:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		// Scalars (and anything else) are copied by value.
		return val
	}
}

// Get walks the document along the given path and returns the value found.
// The boolean reports whether every segment of the path existed.
func (d Document) Get(path ...string) (any, bool) {
	var current any = map[string]any(d)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			if doc, isDoc := current.(Document); isDoc {
				m = map[string]any(doc)
			} else {
				return nil, false
			}
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set writes a value at the given path, creating intermediate maps as needed.
// An existing non-map value on the path is replaced by a map.
func (d Document) Set(value any, path ...string) {
	if len(path) == 0 {
		return
	}
	current := map[string]any(d)
	for _, key := range path[:len(path)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

// Append adds values to a slice at the given path, creating it if absent.
func (d Document) Append(path []string, values ...any) {
	existing, _ := d.Get(path...)
	list, _ := existing.([]any)
	list = append(list, values...)
	d.Set(list, path...)
}
