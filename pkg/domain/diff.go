package domain

import (
	"reflect"
)

// QueryDiff represents the top-level changes between two documents.
// It is designed to be serialized to JSON for diagnostics (e.g. "what did
// this phrase change"). For deletions, the key is present with a nil value.
type QueryDiff struct {
	// Changed contains added or modified keys with their new values.
	// Deleted keys appear with a nil value.
	Changed map[string]any `json:"changed,omitempty"`
}

// Diff calculates the top-level difference between two documents.
// If old is nil, it returns a diff representing the entire new document.
// Returns nil when nothing changed.
func Diff(old, new Document) *QueryDiff {
	if new == nil {
		return nil
	}

	delta := make(map[string]any)

	// Added or modified keys.
	for k, newVal := range new {
		oldVal, exists := old[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	// Deletions.
	for k := range old {
		if _, exists := new[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return &QueryDiff{Changed: delta}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *QueryDiff) IsEmpty() bool {
	return d == nil || len(d.Changed) == 0
}
