package dsl

// FieldMap translates public field names to index field names. Names without
// a mapping pass through unchanged.
type FieldMap map[string]string

// Resolve returns the index field for a public name.
func (m FieldMap) Resolve(name string) string {
	if mapped, ok := m[name]; ok {
		return mapped
	}
	return name
}
