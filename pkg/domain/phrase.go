package domain

// Phrase is a named, parameterized request to apply one registered
// transformation to the document. The engine validates nothing beyond the
// name lookup; params are interpreted by the handler.
type Phrase struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// P is a shorthand constructor, mostly for tests and programs built in code.
func P(name string, params map[string]any) Phrase {
	return Phrase{Name: name, Params: params}
}
