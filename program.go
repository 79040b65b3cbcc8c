package espalier

import (
	"fmt"
	"io"

	"github.com/aretw0/espalier/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Program is a named, reusable phrase list, typically loaded from a YAML
// file (JSON parses too, as a YAML subset).
type Program struct {
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Phrases []domain.Phrase `json:"phrases" yaml:"phrases"`
}

// LoadProgram reads and parses a phrase program.
func LoadProgram(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return ParseProgram(data)
}

// ParseProgram parses a phrase program from YAML/JSON bytes.
func ParseProgram(data []byte) (*Program, error) {
	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}
	if len(p.Phrases) == 0 {
		return nil, fmt.Errorf("program has no phrases")
	}
	for i, phrase := range p.Phrases {
		if phrase.Name == "" {
			return nil, fmt.Errorf("phrase %d has no name", i)
		}
	}
	return &p, nil
}
