// Package resolve provides filter merge strategies for the resolve pass.
//
// The engine treats the merge step as a pluggable policy (ports.Resolver).
// Conjunction is the baseline: every filter body joins a single logical-AND
// group. Disjunctive or negated grouping belongs in sibling strategies, not
// in engine changes.
package resolve

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// DefaultTargetPath is where Conjunction writes the merged group.
var DefaultTargetPath = []string{"query", "bool", "filter"}

// Conjunction merges all filter component bodies into a single conjunctive
// group at a configurable document path. Order inside the group matches
// component registration order.
type Conjunction struct {
	path []string
}

// Option configures a Conjunction.
type Option func(*Conjunction)

// WithTargetPath overrides the document path the merged group is written to.
func WithTargetPath(path ...string) Option {
	return func(c *Conjunction) {
		if len(path) > 0 {
			c.path = path
		}
	}
}

// NewConjunction creates the baseline AND-merge strategy.
func NewConjunction(opts ...Option) *Conjunction {
	c := &Conjunction{path: DefaultTargetPath}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve implements ports.Resolver. With no filters the document is left
// untouched.
func (c *Conjunction) Resolve(ctx context.Context, query domain.Document, filters []domain.ComponentEntry) error {
	if len(filters) == 0 {
		return nil
	}

	group := make([]any, 0, len(filters))
	for _, entry := range filters {
		if entry.Component.Body == nil {
			continue
		}
		// Copy so later resolver passes or callbacks can't mutate the
		// component record through the document.
		group = append(group, map[string]any(domain.Document(entry.Component.Body).Clone()))
	}
	if len(group) == 0 {
		return nil
	}

	query.Set(group, c.path...)
	return nil
}
