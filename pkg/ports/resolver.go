package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// Resolver is the merge strategy applied during the resolve pass: it
// reconciles the filter components accumulated in the builder state into the
// final document. The engine passes filters in registration order.
//
// The shipped baseline (resolve.Conjunction) combines all filter bodies into
// a single conjunctive group. Richer boolean grouping (disjunction, negation)
// is introduced by swapping the strategy, not by changing the engine.
type Resolver interface {
	Resolve(ctx context.Context, query domain.Document, filters []domain.ComponentEntry) error
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, query domain.Document, filters []domain.ComponentEntry) error

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, query domain.Document, filters []domain.ComponentEntry) error {
	return f(ctx, query, filters)
}
