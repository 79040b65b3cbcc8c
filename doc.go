/*
Package espalier is a named-transformation pipeline engine for building
nested query documents from an ordered list of "phrases".

Each phrase names a registered transformation; the engine dispatches them in
order against a mutable document, then runs a resolve pass that reconciles
deferred components (filters, callbacks) into the final result. The engine is
domain-agnostic: a phrase set such as pkg/dsl supplies the concrete
transformations for a specific query language.

# Concept

A build has two explicit stages. During dispatch, each phrase either mutates
the document directly or records a component into the builder state (or
both); phrases may inject follow-up phrases into the queue. During resolve,
an injectable strategy merges the accumulated filter components into the
document (the baseline joins them into one logical-AND group), then callback
components run in insertion order. Every step is captured in an append-only
history of isolated snapshots for diagnostics.

# Key Properties

  - Deterministic: the same phrase list against the same initial document
    always produces the same result.
  - Explicit dispatch: behavior is looked up in a typed registry; unknown
    phrase names pass through silently so optional phrases are safe to send.
  - Fail-fast: a handler error aborts the build immediately with no
    rollback.
  - Bounded: a step budget stops self-extending pipelines that never drain.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/espalier"
		"github.com/aretw0/espalier/pkg/domain"
		"github.com/aretw0/espalier/pkg/dsl"
		"github.com/aretw0/espalier/pkg/resolve"
	)

	func main() {
		eng := espalier.New(dsl.NewRegistry(),
			espalier.WithResolver(resolve.NewConjunction()),
		)

		doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
			domain.P("match", map[string]any{"field": "title", "query": "pruning"}),
			domain.P("term", map[string]any{"field": "status", "value": "published"}),
			domain.P("paginate", map[string]any{"page": 2, "size": 20}),
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("%v", doc)
	}

One engine instance runs one build at a time; overlapping builds on a shared
instance corrupt session state. Use pkg/session to serialize builds per
session, or one engine per goroutine.
*/
package espalier
