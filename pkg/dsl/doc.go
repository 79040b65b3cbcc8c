/*
Package dsl is the reference phrase set for a search-engine query DSL.

It is the "domain half" of Espalier: the engine knows nothing about query
languages, so this package supplies the named transformations. Direct
phrases (match, sort, paginate, source) mutate the document immediately;
filter phrases (term, numeric_range, date_range) record filter components
merged by the resolver; highlight registers a callback component applied
after the merge. The recent phrase shows queue injection: it expands into a
date_range plus a sort.

Field names go through a FieldMap so public names can differ from index
fields.

Usage:

	reg := dsl.NewRegistry(dsl.WithFieldMap(dsl.FieldMap{"author": "author.keyword"}))
	eng := espalier.New(reg, espalier.WithResolver(resolve.NewConjunction()))
	doc, err := eng.BuildQuery(ctx, []domain.Phrase{
		domain.P("match", map[string]any{"field": "title", "query": "espalier"}),
		domain.P("recent", map[string]any{"field": "created_at", "days": 7}),
	})
*/
package dsl
