package dsl_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/dsl"
	"github.com/aretw0/espalier/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(opts ...dsl.Option) *espalier.Engine {
	return espalier.New(dsl.NewRegistry(opts...),
		espalier.WithResolver(resolve.NewConjunction()),
	)
}

func TestMatch(t *testing.T) {
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("match", map[string]any{"field": "title", "query": "grafting"}),
	})
	require.NoError(t, err)

	v, ok := doc.Get("query", "bool", "must")
	require.True(t, ok, "expected query.bool.must")
	must := v.([]any)
	require.Len(t, must, 1)

	clause := must[0].(map[string]any)["match"].(map[string]any)
	assert.Equal(t, map[string]any{"query": "grafting"}, clause["title"])
}

func TestMatch_RequiresField(t *testing.T) {
	eng := newEngine()
	_, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("match", map[string]any{"query": "no field"}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field is required")
	assert.Contains(t, err.Error(), `phrase "match"`)
}

func TestSort_DefaultsToAscending(t *testing.T) {
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("sort", map[string]any{"field": "title"}),
	})
	require.NoError(t, err)

	v, _ := doc.Get("sort")
	sorts := v.([]any)
	require.Len(t, sorts, 1)
	assert.Equal(t, map[string]any{"order": "asc"}, sorts[0].(map[string]any)["title"])
}

func TestSort_RejectsBadOrder(t *testing.T) {
	eng := newEngine()
	_, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("sort", map[string]any{"field": "title", "order": "sideways"}),
	})
	require.Error(t, err)
}

func TestPaginate_ComputesOffset(t *testing.T) {
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("paginate", map[string]any{"page": 3, "size": 25}),
	})
	require.NoError(t, err)

	size, _ := doc.Get("size")
	from, _ := doc.Get("from")
	assert.Equal(t, 25, size)
	assert.Equal(t, 50, from)
}

func TestPaginate_WeaklyTypedParams(t *testing.T) {
	// JSON-sourced params arrive as strings or floats; both must decode.
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("paginate", map[string]any{"page": "2", "size": float64(10)}),
	})
	require.NoError(t, err)

	from, _ := doc.Get("from")
	assert.Equal(t, 10, from)
}

func TestNumericRange_MinMaxBecomeOperators(t *testing.T) {
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("numeric_range", map[string]any{"field": "price", "min": 10, "max": 100}),
	})
	require.NoError(t, err)

	v, ok := doc.Get("query", "bool", "filter")
	require.True(t, ok)
	bounds := v.([]any)[0].(map[string]any)["range"].(map[string]any)["price"].(map[string]any)
	assert.Equal(t, 10, bounds["gte"])
	assert.Equal(t, 100, bounds["lte"])
}

func TestNumericRange_OpenEnded(t *testing.T) {
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("numeric_range", map[string]any{"field": "price", "min": 10}),
	})
	require.NoError(t, err)

	v, _ := doc.Get("query", "bool", "filter")
	bounds := v.([]any)[0].(map[string]any)["range"].(map[string]any)["price"].(map[string]any)
	assert.Equal(t, 10, bounds["gte"])
	_, hasMax := bounds["lte"]
	assert.False(t, hasMax, "absent max must not produce lte")
}

func TestRangePhrases_ShareComponentID(t *testing.T) {
	// numeric_range then date_range on the same field: last write wins.
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("numeric_range", map[string]any{"field": "created_at", "min": 1}),
		domain.P("date_range", map[string]any{"field": "created_at", "from": "2026-01-01"}),
	})
	require.NoError(t, err)

	v, _ := doc.Get("query", "bool", "filter")
	group := v.([]any)
	require.Len(t, group, 1, "same-field ranges must collapse to one filter")
	bounds := group[0].(map[string]any)["range"].(map[string]any)["created_at"].(map[string]any)
	assert.Equal(t, "2026-01-01", bounds["gte"])
}

func TestHighlight_AppliedDuringResolve(t *testing.T) {
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("highlight", map[string]any{"fields": []string{"title", "body"}}),
	})
	require.NoError(t, err)

	v, ok := doc.Get("highlight", "fields")
	require.True(t, ok, "expected highlight.fields after resolve")
	fields := v.(map[string]any)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "body")

	// The highlight section is written by the callback, so it appears in the
	// callback history entry but not in any phrase entry.
	for _, entry := range eng.History() {
		if entry.Kind == domain.EntryPhrase {
			if _, ok := entry.Query.Get("highlight"); ok {
				t.Error("highlight applied before resolve pass")
			}
		}
	}
}

func TestRecent_InjectsRangeAndSort(t *testing.T) {
	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	eng := newEngine(dsl.WithClock(func() time.Time { return fixed }))

	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("recent", map[string]any{"field": "created_at", "days": 7}),
	})
	require.NoError(t, err)

	v, ok := doc.Get("query", "bool", "filter")
	require.True(t, ok, "expected injected date_range filter")
	bounds := v.([]any)[0].(map[string]any)["range"].(map[string]any)["created_at"].(map[string]any)
	assert.Equal(t, "2026-08-17T12:00:00Z", bounds["gte"])

	sv, ok := doc.Get("sort")
	require.True(t, ok, "expected injected sort")
	assert.Equal(t, map[string]any{"order": "desc"}, sv.([]any)[0].(map[string]any)["created_at"])
}

func TestFieldMap_Translation(t *testing.T) {
	eng := newEngine(dsl.WithFieldMap(dsl.FieldMap{"author": "author.keyword"}))
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("term", map[string]any{"field": "author", "value": "liz"}),
	})
	require.NoError(t, err)

	v, _ := doc.Get("query", "bool", "filter")
	term := v.([]any)[0].(map[string]any)["term"].(map[string]any)
	assert.Equal(t, "liz", term["author.keyword"])
}

func TestSource_IncludesExcludes(t *testing.T) {
	eng := newEngine()
	doc, err := eng.BuildQuery(context.Background(), []domain.Phrase{
		domain.P("source", map[string]any{"include": []string{"title"}, "exclude": []string{"body"}}),
	})
	require.NoError(t, err)

	v, ok := doc.Get("_source")
	require.True(t, ok)
	src := v.(map[string]any)
	assert.True(t, reflect.DeepEqual(src["includes"], []string{"title"}), "includes: %v", src["includes"])
	assert.True(t, reflect.DeepEqual(src["excludes"], []string{"body"}), "excludes: %v", src["excludes"])
}

func TestDescribe_AllPhrases(t *testing.T) {
	eng := newEngine()
	lines, err := eng.Describe([]domain.Phrase{
		domain.P("match", map[string]any{"field": "title", "query": "x"}),
		domain.P("numeric_range", map[string]any{"field": "price", "min": 1}),
		domain.P("highlight", map[string]any{"fields": []string{"title"}}),
	})
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "between `1` and `*`")
}
