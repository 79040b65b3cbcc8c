package espalier_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/dsl"
	"github.com/aretw0/espalier/pkg/resolve"
)

func TestFacade_Integration(t *testing.T) {
	eng := espalier.New(dsl.NewRegistry(),
		espalier.WithResolver(resolve.NewConjunction()),
	)

	ctx := context.Background()
	doc, err := eng.BuildQuery(ctx, []domain.Phrase{
		domain.P("match", map[string]any{"field": "title", "query": "pruning"}),
		domain.P("term", map[string]any{"field": "status", "value": "published"}),
		domain.P("numeric_range", map[string]any{"field": "age", "min": 18}),
		domain.P("paginate", map[string]any{"page": 2, "size": 20}),
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// Direct mutations
	if v, _ := doc.Get("size"); v != 20 {
		t.Errorf("expected size 20, got %v", v)
	}
	if v, _ := doc.Get("from"); v != 20 {
		t.Errorf("expected from 20, got %v", v)
	}

	// Resolved filter group: both filters, ANDed, in registration order
	v, ok := doc.Get("query", "bool", "filter")
	if !ok {
		t.Fatal("expected merged filter group")
	}
	group := v.([]any)
	if len(group) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(group))
	}
	if _, isTerm := group[0].(map[string]any)["term"]; !isTerm {
		t.Errorf("expected term filter first, got %v", group[0])
	}
	if _, isRange := group[1].(map[string]any)["range"]; !isRange {
		t.Errorf("expected range filter second, got %v", group[1])
	}

	if eng.BuildID() == "" {
		t.Error("expected a build id")
	}
}

func TestFacade_Describe(t *testing.T) {
	eng := espalier.New(dsl.NewRegistry())

	lines, err := eng.Describe([]domain.Phrase{
		domain.P("sort", map[string]any{"field": "created_at", "order": "desc"}),
	})
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "created_at") {
		t.Errorf("unexpected description: %v", lines)
	}
}

func TestParseProgram(t *testing.T) {
	src := `
name: recent-published
phrases:
  - name: term
    params:
      field: status
      value: published
  - name: recent
    params:
      field: created_at
      days: 30
`
	prog, err := espalier.ParseProgram([]byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if prog.Name != "recent-published" {
		t.Errorf("unexpected program name: %s", prog.Name)
	}
	if len(prog.Phrases) != 2 {
		t.Fatalf("expected 2 phrases, got %d", len(prog.Phrases))
	}
	if prog.Phrases[1].Params["days"] != 30 {
		t.Errorf("expected days 30, got %v", prog.Phrases[1].Params["days"])
	}
}

func TestParseProgram_Invalid(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"empty", "phrases: []"},
		{"unnamed phrase", "phrases:\n  - params: {a: 1}"},
		{"garbage", "::not yaml::"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := espalier.ParseProgram([]byte(tc.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
