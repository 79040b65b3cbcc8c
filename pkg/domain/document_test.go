package domain_test

import (
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
)

func TestDocument_Clone_Isolation(t *testing.T) {
	doc := domain.Document{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{"a", "b"},
			},
		},
		"size": 10,
	}

	clone := doc.Clone()

	// Mutate the original deeply
	inner := doc["query"].(map[string]any)["bool"].(map[string]any)
	inner["must"] = append(inner["must"].([]any), "c")
	doc["size"] = 20

	clonedInner, ok := clone.Get("query", "bool", "must")
	if !ok {
		t.Fatal("expected query.bool.must in clone")
	}
	if len(clonedInner.([]any)) != 2 {
		t.Errorf("clone was affected by mutation of the original: %v", clonedInner)
	}
	if clone["size"] != 10 {
		t.Errorf("expected clone size 10, got %v", clone["size"])
	}
}

func TestDocument_SetGet(t *testing.T) {
	doc := domain.Document{}

	doc.Set("desc", "sort", "created_at", "order")

	v, ok := doc.Get("sort", "created_at", "order")
	if !ok {
		t.Fatal("expected path to exist")
	}
	if v != "desc" {
		t.Errorf("expected 'desc', got %v", v)
	}

	// Missing path
	if _, ok := doc.Get("sort", "missing"); ok {
		t.Error("expected missing path to report false")
	}

	// Path through a scalar
	doc.Set(5, "size")
	if _, ok := doc.Get("size", "inner"); ok {
		t.Error("expected traversal through scalar to fail")
	}
}

func TestDocument_Append(t *testing.T) {
	doc := domain.Document{}

	doc.Append([]string{"markers"}, "a")
	doc.Append([]string{"markers"}, "b", "c")

	v, _ := doc.Get("markers")
	list := v.([]any)
	if len(list) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(list))
	}
	if list[0] != "a" || list[2] != "c" {
		t.Errorf("unexpected order: %v", list)
	}
}
