package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
)

func TestBuilderState_LastWriteWins(t *testing.T) {
	state := domain.NewBuilderState()

	state.SetComponent(domain.ComponentFilter, "status", domain.Component{
		Name: "status",
		Body: map[string]any{"term": map[string]any{"status": "draft"}},
	})
	state.SetComponent(domain.ComponentFilter, "status", domain.Component{
		Name: "status",
		Body: map[string]any{"term": map[string]any{"status": "published"}},
	})

	c, ok := state.GetComponent(domain.ComponentFilter, "status")
	if !ok {
		t.Fatal("expected component to exist")
	}
	term := c.Body["term"].(map[string]any)
	if term["status"] != "published" {
		t.Errorf("expected last write to win, got %v", term["status"])
	}

	if got := len(state.Components(domain.ComponentFilter)); got != 1 {
		t.Errorf("expected 1 component after overwrite, got %d", got)
	}
}

func TestBuilderState_OrderPreservedOnOverwrite(t *testing.T) {
	state := domain.NewBuilderState()

	state.SetComponent(domain.ComponentFilter, "a", domain.Component{Name: "a"})
	state.SetComponent(domain.ComponentFilter, "b", domain.Component{Name: "b"})
	state.SetComponent(domain.ComponentFilter, "a", domain.Component{Name: "a2"})

	entries := state.Components(domain.ComponentFilter)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "a" || entries[1].ID != "b" {
		t.Errorf("expected order [a b], got [%s %s]", entries[0].ID, entries[1].ID)
	}
	if entries[0].Component.Name != "a2" {
		t.Errorf("expected overwritten record at original position, got %s", entries[0].Component.Name)
	}
}

func TestBuilderState_AbsentVsEmpty(t *testing.T) {
	state := domain.NewBuilderState()
	state.SetComponent(domain.ComponentCallback, "relevance", domain.Component{})

	if _, ok := state.GetComponent(domain.ComponentCallback, "relevance"); !ok {
		t.Error("empty record must still report present")
	}
	if _, ok := state.GetComponent(domain.ComponentCallback, "other"); ok {
		t.Error("missing record must report absent")
	}
}

func TestBuilderState_Clone_Isolation(t *testing.T) {
	state := domain.NewBuilderState()
	state.SetComponent(domain.ComponentFilter, "f1", domain.Component{
		Body: map[string]any{"range": map[string]any{"age": map[string]any{"gte": 18}}},
	})

	clone := state.Clone()

	// Mutate original body in place
	c, _ := state.GetComponent(domain.ComponentFilter, "f1")
	c.Body["range"].(map[string]any)["age"].(map[string]any)["gte"] = 99

	cc, _ := clone.GetComponent(domain.ComponentFilter, "f1")
	gte := cc.Body["range"].(map[string]any)["age"].(map[string]any)["gte"]
	if gte != 18 {
		t.Errorf("clone was affected by mutation of the original: %v", gte)
	}
}

func TestBuilderState_JSONRoundTrip(t *testing.T) {
	state := domain.NewBuilderState()
	state.SetComponent(domain.ComponentFilter, "f1", domain.Component{Name: "f1", Body: map[string]any{"k": "v"}})
	state.SetComponent(domain.ComponentCallback, "c1", domain.Component{})

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	restored := domain.NewBuilderState()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	c, ok := restored.GetComponent(domain.ComponentFilter, "f1")
	if !ok || c.Body["k"] != "v" {
		t.Errorf("filter lost in round trip: %v %v", c, ok)
	}
	if _, ok := restored.GetComponent(domain.ComponentCallback, "c1"); !ok {
		t.Error("callback lost in round trip")
	}
}
