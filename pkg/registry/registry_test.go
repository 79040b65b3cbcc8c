package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/registry"
)

func TestRegistry_PhraseLookup(t *testing.T) {
	r := registry.New()

	r.RegisterPhrase("sort", func(ctx context.Context, b registry.Builder, params map[string]any) error {
		return nil
	})

	if _, ok := r.Phrase("sort"); !ok {
		t.Error("expected registered phrase to be found")
	}
	if _, ok := r.Phrase("unknown"); ok {
		t.Error("expected unknown phrase to report a miss, not panic or error")
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	r := registry.New()
	calls := []string{}

	r.RegisterPhrase("p", func(ctx context.Context, b registry.Builder, params map[string]any) error {
		calls = append(calls, "first")
		return nil
	})
	r.RegisterPhrase("p", func(ctx context.Context, b registry.Builder, params map[string]any) error {
		calls = append(calls, "second")
		return nil
	})

	fn, _ := r.Phrase("p")
	if err := fn(context.Background(), nil, nil); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0] != "second" {
		t.Errorf("expected last registration to win, got %v", calls)
	}
}

func TestRegistry_CallbackAndDescriber(t *testing.T) {
	r := registry.New()

	r.RegisterCallback("relevance", func(ctx context.Context, b registry.Builder, c domain.Component) error {
		return nil
	})
	r.RegisterDescriber("sort", func(params map[string]any) (string, error) {
		return "sorts things", nil
	})

	if _, ok := r.Callback("relevance"); !ok {
		t.Error("expected callback to be found")
	}
	if _, ok := r.Callback("missing"); ok {
		t.Error("expected missing callback to report a miss")
	}

	desc, ok := r.Describer("sort")
	if !ok {
		t.Fatal("expected describer to be found")
	}
	text, err := desc(nil)
	if err != nil || text != "sorts things" {
		t.Errorf("unexpected describer result: %q, %v", text, err)
	}
}
