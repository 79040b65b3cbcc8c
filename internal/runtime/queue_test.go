package runtime

import (
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
)

func TestPhraseQueue_FIFO(t *testing.T) {
	q := phraseQueue{}
	q.pushBack(domain.P("a", nil), domain.P("b", nil))

	p, ok := q.pop()
	if !ok || p.Name != "a" {
		t.Fatalf("expected a, got %v %v", p, ok)
	}
	p, _ = q.pop()
	if p.Name != "b" {
		t.Errorf("expected b, got %s", p.Name)
	}
	if _, ok := q.pop(); ok {
		t.Error("expected empty queue")
	}
}

func TestPhraseQueue_PushFront(t *testing.T) {
	q := phraseQueue{}
	q.pushBack(domain.P("queued", nil))
	q.pushFront(domain.P("x", nil), domain.P("y", nil))

	want := []string{"x", "y", "queued"}
	for _, name := range want {
		p, ok := q.pop()
		if !ok || p.Name != name {
			t.Fatalf("expected %s, got %v (ok=%v)", name, p.Name, ok)
		}
	}
}

func TestPhraseQueue_Clear(t *testing.T) {
	q := phraseQueue{}
	q.pushBack(domain.P("a", nil))
	q.clear()
	if q.len() != 0 {
		t.Errorf("expected empty queue after clear, got %d", q.len())
	}
}
