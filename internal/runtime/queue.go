package runtime

import "github.com/aretw0/espalier/pkg/domain"

// phraseQueue is the ordered work-list of phrase invocations for one build.
// It is consumed strictly front-to-back and may grow during dispatch: phrase
// handlers inject follow-ups either at the front (run next) or at the back.
type phraseQueue struct {
	items []domain.Phrase
}

func (q *phraseQueue) pushFront(phrases ...domain.Phrase) {
	if len(phrases) == 0 {
		return
	}
	q.items = append(append([]domain.Phrase(nil), phrases...), q.items...)
}

func (q *phraseQueue) pushBack(phrases ...domain.Phrase) {
	q.items = append(q.items, phrases...)
}

// pop removes and returns the front phrase. The boolean is false when the
// queue is empty.
func (q *phraseQueue) pop() (domain.Phrase, bool) {
	if len(q.items) == 0 {
		return domain.Phrase{}, false
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p, true
}

func (q *phraseQueue) len() int {
	return len(q.items)
}

func (q *phraseQueue) clear() {
	q.items = nil
}
