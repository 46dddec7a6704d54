package trace

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/Quizert/refs/shared"
)

// DefaultJournalCap bounds a journal created with a non-positive capacity.
const DefaultJournalCap = 64

// Journal keeps the most recent lifecycle events in a bounded FIFO, oldest
// first. It is an Observer; attach it with shared.WithObserver, combined
// with other observers via Tee when needed.
type Journal struct {
	q   *queue.Queue
	mu  sync.Mutex
	cap int
}

// NewJournal creates a journal holding up to capacity events.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalCap
	}
	return &Journal{
		q:   queue.New(),
		cap: capacity,
	}
}

// OnBlockEvent implements shared.Observer.
func (j *Journal) OnBlockEvent(e shared.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.q.Add(e)
	for j.q.Length() > j.cap {
		j.q.Remove()
	}
}

// Events returns the retained events, oldest first.
func (j *Journal) Events() []shared.Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]shared.Event, 0, j.q.Length())
	for i := 0; i < j.q.Length(); i++ {
		out = append(out, j.q.Get(i).(shared.Event))
	}
	return out
}

// Len returns the number of retained events.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.q.Length()
}

// Cap returns the journal's capacity.
func (j *Journal) Cap() int {
	return j.cap
}
