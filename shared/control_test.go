package shared

import (
	"testing"
)

type eventLog struct {
	events []Event
}

func (l *eventLog) OnBlockEvent(e Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) count(t EventType) int {
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestBlock_StrongZeroThenWeakZero(t *testing.T) {
	log := &eventLog{}
	b := newObjBlock(5, nil, []Option{WithObserver(log)})

	retainWeak(b)
	release(b)

	if log.count(EventTeardown) != 1 {
		t.Fatal("teardown must fire at the strong-to-zero transition")
	}
	if log.count(EventFreed) != 0 {
		t.Fatal("block must not be freed while a weak unit remains")
	}

	releaseWeak(b)
	if log.count(EventFreed) != 1 {
		t.Fatal("block must be freed when the weak count reaches zero last")
	}
}

func TestBlock_WeakZeroThenStrongZero(t *testing.T) {
	log := &eventLog{}
	b := newObjBlock(5, nil, []Option{WithObserver(log)})

	retainWeak(b)
	releaseWeak(b)
	if log.count(EventFreed) != 0 {
		t.Fatal("block must not be freed while a strong unit remains")
	}

	release(b)
	if log.count(EventTeardown) != 1 {
		t.Fatal("teardown must fire exactly once")
	}
	if log.count(EventFreed) != 1 {
		t.Fatal("block must be freed when the strong count reaches zero last")
	}
}

func TestBlock_StrongUnderflowPanics(t *testing.T) {
	b := newObjBlock(0, nil, nil)
	release(b)

	defer func() {
		if recover() == nil {
			t.Fatal("decrementing a zero strong count must panic")
		}
	}()
	release(b)
}

func TestBlock_WeakUnderflowPanics(t *testing.T) {
	b := newObjBlock(0, nil, nil)

	defer func() {
		if recover() == nil {
			t.Fatal("decrementing a zero weak count must panic")
		}
		release(b)
	}()
	releaseWeak(b)
}

func TestBlock_EventCarriesIdentity(t *testing.T) {
	log := &eventLog{}
	b := newObjBlock("payload", nil, []Option{WithObserver(log), WithLabel("cache-entry")})

	if len(log.events) != 1 {
		t.Fatalf("expected a created event, got %d events", len(log.events))
	}
	created := log.events[0]
	if created.Type != EventCreated {
		t.Fatal("first event must be created")
	}
	if created.Label != "cache-entry" {
		t.Fatalf("wrong label: %q", created.Label)
	}
	if created.ID == 0 {
		t.Fatal("block id must be assigned")
	}
	if created.Strong != 1 || created.Weak != 0 {
		t.Fatalf("new block must start at strong=1 weak=0, got %d/%d", created.Strong, created.Weak)
	}

	release(b)
	for _, e := range log.events[1:] {
		if e.ID != created.ID {
			t.Fatal("all events of one block must share its id")
		}
	}
}

func TestBlock_IDsAreDistinct(t *testing.T) {
	a := newObjBlock(1, nil, nil)
	b := newPtrBlock(new(int), nil, nil)
	if a.id == b.id {
		t.Fatal("blocks must get distinct ids")
	}
	release(a)
	release(b)
}
