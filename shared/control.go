package shared

import (
	"sync/atomic"

	"github.com/Quizert/refs"
)

// Block IDs only identify blocks in events and leak reports. Generation is
// atomic so that independent blocks may be created from different
// goroutines even though each block itself is single-goroutine.
var lastBlockID atomic.Uint64

// counters is the bookkeeping shared by every handle bound to one payload:
// the strong count (owners), the weak count (observers), and the optional
// diagnostics attachment.
type counters struct {
	label  string
	obs    Observer
	id     uint64
	strong uint32
	weak   uint32
}

func newCounters(opts []Option) counters {
	c := counters{
		id:     lastBlockID.Add(1),
		strong: 1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *counters) emit(t EventType) {
	if c.obs == nil {
		return
	}
	c.obs.OnBlockEvent(Event{
		Type:   t,
		ID:     c.id,
		Label:  c.label,
		Strong: c.strong,
		Weak:   c.weak,
	})
}

// block is the control-block contract: counter storage plus the
// payload-teardown strategy. Exactly two implementations exist, selected
// at construction time: ptrBlock (payload in its own allocation) and
// objBlock (payload embedded next to the counters).
type block interface {
	state() *counters

	// teardown destroys the payload. Called exactly once, at the
	// strong-to-zero transition.
	teardown()

	// detach drops whatever the block still references after both
	// counters hit zero. Called exactly once.
	detach()
}

func retain(b block) {
	b.state().strong++
}

func release(b block) {
	c := b.state()
	if c.strong == 0 {
		panic("refs/shared: strong count underflow (double release?)")
	}
	c.strong--
	if c.strong > 0 {
		return
	}
	b.teardown()
	c.emit(EventTeardown)
	if c.weak == 0 {
		free(b)
	}
}

func retainWeak(b block) {
	b.state().weak++
}

func releaseWeak(b block) {
	c := b.state()
	if c.weak == 0 {
		panic("refs/shared: weak count underflow (double release?)")
	}
	c.weak--
	if c.weak == 0 && c.strong == 0 {
		free(b)
	}
}

// free retires the block. The payload is already gone (teardown ran when
// the strong count hit zero); what remains is the block's own references.
func free(b block) {
	c := b.state()
	c.emit(EventFreed)
	b.detach()
	c.obs = nil
}

func strongCount(b block) int {
	if b == nil {
		return 0
	}
	return int(b.state().strong)
}

// finalize runs the explicit finalizer when present, otherwise the
// payload's own Drop hook.
func finalize[T any](p *T, fin refs.Finalizer[T]) {
	switch {
	case p == nil:
	case fin != nil:
		fin(p)
	default:
		if d, ok := any(p).(refs.Dropper); ok {
			d.Drop()
		}
	}
}

// ptrBlock owns a payload that lives in its own allocation: two
// allocations total, payload plus block.
type ptrBlock[T any] struct {
	counters
	ptr *T
	fin refs.Finalizer[T]
}

func newPtrBlock[T any](p *T, fin refs.Finalizer[T], opts []Option) *ptrBlock[T] {
	b := &ptrBlock[T]{
		counters: newCounters(opts),
		ptr:      p,
		fin:      fin,
	}
	b.emit(EventCreated)
	return b
}

func (b *ptrBlock[T]) state() *counters { return &b.counters }

func (b *ptrBlock[T]) teardown() {
	finalize(b.ptr, b.fin)
	// The payload allocation is independent of the block; unpinning it
	// here is what lets it go while weak observers keep the block alive.
	b.ptr = nil
}

func (b *ptrBlock[T]) detach() {
	b.fin = nil
}

// objBlock embeds the payload in the same allocation as the counters: the
// single-allocation path behind New.
type objBlock[T any] struct {
	counters
	fin   refs.Finalizer[T]
	value T
}

func newObjBlock[T any](v T, fin refs.Finalizer[T], opts []Option) *objBlock[T] {
	b := &objBlock[T]{
		counters: newCounters(opts),
		fin:      fin,
		value:    v,
	}
	b.emit(EventCreated)
	return b
}

func (b *objBlock[T]) state() *counters { return &b.counters }

func (b *objBlock[T]) teardown() {
	finalize(&b.value, b.fin)
	// Destroy in place: the storage is part of the block, so the best we
	// can do for it is release everything the payload was holding.
	var zero T
	b.value = zero
}

func (b *objBlock[T]) detach() {
	b.fin = nil
}
