package shared

import (
	"github.com/Quizert/refs"
	rerr "github.com/Quizert/refs/errors"
)

// ErrExpired reports a promotion attempted after the payload was torn
// down. Returned by FromWeak, Weak.Upgrade and Self.SharedFromThis;
// Lock reports the same condition with an empty handle instead.
var ErrExpired = rerr.Expired(rerr.OpUpgrade)

// Shared is an owning handle on a payload of type T. The zero value is an
// empty handle. Handles are passed by value; each live handle accounts for
// exactly one strong unit on its control block, given back by Release,
// Reset or Assign.
//
// The payload pointer and the control block are deliberately independent:
// an aliasing handle (see Alias) exposes a pointer the block does not own.
// For the same reason equality is defined by Equal, over payload pointers
// only — never compare handles with ==.
type Shared[T any] struct {
	ptr *T
	ctl block
}

// From adopts a payload that lives in its own allocation and returns the
// first owning handle (strong count 1). fin may be nil, in which case the
// payload's Dropper implementation, if any, is used at teardown. A nil
// payload yields an empty handle.
func From[T any](p *T, fin refs.Finalizer[T], opts ...Option) Shared[T] {
	if p == nil {
		return Shared[T]{}
	}
	s := Shared[T]{ptr: p, ctl: newPtrBlock(p, fin, opts)}
	bindSelf(s)
	return s
}

// New places v in a fresh control block and returns the first owning
// handle. Counters and payload share one allocation, against two on the
// From path.
func New[T any](v T, opts ...Option) Shared[T] {
	return NewDrop(v, nil, opts...)
}

// NewDrop is New with an explicit finalizer.
func NewDrop[T any](v T, fin refs.Finalizer[T], opts ...Option) Shared[T] {
	b := newObjBlock(v, fin, opts)
	s := Shared[T]{ptr: &b.value, ctl: b}
	bindSelf(s)
	return s
}

// Alias returns a handle that shares owner's block while exposing p,
// typically a field of the payload owner keeps alive. Releasing the result
// releases owner's block; p itself is never torn down through it.
func Alias[T, U any](owner Shared[T], p *U) Shared[U] {
	if owner.ctl != nil {
		retain(owner.ctl)
	}
	return Shared[U]{ptr: p, ctl: owner.ctl}
}

// FromWeak promotes a weak handle into an owning one. It fails with
// ErrExpired once the strong count has reached zero: a torn-down payload
// must not be resurrected. See Weak.Lock for the empty-on-failure form.
func FromWeak[T any](w Weak[T]) (Shared[T], error) {
	if w.ctl == nil || w.ctl.state().strong == 0 {
		return Shared[T]{}, ErrExpired
	}
	retain(w.ctl)
	return Shared[T]{ptr: w.ptr, ctl: w.ctl}, nil
}

// Clone returns a second owning handle on the same payload.
func (s Shared[T]) Clone() Shared[T] {
	if s.ctl != nil {
		retain(s.ctl)
	}
	return s
}

// Assign replaces s's hold with a clone of o's. Assigning a handle to
// itself is a no-op; the new hold is taken before the old one is given
// back, so the payload survives the exchange.
func (s *Shared[T]) Assign(o Shared[T]) {
	o = o.Clone()
	s.Release()
	*s = o
}

// Move transfers s's hold to the returned handle without touching the
// counters. s becomes empty.
func (s *Shared[T]) Move() Shared[T] {
	out := *s
	s.ptr, s.ctl = nil, nil
	return out
}

// Release gives back s's strong unit and empties the handle. Releasing an
// empty handle is a no-op. This may tear down the payload and retire the
// block, per the counting protocol.
func (s *Shared[T]) Release() {
	if s.ctl != nil {
		release(s.ctl)
	}
	s.ptr, s.ctl = nil, nil
}

// Reset releases the current hold and, when p is non-nil, adopts p in a
// fresh block as From would. Resetting to the pointer already held is a
// no-op.
func (s *Shared[T]) Reset(p *T, fin refs.Finalizer[T], opts ...Option) {
	if p != nil && p == s.ptr {
		return
	}
	s.Release()
	*s = From(p, fin, opts...)
}

// Swap exchanges the holds of two handles without counter traffic.
func (s *Shared[T]) Swap(o *Shared[T]) {
	*s, *o = *o, *s
}

// Get returns the payload pointer, nil for an empty handle.
func (s Shared[T]) Get() *T { return s.ptr }

// IsNil reports whether the handle exposes no payload.
func (s Shared[T]) IsNil() bool { return s.ptr == nil }

// RefCount returns the current strong count, 0 for an empty handle.
func (s Shared[T]) RefCount() int { return strongCount(s.ctl) }

// Equal reports whether two handles expose the same payload pointer.
// Block identity does not participate: an aliasing handle and a direct
// handle to the same object are equal.
func (s Shared[T]) Equal(o Shared[T]) bool { return s.ptr == o.ptr }

// Weak demotes s to an observing handle. s keeps its own hold.
func (s Shared[T]) Weak() Weak[T] {
	if s.ctl != nil {
		retainWeak(s.ctl)
	}
	return Weak[T]{ptr: s.ptr, ctl: s.ctl}
}
