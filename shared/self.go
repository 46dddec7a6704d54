package shared

import (
	rerr "github.com/Quizert/refs/errors"
)

// ErrNotShared reports a self-reference request on a payload that was
// never placed under a shared handle.
var ErrNotShared = rerr.New(rerr.OpSelf, rerr.KindNotShared).
	Detail("payload is not owned by any shared handle").
	Build()

// Self lets a payload hand out handles to itself. Embed it by value:
//
//	type Session struct {
//		shared.Self[Session]
//		// ...
//	}
//
//	s := shared.New(Session{...})
//	w := s.Get().WeakFromThis()
//
// The back-reference is recorded at most once, when the payload first
// comes under a shared handle; later blocks over the same payload (a
// counting bug in itself) do not rebind it. The stored reference holds no
// counter units — counted references are taken at call time, so Self has
// no effect on when the payload or its block go away.
type Self[T any] struct {
	self *T
	ctl  block
}

// selfBinder is satisfied by *P for any payload P embedding Self[P].
type selfBinder[T any] interface {
	bindSelf(p *T, b block)
}

func bindSelf[T any](s Shared[T]) {
	if b, ok := any(s.ptr).(selfBinder[T]); ok {
		b.bindSelf(s.ptr, s.ctl)
	}
}

func (s *Self[T]) bindSelf(p *T, b block) {
	if s.ctl != nil {
		return
	}
	s.self, s.ctl = p, b
}

// SharedFromThis returns an owning handle on the payload. It fails with
// ErrNotShared for a payload never owned by a handle, and with ErrExpired
// once the strong count has reached zero.
func (s *Self[T]) SharedFromThis() (Shared[T], error) {
	if s.ctl == nil {
		return Shared[T]{}, ErrNotShared
	}
	if s.ctl.state().strong == 0 {
		return Shared[T]{}, ErrExpired
	}
	retain(s.ctl)
	return Shared[T]{ptr: s.self, ctl: s.ctl}, nil
}

// WeakFromThis returns an observing handle on the payload, or an empty
// handle for a payload never owned by a shared handle.
func (s *Self[T]) WeakFromThis() Weak[T] {
	if s.ctl == nil {
		return Weak[T]{}
	}
	retainWeak(s.ctl)
	return Weak[T]{ptr: s.self, ctl: s.ctl}
}
