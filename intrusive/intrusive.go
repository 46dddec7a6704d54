package intrusive

import (
	"github.com/Quizert/refs"
)

// Counter is the embeddable reference count. Embed it by value in a
// payload to satisfy Referent:
//
//	type Node struct {
//		intrusive.Counter
//		// ...
//	}
//
// DecRef clamps at zero rather than panicking; that is this collaborator's
// published contract (the shared package hardens the same precondition
// instead).
type Counter struct {
	n int
}

// IncRef increases the reference count and returns the new value.
func (c *Counter) IncRef() int {
	c.n++
	return c.n
}

// DecRef decreases the reference count and returns the new value.
func (c *Counter) DecRef() int {
	if c.n > 0 {
		c.n--
	}
	return c.n
}

// RefCount returns the current count.
func (c *Counter) RefCount() int {
	return c.n
}

// Referent is the counting capability a payload exposes to Ptr. There is
// no control block and no weak observation: the count lives in the payload
// itself.
type Referent interface {
	IncRef() int
	DecRef() int
	RefCount() int
}

// Target constrains Ptr payloads: a Referent whose zero value marks the
// empty handle, typically a pointer type such as *Node.
type Target interface {
	comparable
	Referent
}

// Ptr is an owning handle on an intrusively counted payload. The zero
// value is an empty handle. When the count the handle gives back is the
// last one, the payload's Drop hook, if implemented, runs exactly once.
type Ptr[T Target] struct {
	obj T
}

// Wrap takes a counted reference on obj and returns the handle holding
// it. A zero obj yields an empty handle.
func Wrap[T Target](obj T) Ptr[T] {
	var zero T
	if obj != zero {
		obj.IncRef()
	}
	return Ptr[T]{obj: obj}
}

// Clone returns a second owning handle on the same payload.
func (p Ptr[T]) Clone() Ptr[T] {
	return Wrap(p.obj)
}

// Assign replaces p's hold with a clone of o's. Self-assignment is a
// no-op.
func (p *Ptr[T]) Assign(o Ptr[T]) {
	o = o.Clone()
	p.Release()
	*p = o
}

// Move transfers p's hold to the returned handle without touching the
// count. p becomes empty.
func (p *Ptr[T]) Move() Ptr[T] {
	out := *p
	var zero T
	p.obj = zero
	return out
}

// Release gives back p's reference and empties the handle. Releasing an
// empty handle is a no-op.
func (p *Ptr[T]) Release() {
	var zero T
	if p.obj == zero {
		return
	}
	if p.obj.DecRef() == 0 {
		if d, ok := any(p.obj).(refs.Dropper); ok {
			d.Drop()
		}
	}
	p.obj = zero
}

// Reset releases the current hold and adopts obj. Resetting to the held
// payload is a no-op.
func (p *Ptr[T]) Reset(obj T) {
	if p.obj == obj {
		return
	}
	p.Release()
	*p = Wrap(obj)
}

// Swap exchanges the holds of two handles without counter traffic.
func (p *Ptr[T]) Swap(o *Ptr[T]) {
	*p, *o = *o, *p
}

// Get returns the payload, the zero T for an empty handle.
func (p Ptr[T]) Get() T { return p.obj }

// IsNil reports whether the handle is empty.
func (p Ptr[T]) IsNil() bool {
	var zero T
	return p.obj == zero
}

// RefCount returns the payload's current count, 0 for an empty handle.
func (p Ptr[T]) RefCount() int {
	var zero T
	if p.obj == zero {
		return 0
	}
	return p.obj.RefCount()
}

// Equal reports whether two handles hold the same payload.
func (p Ptr[T]) Equal(o Ptr[T]) bool { return p.obj == o.obj }
