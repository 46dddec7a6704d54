package shared

// Weak is a non-owning handle on a payload of type T. It keeps the control
// block reachable (the weak count) without keeping the payload alive (the
// strong count). The zero value is an empty handle.
type Weak[T any] struct {
	ptr *T
	ctl block
}

// Clone returns a second observing handle on the same block.
func (w Weak[T]) Clone() Weak[T] {
	if w.ctl != nil {
		retainWeak(w.ctl)
	}
	return w
}

// Assign replaces w's hold with a clone of o's. Self-assignment is a
// no-op.
func (w *Weak[T]) Assign(o Weak[T]) {
	o = o.Clone()
	w.Release()
	*w = o
}

// Move transfers w's hold to the returned handle without counter traffic.
// w becomes empty.
func (w *Weak[T]) Move() Weak[T] {
	out := *w
	w.ptr, w.ctl = nil, nil
	return out
}

// Release gives back w's weak unit and empties the handle. Releasing an
// empty handle is a no-op.
func (w *Weak[T]) Release() {
	if w.ctl != nil {
		releaseWeak(w.ctl)
	}
	w.ptr, w.ctl = nil, nil
}

// Reset is Release under the name the owning handle uses.
func (w *Weak[T]) Reset() { w.Release() }

// Swap exchanges the holds of two handles without counter traffic.
func (w *Weak[T]) Swap(o *Weak[T]) {
	*w, *o = *o, *w
}

// RefCount returns the observed strong count, 0 for an empty handle.
func (w Weak[T]) RefCount() int { return strongCount(w.ctl) }

// Expired reports whether the payload has been torn down. An empty handle
// is expired.
func (w Weak[T]) Expired() bool { return strongCount(w.ctl) == 0 }

// Lock promotes w to an owning handle, or returns an empty handle when
// the payload is already gone. The non-failing observer form of Upgrade.
func (w Weak[T]) Lock() Shared[T] {
	s, err := FromWeak(w)
	if err != nil {
		return Shared[T]{}
	}
	return s
}

// Upgrade promotes w to an owning handle, failing with ErrExpired when
// the payload is already gone.
func (w Weak[T]) Upgrade() (Shared[T], error) {
	return FromWeak(w)
}
