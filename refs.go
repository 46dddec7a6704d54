package refs

// Dropper is optionally implemented by payloads that need cleanup when
// their last owning handle goes away. When a payload implements Dropper
// and no explicit finalizer was supplied at construction time, Drop is
// invoked exactly once, at the moment the strong count reaches zero.
type Dropper interface {
	Drop()
}

// Finalizer destroys a payload of type T. Supplied at handle construction,
// it takes precedence over the payload's own Dropper implementation.
type Finalizer[T any] func(*T)
