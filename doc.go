// Package refs provides manual, deterministic shared-ownership primitives
// for payloads whose cleanup must not wait for the garbage collector:
// pooled buffers, mmapped regions, C handles, descriptors.
//
// Go's GC reclaims memory but says nothing about *when* a resource's
// teardown runs. This library makes teardown an explicit, counted event:
// a payload is owned cooperatively by any number of strong handles and
// observed by any number of weak handles, and its teardown hook fires
// exactly once, synchronously, when the last strong handle lets go.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	refs/            Root package with the Dropper and Finalizer contracts
//	├── shared/      Shared[T]/Weak[T] handles and their control blocks
//	├── intrusive/   Embedded-count handle (no weak observation)
//	├── errors/      Structured error types for debugging
//	├── trace/       Lifecycle observers: zap logging, live-block registry,
//	│                bounded event journal
//	├── scenario/    YAML-scripted handle-operation scenarios
//	└── cmd/refrun/  CLI scenario runner with an interactive mode
//
// # Quick Start
//
// Share a payload and let the last owner tear it down:
//
//	type Conn struct{ fd int }
//
//	func (c *Conn) Drop() { closeFd(c.fd) }
//
//	a := shared.New(Conn{fd: fd})   // one allocation: counters + payload
//	b := a.Clone()                  // strong count 2
//	a.Release()                     // strong count 1, Conn still open
//	b.Release()                     // Drop runs here, exactly once
//
// Observe without owning:
//
//	w := b.Weak()
//	if s := w.Lock(); !s.IsNil() {
//	    use(s.Get())
//	    s.Release()
//	}
//
// # Ownership Rules
//
// Every handle holds exactly one unit on the counter it incremented and
// must give it back exactly once, via Release, Reset, or Assign. Handles
// empty themselves when released, so releasing an already-empty handle is
// a no-op; double-releasing a *claim* (two handles built from one counted
// unit) is a counting bug and panics on underflow.
//
// Counting is not synchronized. A control block and all handles bound to
// it belong to one goroutine, or the caller provides external
// synchronization. This is a contract, not a checked property.
package refs
