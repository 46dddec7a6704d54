// Package shared implements reference-counted shared ownership with weak
// observation.
//
// # Control Blocks
//
// Every owned payload is paired with one control block carrying two
// counters. The strong count is the number of owning handles; when it
// reaches zero the payload is torn down, exactly once. The weak count is
// the number of observing handles; it keeps the block's bookkeeping
// reachable without keeping the payload alive. The block itself is retired
// once, when whichever counter reaches zero last.
//
// Two block variants exist, chosen at construction time:
//
//	From(p, fin)  payload in its own allocation (two allocations)
//	New(v)        payload embedded next to the counters (one allocation)
//
// # Handles
//
//	a := shared.New(buf)      // strong=1
//	b := a.Clone()            // strong=2
//	w := b.Weak()             // weak=1
//	a.Release()               // strong=1
//	b.Release()               // strong=0: teardown fires, block lingers
//	w.Expired()               // true
//	w.Lock().IsNil()          // true: no resurrection
//	w.Release()               // weak=0: block retired
//
// Counting is unsynchronized: a block and all handles bound to it belong
// to one goroutine unless the caller provides synchronization.
//
// # Lifecycle Events
//
// Blocks built with WithObserver report Created/Teardown/Freed
// transitions; the trace package provides zap logging, a live-block
// registry and a bounded journal on top of them.
package shared
