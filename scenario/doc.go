// Package scenario executes scripted sequences of handle operations.
//
// A scenario is a YAML document naming handles and the operations that
// connect them, with inline expectations about counts, values, expiry and
// teardowns:
//
//	name: expiry
//	steps:
//	  - {op: new, handle: a, value: 5}
//	  - {op: weak, handle: w, from: a}
//	  - {op: release, handle: a}
//	  - {op: expect, handle: w, expired: true}
//	  - {op: lock, handle: b, from: w}
//	  - {op: expect, handle: b, empty: true}
//	  - {op: expect, drops: 1}
//	  - {op: release, handle: w}
//
// The Runner keeps every block it builds under a trace.Registry and
// trace.Journal, so a finished run can report leaks and replay recent
// lifecycle events. The refrun command runs scenario files in batch or
// interactively; ParseCommand gives its REPL the same grammar in
// positional form ("new a 5", "expect w expired true").
package scenario
