// Package trace provides lifecycle diagnostics for the shared package.
//
// Control blocks built with shared.WithObserver report their
// created/teardown/freed transitions; this package supplies the observers
// worth attaching:
//
//   - LogObserver writes every transition to a zap logger.
//   - Registry tracks blocks from creation to retirement; whatever it
//     still holds when a scope ends has leaked, and Report says so.
//   - Journal retains the last N events for post-mortem inspection.
//
// Combine them with Tee:
//
//	reg := trace.NewRegistry()
//	jrn := trace.NewJournal(128)
//	obs := trace.Tee(reg, jrn, trace.NewLogObserver(nil))
//
//	s := shared.New(v, shared.WithObserver(obs), shared.WithLabel("conn"))
//	defer func() { fmt.Println(reg.Report()) }()
//
// The observers are safe for concurrent use; the counting core they watch
// is not, per its own contract.
package trace
