// Package errors provides structured error types for the refs library.
//
// Errors are categorized by Op (which operation surface failed) and Kind
// (error category). The Error type includes context: an entity path, the
// offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpScenario, errors.KindInvalidInput).
//		Path("steps[3]", "handle").
//		Detail("handle name must not be empty").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Expired(errors.OpUpgrade)
//	err := errors.NotFound(errors.OpScenario, "handle", "a")
//
// All errors implement the standard error interface and support
// errors.Is/As; Is matches on the (Op, Kind) pair, so sentinel values
// built once can classify any error from the same surface.
package errors
