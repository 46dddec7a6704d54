package errors

import (
	"fmt"
	"strings"
)

// Op indicates which operation surface the error came from
type Op string

const (
	OpUpgrade  Op = "upgrade"  // weak-to-shared promotion
	OpSelf     Op = "self"     // self-reference capability
	OpScenario Op = "scenario" // scripted scenario execution
	OpRegistry Op = "registry" // live-block registry
)

// Kind categorizes the error
type Kind string

const (
	KindExpired      Kind = "expired"
	KindNotShared    Kind = "not_shared"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindParse        Kind = "parse"
	KindClosed       Kind = "closed"
	KindMismatch     Kind = "mismatch"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Op     Op
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Op == t.Op && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Expired creates an expired-payload error
func Expired(op Op) *Error {
	return &Error{
		Op:     op,
		Kind:   KindExpired,
		Detail: "payload already torn down",
	}
}

// NotFound creates a not-found error for a named entity
func NotFound(op Op, what, name string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// InvalidInput creates an invalid-input error
func InvalidInput(op Op, path []string, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// Parse creates a parse error wrapping the decoder's failure
func Parse(op Op, cause error) *Error {
	return &Error{
		Op:    op,
		Kind:  KindParse,
		Cause: cause,
	}
}

// Mismatch creates an expectation-mismatch error
func Mismatch(op Op, path []string, want, got any) *Error {
	return &Error{
		Op:     op,
		Kind:   KindMismatch,
		Path:   path,
		Detail: fmt.Sprintf("expected %v, got %v", want, got),
		Value:  got,
	}
}
