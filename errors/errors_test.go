package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Op:     OpScenario,
				Kind:   KindInvalidInput,
				Path:   []string{"steps[2]", "handle"},
				Detail: "handle name must not be empty",
			},
			contains: []string{"[scenario]", "invalid_input", "steps[2].handle", "handle name must not be empty"},
		},
		{
			name: "minimal error",
			err: &Error{
				Op:   OpUpgrade,
				Kind: KindExpired,
			},
			contains: []string{"[upgrade]", "expired"},
		},
		{
			name: "error with cause",
			err: &Error{
				Op:     OpScenario,
				Kind:   KindParse,
				Detail: "bad scenario file",
				Cause:  errors.New("yaml: line 3"),
			},
			contains: []string{"[scenario]", "parse", "bad scenario file", "caused by", "yaml: line 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Op:    OpScenario,
		Kind:  KindParse,
		Cause: cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	sentinel := Expired(OpUpgrade)

	same := New(OpUpgrade, KindExpired).Detail("different detail").Build()
	if !errors.Is(same, sentinel) {
		t.Error("errors with matching Op and Kind should match")
	}

	otherKind := New(OpUpgrade, KindNotShared).Build()
	if errors.Is(otherKind, sentinel) {
		t.Error("errors with different Kind should not match")
	}

	otherOp := New(OpSelf, KindExpired).Build()
	if errors.Is(otherOp, sentinel) {
		t.Error("errors with different Op should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(OpRegistry, KindClosed).
		Path("registry").
		Value(42).
		Cause(cause).
		Detail("closed with %d live blocks", 42).
		Build()

	if err.Op != OpRegistry || err.Kind != KindClosed {
		t.Fatalf("wrong op/kind: %s/%s", err.Op, err.Kind)
	}
	if err.Value != 42 {
		t.Errorf("wrong value: %v", err.Value)
	}
	if err.Cause != cause {
		t.Error("wrong cause")
	}
	if err.Detail != "closed with 42 live blocks" {
		t.Errorf("wrong detail: %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got := NotFound(OpScenario, "handle", "a").Error(); !strings.Contains(got, `handle "a" not found`) {
		t.Errorf("NotFound message: %q", got)
	}
	if got := Mismatch(OpScenario, []string{"strong"}, 2, 1).Error(); !strings.Contains(got, "expected 2, got 1") {
		t.Errorf("Mismatch message: %q", got)
	}
	if got := InvalidInput(OpScenario, nil, "no steps").Error(); !strings.Contains(got, "no steps") {
		t.Errorf("InvalidInput message: %q", got)
	}
	if err := Parse(OpScenario, errors.New("eof")); err.Unwrap() == nil {
		t.Error("Parse should carry its cause")
	}
}
