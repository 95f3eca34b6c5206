package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		kind    Kind
		message string
	}{
		{"NotFound", NotFound("leader not found"), ErrNotFound, "leader not found"},
		{"NotFoundf", NotFoundf("leader %s not found", "tl-001"), ErrNotFound, "leader tl-001 not found"},
		{"Validation", Validation("email is required"), ErrValidation, "email is required"},
		{"Validationf", Validationf("unknown field %q", "age"), ErrValidation, `unknown field "age"`},
		{"Conflict", Conflict("already running"), ErrConflict, "already running"},
		{"Conflictf", Conflictf("report for %s already running", "tl-002"), ErrConflict, "report for tl-002 already running"},
		{"InvalidInput", InvalidInput("not a number"), ErrInvalidInput, "not a number"},
		{"InvalidInputf", InvalidInputf("invalid value %q", "abc"), ErrInvalidInput, `invalid value "abc"`},
		{"ConfirmationRequired", ConfirmationRequired("confirm removal"), ErrConfirmationRequired, "confirm removal"},
		{"Internalf", Internalf("broken %d", 7), ErrInternal, "broken 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected no underlying error, got %v", tt.err.Err)
			}
		})
	}
}

func TestError_ErrorString(t *testing.T) {
	plain := Validation("bad shift")
	if plain.Error() != "bad shift" {
		t.Errorf("expected %q, got %q", "bad shift", plain.Error())
	}

	wrapped := Unavailable("coaching service unavailable", fmt.Errorf("dial tcp: timeout"))
	want := "coaching service unavailable: dial tcp: timeout"
	if wrapped.Error() != want {
		t.Errorf("expected %q, got %q", want, wrapped.Error())
	}
}

func TestInternal_WrapsUnderlying(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)

	if err.Kind != ErrInternal {
		t.Errorf("expected ErrInternal, got %v", err.Kind)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the underlying cause")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no rows")
	err := Wrap(cause, ErrNotFound, "leader lookup failed")

	if err.Kind != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err.Kind)
	}
	if errors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestErrorsAs_ThroughFmtWrap(t *testing.T) {
	inner := NotFound("kpi not found")
	outer := fmt.Errorf("update actual: %w", inner)

	var appErr *Error
	if !errors.As(outer, &appErr) {
		t.Fatal("expected errors.As to find *Error")
	}
	if appErr.Kind != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", appErr.Kind)
	}
}

func TestErrorsIs_MatchesKind(t *testing.T) {
	err := fmt.Errorf("delete: %w", ConfirmationRequired("confirm removal"))

	if !errors.Is(err, &Error{Kind: ErrConfirmationRequired}) {
		t.Error("expected kind-only sentinel to match")
	}
	if errors.Is(err, &Error{Kind: ErrNotFound}) {
		t.Error("expected different kind not to match")
	}
	if errors.Is(err, &Error{Kind: ErrConfirmationRequired, Message: "other"}) {
		t.Error("expected different message not to match")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ErrInternal},
		{"plain", errors.New("boom"), ErrInternal},
		{"direct", Conflict("busy"), ErrConflict},
		{"wrapped", fmt.Errorf("ctx: %w", Unavailable("down", nil)), ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if ErrUnavailable.String() != "unavailable" {
		t.Errorf("unexpected name %q", ErrUnavailable.String())
	}
	if Kind(99).String() != "internal" {
		t.Errorf("unknown kinds should report internal, got %q", Kind(99).String())
	}
}
