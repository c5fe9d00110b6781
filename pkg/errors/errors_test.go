package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "Without cause",
			err:  New(ErrCodeNotFound, "user not found"),
			want: "NOT_FOUND: user not found",
		},
		{
			name: "With cause",
			err:  Wrap(fmt.Errorf("connection refused"), ErrCodeInternalError, "failed to get user"),
			want: "INTERNAL_ERROR: failed to get user (connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "Nil error", err: nil, want: ""},
		{name: "App error", err: New(ErrCodeForbidden, "nope"), want: ErrCodeForbidden},
		{name: "Wrapped app error", err: fmt.Errorf("outer: %w", New(ErrCodeValidation, "bad")), want: ErrCodeValidation},
		{name: "Plain error", err: stderrors.New("boom"), want: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := Newf(ErrCodeNotFound, "conversation %d not found", 7)
	if !Is(err, ErrCodeNotFound) {
		t.Errorf("Is(%v, NOT_FOUND) = false, want true", err)
	}
	if Is(err, ErrCodeForbidden) {
		t.Errorf("Is(%v, FORBIDDEN) = true, want false", err)
	}
	if Is(nil, ErrCodeNotFound) {
		t.Error("Is(nil, NOT_FOUND) = true, want false")
	}
	if err.Message != "conversation 7 not found" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}
