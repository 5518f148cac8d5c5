package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCustomErrorUnwrap(t *testing.T) {
	err := NewCustomError(ErrCourseNotFound, "course cs101 not found")
	wrapped := fmt.Errorf("login: %w", err)

	if !errors.Is(wrapped, ErrCourseNotFound) {
		t.Fatalf("expected wrapped error to match ErrCourseNotFound")
	}
	if err.Error() != "course cs101 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestHelpersWrapSentinels(t *testing.T) {
	tests := map[string]struct {
		err      error
		sentinel error
		message  string
	}{
		"forbidden":   {NewForbiddenError("lecturers only"), ErrPermissionDenied, "lecturers only"},
		"bad request": {NewBadRequestError("too many files"), ErrBadRequest, "too many files"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Fatalf("expected %v to match %v", tc.err, tc.sentinel)
			}
			if tc.err.Error() != tc.message {
				t.Fatalf("got message %q, want %q", tc.err.Error(), tc.message)
			}
		})
	}
}

func TestCustomErrorFallbackMessage(t *testing.T) {
	if got := (&CustomError{Err: ErrConflict}).Error(); got != "conflict" {
		t.Fatalf("got %q", got)
	}
	if got := (&CustomError{}).Error(); got != "unknown error" {
		t.Fatalf("got %q", got)
	}
}
