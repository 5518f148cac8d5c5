package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestHandleValidationErrorListsFields(t *testing.T) {
	v := validator.New()
	err := v.Struct(struct {
		Role string `validate:"required,oneof=student lecturer admin"`
		Tab  string `validate:"oneof=chat library settings"`
	}{Tab: "calendar"})

	detail := HandleValidationError(err)
	if detail.Code != ErrorCodeValidationFailed {
		t.Fatalf("code = %s", detail.Code)
	}
	fields, ok := detail.Details.(map[string]string)
	if !ok {
		t.Fatalf("details = %#v", detail.Details)
	}
	if fields["role"] != "role is required" || fields["tab"] != "tab must be one of: chat library settings" {
		t.Fatalf("fields = %v", fields)
	}
	if detail.Field != "" {
		t.Fatalf("field must only be set for a single failure, got %q", detail.Field)
	}
}

func TestHandleValidationErrorPlainError(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	if detail.Message != "Invalid request format" || detail.Details != "unexpected EOF" {
		t.Fatalf("detail = %+v", detail)
	}
}
