package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassification(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "courses_pkey"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "vault_files_course_id_fkey"}
	check := &pgconn.PgError{Code: "23514", ConstraintName: "vault_files_type_check"}

	tests := map[string]struct {
		err       error
		duplicate bool
		foreign   bool
		check     bool
	}{
		"duplicate":         {dup, true, false, false},
		"wrapped duplicate": {fmt.Errorf("insert: %w", dup), true, false, false},
		"foreign key":       {fk, false, true, false},
		"check":             {check, false, false, true},
		"plain error":       {errors.New("boom"), false, false, false},
		"nil":               {nil, false, false, false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := IsDuplicateConstraintError(tc.err, "courses_pkey"); got != tc.duplicate {
				t.Fatalf("IsDuplicateConstraintError = %v, want %v", got, tc.duplicate)
			}
			if got := IsForeignKeyViolation(tc.err); got != tc.foreign {
				t.Fatalf("IsForeignKeyViolation = %v, want %v", got, tc.foreign)
			}
			if got := IsCheckViolation(tc.err); got != tc.check {
				t.Fatalf("IsCheckViolation = %v, want %v", got, tc.check)
			}
		})
	}

	if IsDuplicateConstraintError(dup, "vault_files_pkey") {
		t.Fatal("duplicate on another constraint must not match")
	}
}
