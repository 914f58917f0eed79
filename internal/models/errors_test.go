package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type transient interface {
	IsTransient() bool
}

// TestErrorsArePermanent tests that no error in the taxonomy asks for a retry
func TestErrorsArePermanent(t *testing.T) {
	design := "Slab"
	number := "12345"

	errs := []error{
		&ParseError{Row: 3, Message: "wrong number of fields"},
		&DimensionNotFoundError{Dimension: TableDesign, Name: &design, StructureNumber: &number},
		&ConstraintError{Violations: []Violation{{Table: TableInspection, Field: "year"}}},
		&LoadError{Table: TableStructure, Err: errors.New("boom")},
	}

	for _, err := range errs {
		tr, ok := err.(transient)
		if !ok {
			t.Errorf("%T does not implement IsTransient", err)
			continue
		}
		if tr.IsTransient() {
			t.Errorf("%T should not be transient", err)
		}
	}
}

func TestDimensionNotFoundError_Message(t *testing.T) {
	design := "Slab"
	number := "12345"
	err := &DimensionNotFoundError{Dimension: TableDesign, Name: &design, StructureNumber: &number}

	want := `Design "Slab" not found for structure 12345`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Row: 1, Column: ColYear, Message: "missing required column"}
	if !strings.Contains(err.Error(), `column "Year"`) {
		t.Errorf("Error() = %q, want column name", err.Error())
	}
}

func TestConstraintError_TruncatesList(t *testing.T) {
	err := &ConstraintError{}
	for i := 0; i < 8; i++ {
		err.Violations = append(err.Violations, Violation{Table: TableInspection, Index: i, Field: "conditionRatingDeck", Value: 12})
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "8 constraint violation(s)") {
		t.Errorf("Error() = %q", msg)
	}
	if !strings.Contains(msg, "and 3 more") {
		t.Errorf("Error() = %q, want truncation note", msg)
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := errors.New("constraint failed")
	err := fmt.Errorf("run: %w", &LoadError{Table: TableInspection, Offset: 500, Err: cause})

	if !errors.Is(err, cause) {
		t.Error("LoadError should unwrap to its cause")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Offset != 500 {
		t.Errorf("errors.As() = %v", loadErr)
	}
}
