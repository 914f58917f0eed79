package models

import (
	"fmt"
	"strings"
)

// ParseError reports a structural problem in the source file.
type ParseError struct {
	Row     int
	Column  string
	Message string
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("parse error at row %d, column %q: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error at row %d: %s", e.Row, e.Message)
}

// IsTransient returns false; the input has to be fixed.
func (e *ParseError) IsTransient() bool {
	return false
}

// DimensionNotFoundError is returned when a structure refers to a name that
// is missing from its lookup table.
type DimensionNotFoundError struct {
	Dimension       string
	Name            *string
	StructureNumber *string
}

func (e *DimensionNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found for structure %s",
		e.Dimension, KeyOf(e.Name).String(), KeyOf(e.StructureNumber).String())
}

// IsTransient returns false as referential failures are permanent
func (e *DimensionNotFoundError) IsTransient() bool {
	return false
}

// Violation is a single failed constraint.
type Violation struct {
	Table  string
	Index  int
	Key    string
	Field  string
	Value  interface{}
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%d] (%s) %s=%v: %s", v.Table, v.Index, v.Key, v.Field, v.Value, v.Reason)
}

// ConstraintError collects every violation found while validating a dataset.
type ConstraintError struct {
	Violations []Violation
}

// maxListedViolations bounds the message; the full list stays on the error.
const maxListedViolations = 5

func (e *ConstraintError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d constraint violation(s)", len(e.Violations))
	for i, v := range e.Violations {
		if i == maxListedViolations {
			fmt.Fprintf(&b, "; ... and %d more", len(e.Violations)-maxListedViolations)
			break
		}
		b.WriteString("; ")
		b.WriteString(v.String())
	}
	return b.String()
}

// IsTransient returns false as constraint failures are permanent
func (e *ConstraintError) IsTransient() bool {
	return false
}

// LoadError wraps a store failure with the table and chunk being written.
type LoadError struct {
	Table  string
	Offset int
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s at row %d: %v", e.Table, e.Offset, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsTransient returns false; the run is aborted and rolled back.
func (e *LoadError) IsTransient() bool {
	return false
}
