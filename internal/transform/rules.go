package transform

import (
	"fmt"
	"math"
	"strconv"

	"bridge-platform/internal/models"
)

// RatingNotApplicable marks a condition rating that does not apply.
const RatingNotApplicable = "N"

// CostUnit is the multiplier from the source "thousands of dollars" to dollars.
const CostUnit = 1000

// Stringify renders identifier-like values as text. Null stays null.
func Stringify(v interface{}) *string {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprint(val)
	}
	return &s
}

// coercer converts raw cells into typed column values. Values that do not
// fit are left null and recorded as issues instead of failing the record.
type coercer struct {
	issues []models.FieldIssue
}

func (c *coercer) reject(field string, v interface{}, reason string) {
	c.issues = append(c.issues, models.FieldIssue{Field: field, Value: v, Reason: reason})
}

func (c *coercer) integer(field string, v interface{}) *int64 {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
			c.reject(field, v, "not an integer")
			return nil
		}
		n := int64(val)
		return &n
	case int:
		n := int64(val)
		return &n
	case int64:
		return &val
	default:
		c.reject(field, v, "not an integer")
		return nil
	}
}

func (c *coercer) decimal(field string, v interface{}) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			c.reject(field, v, "not a number")
			return nil
		}
		return &val
	case int:
		f := float64(val)
		return &f
	case int64:
		f := float64(val)
		return &f
	default:
		c.reject(field, v, "not a number")
		return nil
	}
}

func (c *coercer) text(v interface{}) *string {
	return Stringify(v)
}

// rating maps the "N" sentinel to null and passes other values as integers.
func (c *coercer) rating(field string, v interface{}) *int64 {
	if s, ok := v.(string); ok && s == RatingNotApplicable {
		return nil
	}
	return c.integer(field, v)
}

// fraction turns a whole-number percentage into a fraction.
func (c *coercer) fraction(field string, v interface{}) *float64 {
	f := c.decimal(field, v)
	if f == nil {
		return nil
	}
	out := *f / 100
	return &out
}

// thousands scales a value given in thousands of dollars to whole dollars.
func (c *coercer) thousands(field string, v interface{}) *int64 {
	f := c.decimal(field, v)
	if f == nil {
		return nil
	}
	n := int64(math.Round(*f * CostUnit))
	return &n
}

// ConditionRating applies the sentinel rule to a single rating cell.
func ConditionRating(v interface{}) (*int64, error) {
	var c coercer
	out := c.rating("conditionRating", v)
	if len(c.issues) > 0 {
		return nil, fmt.Errorf("condition rating %v: %s", v, c.issues[0].Reason)
	}
	return out, nil
}

// Fraction converts a whole-number percentage cell to a fraction in [0,1].
func Fraction(v interface{}) (*float64, error) {
	var c coercer
	out := c.fraction("percent", v)
	if len(c.issues) > 0 {
		return nil, fmt.Errorf("percentage %v: %s", v, c.issues[0].Reason)
	}
	return out, nil
}

// yearOf is the numeric sort key of a record. Missing or non-numeric years
// sort as year 0.
func yearOf(rec models.RawRecord) float64 {
	if f, ok := rec.Value(models.ColYear).(float64); ok && !math.IsNaN(f) {
		return f
	}
	return 0
}
