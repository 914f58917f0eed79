package transform

import (
	"bridge-platform/internal/models"
)

// Column bounds enforced by the store.
const (
	MinRating = 0
	MaxRating = 9
	MinSkew   = 0
	MaxSkew   = 99
)

type validator struct {
	violations []models.Violation
}

func (v *validator) add(table string, index int, key *string, field string, value interface{}, reason string) {
	v.violations = append(v.violations, models.Violation{
		Table:  table,
		Index:  index,
		Key:    models.KeyOf(key).String(),
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

func (v *validator) issues(table string, index int, key *string, issues []models.FieldIssue) {
	for _, is := range issues {
		v.add(table, index, key, is.Field, is.Value, is.Reason)
	}
}

func (v *validator) intRange(table string, index int, key *string, field string, val *int64, lo, hi int64) {
	if val != nil && (*val < lo || *val > hi) {
		v.add(table, index, key, field, *val, "out of range")
	}
}

func (v *validator) fraction(table string, index int, key *string, field string, val *float64) {
	if val != nil && (*val < 0 || *val > 1) {
		v.add(table, index, key, field, *val, "out of range [0,1]")
	}
}

func (v *validator) reference(table string, index int, key *string, field string, code *string, dim *models.Dimension) {
	if code == nil || dim == nil {
		return
	}
	if !dim.Contains(*code) {
		v.add(table, index, key, field, *code, "no matching "+dim.Table()+" row")
	}
}

// Validate checks a dataset against the constraints of the target schema
// before anything is written. All violations are returned together as a
// *models.ConstraintError.
func Validate(ds *models.Dataset) error {
	var v validator

	for _, dim := range ds.Dimensions.All() {
		if dim == nil {
			continue
		}
		for i, e := range dim.Entries() {
			if e.Code == "" {
				v.add(dim.Table(), i, e.Name, "code", nil, "null code")
			}
		}
	}

	numbers := make(map[string]struct{}, len(ds.Structures))
	for i, s := range ds.Structures {
		t := models.TableStructure
		v.issues(t, i, s.Number, s.Issues)

		if s.Number == nil {
			v.add(t, i, nil, "number", nil, "null structure number")
		} else if _, dup := numbers[*s.Number]; dup {
			v.add(t, i, s.Number, "number", *s.Number, "duplicate structure number")
		} else {
			numbers[*s.Number] = struct{}{}
		}

		v.intRange(t, i, s.Number, "skew", s.Skew, MinSkew, MaxSkew)
		v.reference(t, i, s.Number, "stateCode", s.StateCode, ds.Dimensions.State)
		v.reference(t, i, s.Number, "countyCode", s.CountyCode, ds.Dimensions.County)
		v.reference(t, i, s.Number, "placeCode", s.PlaceCode, ds.Dimensions.Place)
		v.reference(t, i, s.Number, "designCode", &s.DesignCode, ds.Dimensions.Design)
		v.reference(t, i, s.Number, "materialCode", &s.MaterialCode, ds.Dimensions.Material)
		v.reference(t, i, s.Number, "ownerAgencyCode", &s.OwnerAgencyCode, ds.Dimensions.OwnerAgency)
	}

	for i, insp := range ds.Inspections {
		t := models.TableInspection
		v.issues(t, i, insp.StructureNumber, insp.Issues)

		if insp.StructureNumber == nil {
			v.add(t, i, nil, "structureNumber", nil, "null structure number")
		} else if _, ok := numbers[*insp.StructureNumber]; !ok {
			v.add(t, i, insp.StructureNumber, "structureNumber", *insp.StructureNumber, "no matching Structure row")
		}

		v.intRange(t, i, insp.StructureNumber, "conditionRatingDeck", insp.ConditionRatingDeck, MinRating, MaxRating)
		v.intRange(t, i, insp.StructureNumber, "conditionRatingSubstructure", insp.ConditionRatingSubstructure, MinRating, MaxRating)
		v.intRange(t, i, insp.StructureNumber, "conditionRatingSuperstructure", insp.ConditionRatingSuperstructure, MinRating, MaxRating)
		v.fraction(t, i, insp.StructureNumber, "dailyTrafficTruckAvgPct", insp.DailyTrafficTruckAvgPct)
		v.fraction(t, i, insp.StructureNumber, "relativeHumidityAvg", insp.RelativeHumidityAvg)

		if insp.Condition != nil && !validCondition(*insp.Condition) {
			v.add(t, i, insp.StructureNumber, "condition", *insp.Condition, "unknown bridge condition")
		}
	}

	if len(v.violations) > 0 {
		return &models.ConstraintError{Violations: v.violations}
	}
	return nil
}

func validCondition(c string) bool {
	for _, allowed := range models.BridgeConditions {
		if c == allowed {
			return true
		}
	}
	return false
}
