package transform

import (
	"strconv"

	"bridge-platform/internal/models"
)

// DimensionSpec selects the columns a lookup table is built from. An empty
// CodeColumn means the source has no natural key and codes are assigned in
// order of first appearance.
type DimensionSpec struct {
	Table      string
	CodeColumn string
	NameColumn string
}

// Synthetic reports whether codes are generated rather than read.
func (s DimensionSpec) Synthetic() bool {
	return s.CodeColumn == ""
}

var (
	StateSpec       = DimensionSpec{Table: models.TableState, CodeColumn: models.ColStateCode, NameColumn: models.ColStateName}
	CountySpec      = DimensionSpec{Table: models.TableCounty, CodeColumn: models.ColCountyCode, NameColumn: models.ColCountyName}
	PlaceSpec       = DimensionSpec{Table: models.TablePlace, CodeColumn: models.ColPlaceCode, NameColumn: models.ColPlaceName}
	DesignSpec      = DimensionSpec{Table: models.TableDesign, NameColumn: models.ColDesign}
	MaterialSpec    = DimensionSpec{Table: models.TableMaterial, NameColumn: models.ColMaterial}
	OwnerAgencySpec = DimensionSpec{Table: models.TableOwnerAgency, NameColumn: models.ColOwnerAgency}
)

// ExtractDimension scans records in input order and returns the unique
// {code, name} pairs.
//
// With a code column, records are grouped by stringified code and the first
// record's name wins; later records with the same code and another name are
// ignored. Without one, records are grouped by name (null included) and each
// new name gets the number of names accepted before it as its code.
func ExtractDimension(records []models.RawRecord, spec DimensionSpec) *models.Dimension {
	entries := make([]models.DimensionEntry, 0)
	seen := make(map[models.Key]struct{})

	for _, rec := range records {
		name := Stringify(rec.Value(spec.NameColumn))

		var key models.Key
		var code string
		if spec.Synthetic() {
			key = models.KeyOf(name)
			code = strconv.Itoa(len(entries))
		} else {
			c := Stringify(rec.Value(spec.CodeColumn))
			key = models.KeyOf(c)
			if c != nil {
				code = *c
			}
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, models.DimensionEntry{Code: code, Name: name})
	}

	return models.NewDimension(spec.Table, entries)
}

// ExtractDimensions builds all six lookup tables from one record set.
func ExtractDimensions(records []models.RawRecord) models.Dimensions {
	return models.Dimensions{
		State:       ExtractDimension(records, StateSpec),
		County:      ExtractDimension(records, CountySpec),
		Place:       ExtractDimension(records, PlaceSpec),
		Design:      ExtractDimension(records, DesignSpec),
		Material:    ExtractDimension(records, MaterialSpec),
		OwnerAgency: ExtractDimension(records, OwnerAgencySpec),
	}
}
