package transform

import (
	"sort"

	"bridge-platform/internal/models"
)

// SelectSnapshots reduces the multi-year record set to one Structure per
// structure number, taken from its most recent year.
//
// Records are ordered by descending year. Records sharing a year keep their
// input order, so for a same-year tie the earlier input row wins.
// Design, material and owner agency names are resolved to codes through dims;
// a name missing from its table aborts with *models.DimensionNotFoundError.
func SelectSnapshots(records []models.RawRecord, dims models.Dimensions) ([]*models.Structure, error) {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yearOf(records[order[a]]) > yearOf(records[order[b]])
	})

	seen := make(map[models.Key]struct{})
	structures := make([]*models.Structure, 0)

	for _, idx := range order {
		rec := records[idx]
		number := Stringify(rec.Value(models.ColStructureNumber))
		key := models.KeyOf(number)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		structure, err := buildStructure(rec, number, dims)
		if err != nil {
			return nil, err
		}
		structures = append(structures, structure)
	}

	return structures, nil
}

func buildStructure(rec models.RawRecord, number *string, dims models.Dimensions) (*models.Structure, error) {
	designCode, err := resolve(dims.Design, models.TableDesign, rec.Value(models.ColDesign), number)
	if err != nil {
		return nil, err
	}
	materialCode, err := resolve(dims.Material, models.TableMaterial, rec.Value(models.ColMaterial), number)
	if err != nil {
		return nil, err
	}
	ownerCode, err := resolve(dims.OwnerAgency, models.TableOwnerAgency, rec.Value(models.ColOwnerAgency), number)
	if err != nil {
		return nil, err
	}

	var c coercer
	s := &models.Structure{
		Number:              number,
		Built:               c.integer("built", rec.Value(models.ColBuilt)),
		CountyCode:          c.text(rec.Value(models.ColCountyCode)),
		DeckArea:            c.decimal("deckArea", rec.Value(models.ColDeckArea)),
		DesignCode:          designCode,
		InspectionFrequency: c.integer("inspectionFrequency", rec.Value(models.ColInspectionFrequency)),
		Latitude:            c.decimal("latitude", rec.Value(models.ColLatitude)),
		Length:              c.decimal("length", rec.Value(models.ColLength)),
		Longitude:           c.decimal("longitude", rec.Value(models.ColLongitude)),
		MaterialCode:        materialCode,
		Span:                c.decimal("span", rec.Value(models.ColMaxSpan)),
		InventoryRating:     c.decimal("inventoryRating", rec.Value(models.ColInventoryRating)),
		OperatingRating:     c.decimal("operatingRating", rec.Value(models.ColOperatingRating)),
		OwnerAgencyCode:     ownerCode,
		PlaceCode:           c.text(rec.Value(models.ColPlaceCode)),
		Reconstructed:       c.integer("reconstructed", rec.Value(models.ColReconstructed)),
		RoadwayWidth:        c.decimal("roadwayWidth", rec.Value(models.ColRoadwayWidth)),
		Skew:                c.integer("skew", rec.Value(models.ColSkewAngle)),
		SpansMainUnit:       c.integer("spansMainUnit", rec.Value(models.ColSpansMainUnit)),
		StateCode:           c.text(rec.Value(models.ColStateCode)),
	}
	if y, ok := rec.Value(models.ColYear).(float64); ok {
		s.SourceYear = &y
	}
	s.Issues = c.issues

	return s, nil
}

func resolve(dim *models.Dimension, table string, raw interface{}, number *string) (string, error) {
	name := Stringify(raw)
	if dim == nil {
		return "", &models.DimensionNotFoundError{Dimension: table, Name: name, StructureNumber: number}
	}
	code, ok := dim.CodeFor(name)
	if !ok {
		return "", &models.DimensionNotFoundError{Dimension: table, Name: name, StructureNumber: number}
	}
	return code, nil
}
