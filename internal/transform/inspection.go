package transform

import (
	"bridge-platform/internal/models"
)

// TransformInspection projects one source record onto an Inspection. It keeps
// no state between records and never fails; values that do not fit their
// column are left null and listed in Issues.
func TransformInspection(rec models.RawRecord) *models.Inspection {
	var c coercer
	insp := &models.Inspection{
		StructureNumber:               c.text(rec.Value(models.ColStructureNumber)),
		Year:                          c.integer("year", rec.Value(models.ColYear)),
		Age:                           c.integer("age", rec.Value(models.ColAge)),
		Condition:                     c.text(rec.Value(models.ColCondition)),
		ConditionRatingDeck:           c.rating("conditionRatingDeck", rec.Value(models.ColRatingDeck)),
		ConditionRatingSubstructure:   c.rating("conditionRatingSubstructure", rec.Value(models.ColRatingSubstructure)),
		ConditionRatingSuperstructure: c.rating("conditionRatingSuperstructure", rec.Value(models.ColRatingSuperstructure)),
		ProjectCost:                   c.thousands("projectCost", rec.Value(models.ColProjectCost)),
		DailyTrafficAvg:               c.integer("dailyTrafficAvg", rec.Value(models.ColDailyTrafficAvg)),
		DailyTrafficAvgFuture:         c.integer("dailyTrafficAvgFuture", rec.Value(models.ColDailyTrafficAvgFuture)),
		DailyTrafficAvgFutureYear:     c.integer("dailyTrafficAvgFutureYear", rec.Value(models.ColDailyTrafficAvgFutureYear)),
		DailyTrafficAvgYear:           c.integer("dailyTrafficAvgYear", rec.Value(models.ColDailyTrafficAvgYear)),
		DailyTrafficTruckAvg:          c.integer("dailyTrafficTruckAvg", rec.Value(models.ColDailyTrafficTruckAvg)),
		DailyTrafficTruckAvgPct:       c.fraction("dailyTrafficTruckAvgPct", rec.Value(models.ColDailyTrafficTruckPct)),
		RelativeHumidityAvg:           c.fraction("relativeHumidityAvg", rec.Value(models.ColRelativeHumidityAvg)),
		TemperatureAvg:                c.decimal("temperatureAvg", rec.Value(models.ColTemperatureAvg)),
		TemperatureMax:                c.decimal("temperatureMax", rec.Value(models.ColTemperatureMax)),
		TemperatureMin:                c.decimal("temperatureMin", rec.Value(models.ColTemperatureMin)),
		WindSpeedMean:                 c.integer("windSpeedMean", rec.Value(models.ColWindSpeedMean)),
	}
	insp.Issues = c.issues
	return insp
}

// TransformInspections maps every record, in input order.
func TransformInspections(records []models.RawRecord) []*models.Inspection {
	out := make([]*models.Inspection, len(records))
	for i, rec := range records {
		out[i] = TransformInspection(rec)
	}
	return out
}

// TransformWide builds the legacy denormalized row: inspection fields plus
// structure attributes and dimension names inline, with project cost kept in
// thousands of dollars.
func TransformWide(rec models.RawRecord) *models.WideInspection {
	var c coercer
	w := &models.WideInspection{
		Inspection:          *TransformInspection(rec),
		Built:               c.integer("built", rec.Value(models.ColBuilt)),
		CountyCode:          c.text(rec.Value(models.ColCountyCode)),
		CountyName:          c.text(rec.Value(models.ColCountyName)),
		PlaceCode:           c.text(rec.Value(models.ColPlaceCode)),
		PlaceName:           c.text(rec.Value(models.ColPlaceName)),
		StateCode:           c.text(rec.Value(models.ColStateCode)),
		StateName:           c.text(rec.Value(models.ColStateName)),
		Design:              c.text(rec.Value(models.ColDesign)),
		Material:            c.text(rec.Value(models.ColMaterial)),
		OwnerAgency:         c.text(rec.Value(models.ColOwnerAgency)),
		DeckArea:            c.decimal("deckArea", rec.Value(models.ColDeckArea)),
		InspectionFrequency: c.integer("inspectionFrequency", rec.Value(models.ColInspectionFrequency)),
		InventoryRating:     c.decimal("inventoryRating", rec.Value(models.ColInventoryRating)),
		OperatingRating:     c.decimal("operatingRating", rec.Value(models.ColOperatingRating)),
		Latitude:            c.decimal("latitude", rec.Value(models.ColLatitude)),
		Longitude:           c.decimal("longitude", rec.Value(models.ColLongitude)),
		Length:              c.decimal("length", rec.Value(models.ColLength)),
		MaxSpan:             c.decimal("maxSpan", rec.Value(models.ColMaxSpan)),
		Reconstructed:       c.integer("reconstructed", rec.Value(models.ColReconstructed)),
		RoadwayWidth:        c.decimal("roadwayWidth", rec.Value(models.ColRoadwayWidth)),
		SkewAngle:           c.integer("skewAngle", rec.Value(models.ColSkewAngle)),
		SpansMainUnit:       c.integer("spansMainUnit", rec.Value(models.ColSpansMainUnit)),
		CostThousands:       c.decimal("cost", rec.Value(models.ColProjectCost)),
	}
	w.Issues = append(w.Issues, c.issues...)
	return w
}
