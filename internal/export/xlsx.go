// Package export writes bridge data to file formats used outside the database:
// the legacy wide inspection workbook and a point shapefile of structures.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"bridge-platform/internal/models"
)

// WideSheet is the worksheet holding the legacy inspection rows.
const WideSheet = "Inspection"

// WideHeaders are the legacy column names, one per source field.
var WideHeaders = []string{
	"age", "built", "condition",
	"conditionRatingDeck", "conditionRatingSubstructure", "conditionRatingSuperstructure",
	"cost", "countyCode", "countyName",
	"dailyTrafficAvg", "dailyTrafficAvgFuture", "dailyTrafficAvgFutureYear", "dailyTrafficAvgYear",
	"dailyTrafficTruckAvg", "dailyTrafficTruckAvgPct",
	"deckArea", "design", "inspectionFrequency", "inventoryRating",
	"latitude", "length", "longitude", "material", "maxSpan", "operatingRating", "ownerAgency",
	"placeCode", "placeName", "reconstructed", "relativeHumidityAvg", "roadwayWidth",
	"skewAngle", "spansMainUnit", "stateCode", "stateName", "structureNumber",
	"temperatureAvg", "temperatureMax", "temperatureMin", "windSpeedMean", "year",
}

func wideValues(w *models.WideInspection) []interface{} {
	return []interface{}{
		derefInt(w.Age), derefInt(w.Built), derefString(w.Condition),
		derefInt(w.ConditionRatingDeck), derefInt(w.ConditionRatingSubstructure), derefInt(w.ConditionRatingSuperstructure),
		derefFloat(w.CostThousands), derefString(w.CountyCode), derefString(w.CountyName),
		derefInt(w.DailyTrafficAvg), derefInt(w.DailyTrafficAvgFuture), derefInt(w.DailyTrafficAvgFutureYear), derefInt(w.DailyTrafficAvgYear),
		derefInt(w.DailyTrafficTruckAvg), derefFloat(w.DailyTrafficTruckAvgPct),
		derefFloat(w.DeckArea), derefString(w.Design), derefInt(w.InspectionFrequency), derefFloat(w.InventoryRating),
		derefFloat(w.Latitude), derefFloat(w.Length), derefFloat(w.Longitude), derefString(w.Material), derefFloat(w.MaxSpan), derefFloat(w.OperatingRating), derefString(w.OwnerAgency),
		derefString(w.PlaceCode), derefString(w.PlaceName), derefInt(w.Reconstructed), derefFloat(w.RelativeHumidityAvg), derefFloat(w.RoadwayWidth),
		derefInt(w.SkewAngle), derefInt(w.SpansMainUnit), derefString(w.StateCode), derefString(w.StateName), derefString(w.StructureNumber),
		derefFloat(w.TemperatureAvg), derefFloat(w.TemperatureMax), derefFloat(w.TemperatureMin), derefInt(w.WindSpeedMean), derefInt(w.Year),
	}
}

// WriteWideWorkbook writes one row per inspection record to outputPath.
// Rows are streamed so large exports do not hold every cell in memory.
func WriteWideWorkbook(rows []*models.WideInspection, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), WideSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(WideSheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]interface{}, len(WideHeaders))
	for i, h := range WideHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, wideValues(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) any {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}
