package transform

import (
	"testing"

	"bridge-platform/internal/models"
)

func TestTransformInspection(t *testing.T) {
	tests := []struct {
		name        string
		record      models.RawRecord
		checkValues func(*testing.T, *models.Inspection)
	}{
		{
			name:   "full record",
			record: sampleRecord("12345", 2020, "Slab", "Concrete", "State Highway Agency"),
			checkValues: func(t *testing.T, insp *models.Inspection) {
				if insp.StructureNumber == nil || *insp.StructureNumber != "12345" {
					t.Errorf("StructureNumber = %v, want 12345", insp.StructureNumber)
				}
				if insp.Year == nil || *insp.Year != 2020 {
					t.Errorf("Year = %v, want 2020", insp.Year)
				}
				if insp.ConditionRatingDeck == nil || *insp.ConditionRatingDeck != 7 {
					t.Errorf("ConditionRatingDeck = %v, want 7", insp.ConditionRatingDeck)
				}
				if insp.ConditionRatingSubstructure != nil {
					t.Errorf("ConditionRatingSubstructure = %d, want nil for N", *insp.ConditionRatingSubstructure)
				}
				if insp.DailyTrafficTruckAvgPct == nil || *insp.DailyTrafficTruckAvgPct != 0.44 {
					t.Errorf("DailyTrafficTruckAvgPct = %v, want 0.44", insp.DailyTrafficTruckAvgPct)
				}
				if insp.RelativeHumidityAvg == nil || *insp.RelativeHumidityAvg != 0.65 {
					t.Errorf("RelativeHumidityAvg = %v, want 0.65", insp.RelativeHumidityAvg)
				}
				if insp.ProjectCost == nil || *insp.ProjectCost != 250000 {
					t.Errorf("ProjectCost = %v, want 250000", insp.ProjectCost)
				}
				if insp.Condition == nil || *insp.Condition != "Good" {
					t.Errorf("Condition = %v, want Good", insp.Condition)
				}
				if len(insp.Issues) != 0 {
					t.Errorf("Issues = %v, want none", insp.Issues)
				}
			},
		},
		{
			name: "numeric structure number is stringified",
			record: models.RawRecord{
				models.ColStructureNumber: float64(12345),
				models.ColYear:            float64(2011),
			},
			checkValues: func(t *testing.T, insp *models.Inspection) {
				if insp.StructureNumber == nil || *insp.StructureNumber != "12345" {
					t.Errorf("StructureNumber = %v, want \"12345\"", insp.StructureNumber)
				}
			},
		},
		{
			name:   "missing columns become null",
			record: models.RawRecord{models.ColStructureNumber: "1"},
			checkValues: func(t *testing.T, insp *models.Inspection) {
				if insp.Year != nil || insp.DailyTrafficTruckAvgPct != nil || insp.RelativeHumidityAvg != nil ||
					insp.ProjectCost != nil || insp.ConditionRatingDeck != nil || insp.TemperatureAvg != nil {
					t.Errorf("expected null fields, got %+v", insp)
				}
				if len(insp.Issues) != 0 {
					t.Errorf("Issues = %v, want none", insp.Issues)
				}
			},
		},
		{
			name: "unexpected values are recorded, not raised",
			record: models.RawRecord{
				models.ColStructureNumber: "1",
				models.ColRatingDeck:      "X",
				models.ColDailyTrafficAvg: 10.5,
			},
			checkValues: func(t *testing.T, insp *models.Inspection) {
				if insp.ConditionRatingDeck != nil {
					t.Errorf("ConditionRatingDeck = %d, want nil", *insp.ConditionRatingDeck)
				}
				if len(insp.Issues) != 2 {
					t.Fatalf("Issues = %v, want 2", insp.Issues)
				}
				if insp.Issues[0].Field != "conditionRatingDeck" {
					t.Errorf("first issue field = %q, want conditionRatingDeck", insp.Issues[0].Field)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkValues(t, TransformInspection(tt.record))
		})
	}
}

func TestTransformInspections_OneToOne(t *testing.T) {
	records := []models.RawRecord{
		sampleRecord("A", 2019, "Slab", "Concrete", "State Highway Agency"),
		sampleRecord("A", 2020, "Slab", "Concrete", "State Highway Agency"),
		sampleRecord("B", 2020, "Slab", "Concrete", "State Highway Agency"),
	}

	inspections := TransformInspections(records)
	if len(inspections) != len(records) {
		t.Fatalf("got %d inspections, want %d", len(inspections), len(records))
	}
	if *inspections[1].Year != 2020 || *inspections[1].StructureNumber != "A" {
		t.Errorf("inspection order not preserved: %+v", inspections[1])
	}
}

func TestTransformWide_KeepsLegacyCostUnits(t *testing.T) {
	rec := sampleRecord("12345", 2020, "Slab", "Concrete", "State Highway Agency")

	w := TransformWide(rec)
	if w.CostThousands == nil || *w.CostThousands != 250 {
		t.Errorf("CostThousands = %v, want 250", w.CostThousands)
	}
	if w.ProjectCost == nil || *w.ProjectCost != 250000 {
		t.Errorf("ProjectCost = %v, want 250000", w.ProjectCost)
	}
	if w.CountyName == nil || *w.CountyName != "Tarrant" {
		t.Errorf("CountyName = %v, want Tarrant", w.CountyName)
	}
	if w.Design == nil || *w.Design != "Slab" {
		t.Errorf("Design = %v, want Slab", w.Design)
	}
}
