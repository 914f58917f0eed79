package transform

import (
	"strconv"
	"testing"

	"bridge-platform/internal/models"
)

func TestExtractDimension_NaturalKeyFirstNameWins(t *testing.T) {
	records := []models.RawRecord{
		{models.ColCountyCode: float64(439), models.ColCountyName: "Tarrant"},
		{models.ColCountyCode: float64(113), models.ColCountyName: "Dallas"},
		{models.ColCountyCode: float64(439), models.ColCountyName: "Tarrant County"},
		{models.ColCountyCode: float64(113), models.ColCountyName: "Dallas"},
	}

	dim := ExtractDimension(records, CountySpec)

	want := []models.DimensionEntry{
		{Code: "439", Name: strPtr("Tarrant")},
		{Code: "113", Name: strPtr("Dallas")},
	}
	assertEntries(t, dim.Entries(), want)

	if dim.Table() != models.TableCounty {
		t.Errorf("Table() = %q, want %q", dim.Table(), models.TableCounty)
	}
}

func TestExtractDimension_SyntheticCodesAreDense(t *testing.T) {
	records := []models.RawRecord{
		{models.ColMaterial: "Steel"},
		{models.ColMaterial: "Concrete"},
		{models.ColMaterial: "Steel"},
		{},
		{models.ColMaterial: "Prestressed concrete"},
		{models.ColMaterial: nil},
		{models.ColMaterial: "Concrete"},
	}

	dim := ExtractDimension(records, MaterialSpec)

	want := []models.DimensionEntry{
		{Code: "0", Name: strPtr("Steel")},
		{Code: "1", Name: strPtr("Concrete")},
		{Code: "2", Name: nil},
		{Code: "3", Name: strPtr("Prestressed concrete")},
	}
	assertEntries(t, dim.Entries(), want)

	for i, e := range dim.Entries() {
		if e.Code != strconv.Itoa(i) {
			t.Errorf("entry %d has code %q, want dense code %q", i, e.Code, strconv.Itoa(i))
		}
	}

	code, ok := dim.CodeFor(nil)
	if !ok || code != "2" {
		t.Errorf("CodeFor(nil) = %q, %v, want \"2\", true", code, ok)
	}
}

func TestExtractDimension_EmptyInput(t *testing.T) {
	dim := ExtractDimension(nil, DesignSpec)
	if dim.Len() != 0 {
		t.Errorf("Len() = %d, want 0", dim.Len())
	}
}

func TestExtractDimension_Deterministic(t *testing.T) {
	records := []models.RawRecord{
		{models.ColDesign: "Stringer/Multi-beam or girder"},
		{models.ColDesign: "Slab"},
		{models.ColDesign: "Culvert"},
		{models.ColDesign: "Slab"},
	}

	first := ExtractDimension(records, DesignSpec).Entries()
	second := ExtractDimension(records, DesignSpec).Entries()
	assertEntries(t, second, first)
}

func TestExtractDimensions_AllTables(t *testing.T) {
	records := []models.RawRecord{
		sampleRecord("100", 2020, "Slab", "Concrete", "City or Municipal Highway Agency"),
		sampleRecord("200", 2020, "Culvert", "Concrete", "State Highway Agency"),
	}

	dims := ExtractDimensions(records)

	tests := []struct {
		name string
		dim  *models.Dimension
		want int
	}{
		{name: "state", dim: dims.State, want: 1},
		{name: "county", dim: dims.County, want: 1},
		{name: "place", dim: dims.Place, want: 1},
		{name: "design", dim: dims.Design, want: 2},
		{name: "material", dim: dims.Material, want: 1},
		{name: "owner agency", dim: dims.OwnerAgency, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.dim.Len() != tt.want {
				t.Errorf("Len() = %d, want %d", tt.dim.Len(), tt.want)
			}
		})
	}
}

func assertEntries(t *testing.T, got, want []models.DimensionEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Code != want[i].Code {
			t.Errorf("entry %d code = %q, want %q", i, got[i].Code, want[i].Code)
		}
		if models.KeyOf(got[i].Name) != models.KeyOf(want[i].Name) {
			t.Errorf("entry %d name = %s, want %s", i, models.KeyOf(got[i].Name), models.KeyOf(want[i].Name))
		}
	}
}

// sampleRecord builds a source row located in Fort Worth, Tarrant County, Texas.
func sampleRecord(number string, year float64, design, material, owner string) models.RawRecord {
	return models.RawRecord{
		models.ColStructureNumber:      number,
		models.ColYear:                 year,
		models.ColStateCode:            float64(48),
		models.ColStateName:            "Texas",
		models.ColCountyCode:           float64(439),
		models.ColCountyName:           "Tarrant",
		models.ColPlaceCode:            float64(27000),
		models.ColPlaceName:            "Fort Worth",
		models.ColDesign:               design,
		models.ColMaterial:             material,
		models.ColOwnerAgency:          owner,
		models.ColBuilt:                float64(1975),
		models.ColCondition:            "Good",
		models.ColRatingDeck:           float64(7),
		models.ColRatingSubstructure:   "N",
		models.ColRatingSuperstructure: float64(6),
		models.ColDailyTrafficTruckPct: float64(44),
		models.ColRelativeHumidityAvg:  float64(65),
		models.ColProjectCost:          float64(250),
		models.ColSkewAngle:            float64(15),
		models.ColLatitude:             32.7555,
		models.ColLongitude:            -97.3308,
	}
}
