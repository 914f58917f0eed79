package models

// Source column names of the bridge export. Columns are matched by exact name.
const (
	ColAge                       = "Bridge Age (yr)"
	ColBuilt                     = "27 - Year Built"
	ColCondition                 = "CAT10 - Bridge Condition"
	ColRatingDeck                = "58 - Deck Condition Rating"
	ColRatingSubstructure        = "60 - Substructure Condition Rating"
	ColRatingSuperstructure      = "59 - Superstructure Condition Rating"
	ColProjectCost               = "96 - Total Project Cost"
	ColCountyCode                = "3 - County Code"
	ColCountyName                = "3 - County Name"
	ColDailyTrafficAvg           = "29 - Average Daily Traffic"
	ColDailyTrafficAvgFuture     = "114 - Future Average Daily Traffic"
	ColDailyTrafficAvgFutureYear = "115 - Year of Future Average Daily Traffic"
	ColDailyTrafficAvgYear       = "30 - Year of Average Daily Traffic"
	ColDailyTrafficTruckAvg      = "Computed - Average Daily Truck Traffic (Volume)"
	ColDailyTrafficTruckPct      = "109 - Average Daily Truck Traffic (Percent ADT)"
	ColDeckArea                  = "CAT29 - Deck Area (sq. ft.)"
	ColDesign                    = "43B - Main Span Design"
	ColInspectionFrequency       = "91 - Designated Inspection Frequency"
	ColInventoryRating           = "66 - Inventory Rating (US tons)"
	ColLatitude                  = "16 - Latitude (decimal)"
	ColLength                    = "49 - Structure Length (ft.)"
	ColLongitude                 = "17 - Longitude (decimal)"
	ColMaterial                  = "43A - Main Span Material"
	ColMaxSpan                   = "48 - Length of Maximum Span (ft.)"
	ColOperatingRating           = "64 - Operating Rating (US tons)"
	ColOwnerAgency               = "22 - Owner Agency"
	ColPlaceCode                 = "City - InfoBridge Place Code"
	ColPlaceName                 = "City - InfoBridge Place Name"
	ColReconstructed             = "106 - Year Reconstructed"
	ColRelativeHumidityAvg       = "Average Relative Humidity"
	ColRoadwayWidth              = "51 - Bridge Roadway Width Curb to Curb (ft.)"
	ColSkewAngle                 = "34 - Skew Angle (degrees)"
	ColSpansMainUnit             = "45 - Number of Spans in Main Unit"
	ColStateCode                 = "1 - State Code"
	ColStateName                 = "1 - State Name"
	ColStructureNumber           = "8 - Structure Number"
	ColTemperatureAvg            = "Average Temperature"
	ColTemperatureMax            = "Maximum Temperature"
	ColTemperatureMin            = "Minimum Temperature"
	ColWindSpeedMean             = "Mean Wind Speed"
	ColYear                      = "Year"
)

// RequiredColumns must be present in the header of every source file.
var RequiredColumns = []string{ColStructureNumber, ColYear}

// RawRecord is one parsed row of the source export keyed by column name.
// Values are nil, float64, bool or string.
type RawRecord map[string]interface{}

// Value returns the cell for column, or nil when the column is absent.
func (r RawRecord) Value(column string) interface{} {
	return r[column]
}

// Key is a nullable string usable as a map key. A null value and the empty
// string are distinct keys.
type Key struct {
	Valid bool
	Value string
}

// KeyOf builds the map key for an optional string.
func KeyOf(s *string) Key {
	if s == nil {
		return Key{}
	}
	return Key{Valid: true, Value: *s}
}

// String renders the key for logs and error messages.
func (k Key) String() string {
	if !k.Valid {
		return "<null>"
	}
	return k.Value
}
