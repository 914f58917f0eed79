package models

// Structure is the latest known state of one physical bridge.
type Structure struct {
	Number              *string  `json:"number" db:"number"`
	Built               *int64   `json:"built,omitempty" db:"built"`
	CountyCode          *string  `json:"county_code,omitempty" db:"countyCode"`
	DeckArea            *float64 `json:"deck_area,omitempty" db:"deckArea"`
	DesignCode          string   `json:"design_code" db:"designCode"`
	InspectionFrequency *int64   `json:"inspection_frequency,omitempty" db:"inspectionFrequency"`
	Latitude            *float64 `json:"latitude,omitempty" db:"latitude"`
	Length              *float64 `json:"length,omitempty" db:"length"`
	Longitude           *float64 `json:"longitude,omitempty" db:"longitude"`
	MaterialCode        string   `json:"material_code" db:"materialCode"`
	Span                *float64 `json:"span,omitempty" db:"span"`
	InventoryRating     *float64 `json:"inventory_rating,omitempty" db:"inventoryRating"`
	OperatingRating     *float64 `json:"operating_rating,omitempty" db:"operatingRating"`
	OwnerAgencyCode     string   `json:"owner_agency_code" db:"ownerAgencyCode"`
	PlaceCode           *string  `json:"place_code,omitempty" db:"placeCode"`
	Reconstructed       *int64   `json:"reconstructed,omitempty" db:"reconstructed"`
	RoadwayWidth        *float64 `json:"roadway_width,omitempty" db:"roadwayWidth"`
	Skew                *int64   `json:"skew,omitempty" db:"skew"`
	SpansMainUnit       *int64   `json:"spans_main_unit,omitempty" db:"spansMainUnit"`
	StateCode           *string  `json:"state_code,omitempty" db:"stateCode"`

	// Year of the record the snapshot was taken from.
	SourceYear *float64 `json:"-" db:"-"`
	// Issues collects values that could not be coerced into their column type.
	Issues []FieldIssue `json:"-" db:"-"`
}

// Inspection is one yearly observation of a structure.
type Inspection struct {
	StructureNumber               *string  `json:"structure_number" db:"structureNumber"`
	Year                          *int64   `json:"year" db:"year"`
	Age                           *int64   `json:"age,omitempty" db:"age"`
	Condition                     *string  `json:"condition,omitempty" db:"condition"`
	ConditionRatingDeck           *int64   `json:"condition_rating_deck,omitempty" db:"conditionRatingDeck"`
	ConditionRatingSubstructure   *int64   `json:"condition_rating_substructure,omitempty" db:"conditionRatingSubstructure"`
	ConditionRatingSuperstructure *int64   `json:"condition_rating_superstructure,omitempty" db:"conditionRatingSuperstructure"`
	ProjectCost                   *int64   `json:"project_cost,omitempty" db:"projectCost"`
	DailyTrafficAvg               *int64   `json:"daily_traffic_avg,omitempty" db:"dailyTrafficAvg"`
	DailyTrafficAvgFuture         *int64   `json:"daily_traffic_avg_future,omitempty" db:"dailyTrafficAvgFuture"`
	DailyTrafficAvgFutureYear     *int64   `json:"daily_traffic_avg_future_year,omitempty" db:"dailyTrafficAvgFutureYear"`
	DailyTrafficAvgYear           *int64   `json:"daily_traffic_avg_year,omitempty" db:"dailyTrafficAvgYear"`
	DailyTrafficTruckAvg          *int64   `json:"daily_traffic_truck_avg,omitempty" db:"dailyTrafficTruckAvg"`
	DailyTrafficTruckAvgPct       *float64 `json:"daily_traffic_truck_avg_pct,omitempty" db:"dailyTrafficTruckAvgPct"`
	RelativeHumidityAvg           *float64 `json:"relative_humidity_avg,omitempty" db:"relativeHumidityAvg"`
	TemperatureAvg                *float64 `json:"temperature_avg,omitempty" db:"temperatureAvg"`
	TemperatureMax                *float64 `json:"temperature_max,omitempty" db:"temperatureMax"`
	TemperatureMin                *float64 `json:"temperature_min,omitempty" db:"temperatureMin"`
	WindSpeedMean                 *int64   `json:"wind_speed_mean,omitempty" db:"windSpeedMean"`

	Issues []FieldIssue `json:"-" db:"-"`
}

// Bridge condition categories allowed in Inspection.condition.
var BridgeConditions = []string{"Good", "Fair", "Poor"}

// FieldIssue records a source value that did not fit its target column.
type FieldIssue struct {
	Field  string
	Value  interface{}
	Reason string
}

// WideInspection is the legacy denormalized output: one row per source
// record with dimension names inlined and project cost left in thousands of
// dollars.
type WideInspection struct {
	Inspection

	Built               *int64
	CountyCode          *string
	CountyName          *string
	PlaceCode           *string
	PlaceName           *string
	StateCode           *string
	StateName           *string
	Design              *string
	Material            *string
	OwnerAgency         *string
	DeckArea            *float64
	InspectionFrequency *int64
	InventoryRating     *float64
	OperatingRating     *float64
	Latitude            *float64
	Longitude           *float64
	Length              *float64
	MaxSpan             *float64
	Reconstructed       *int64
	RoadwayWidth        *float64
	SkewAngle           *int64
	SpansMainUnit       *int64
	CostThousands       *float64
}

// Dataset is everything one run loads into the store.
type Dataset struct {
	Dimensions  Dimensions
	Structures  []*Structure
	Inspections []*Inspection
}

// ConditionSummary counts inspections per bridge condition for one year.
type ConditionSummary struct {
	Year      *int64  `json:"year" db:"year"`
	Condition *string `json:"condition" db:"condition"`
	Count     int     `json:"count" db:"count"`
}
