package schema

import "bridge-platform/internal/models"

func text(s string) *string { return &s }

// ConditionRatings is the NBI general condition rating scale.
var ConditionRatings = []models.ConditionRating{
	{Code: 0, Description: "Failed", Detail: text("Out of service; beyond corrective action")},
	{Code: 1, Description: `"Imminent" failure`, Detail: text("Major deterioration or section loss present in critical structural components or obvious vertical or horizontal movement affecting structure stability. Bridge is closed to traffic but corrective action may put it back in light service.")},
	{Code: 2, Description: "Critical", Detail: text("Advanced deterioration of primary structural elements. Fatigue cracks in steel or shear cracks in concrete may be present or scour may have removed substructure support. Unless closely monitored it may be necessary to close the bridge until corrective action is taken.")},
	{Code: 3, Description: "Serious", Detail: text("Loss of section, deterioration of primary structural elements. Fatigue cracks in steel or shear cracks in concrete may be present.")},
	{Code: 4, Description: "Poor", Detail: text("Advanced section loss, deterioration, spalling or scour.")},
	{Code: 5, Description: "Fair", Detail: text("All primary structural elements are sound but may have minor section loss, cracking, spalling or scour.")},
	{Code: 6, Description: "Satisfactory", Detail: text("Structural elements show some minor deterioration.")},
	{Code: 7, Description: "Good", Detail: text("Some minor problems.")},
	{Code: 8, Description: "Very good", Detail: text("No problems noted.")},
	{Code: 9, Description: "Excellent"},
}

func doc(table, column string, unit *string, description string) models.ColumnMetadata {
	return models.ColumnMetadata{Table: table, Column: column, Unit: unit, Description: description}
}

var (
	unitNBIRating = text("NBI Condition Rating")
	unitFeet      = text("Feet")
	unitDegrees   = text("Degrees")
	unitCelsius   = text("Degrees Celsius")
	unitTons      = text("United States Tons")
)

// ColumnDocs documents every column of the normalized schema.
var ColumnDocs = []models.ColumnMetadata{
	doc(models.TableConditionRating, "code", nil, "The code identifying the condition rating as defined by NBI."),
	doc(models.TableConditionRating, "description", nil, "The description of the condition rating."),
	doc(models.TableConditionRating, "detail", nil, "More detailed information about the condition rating."),

	doc(models.TableCounty, "code", nil, "The Federal Information Processing System (FIPS) code of the county in a U.S. state."),
	doc(models.TableCounty, "name", nil, "The name of the county in a U.S. state."),
	doc(models.TableDesign, "code", nil, "The automatically incrementing code used to identify the design of the main span of the bridge."),
	doc(models.TableDesign, "name", nil, "The name of the design of the main span of the bridge."),
	doc(models.TableMaterial, "code", nil, "The automatically incrementing code used to identify the material of the main span of the bridge."),
	doc(models.TableMaterial, "name", nil, "The name of the material of the main span of the bridge."),
	doc(models.TableOwnerAgency, "code", nil, "The automatically incrementing code used to identify the owner agency."),
	doc(models.TableOwnerAgency, "name", nil, "The name of the agency that owns the bridge."),
	doc(models.TablePlace, "code", nil, "The InfoBridge place code of the place; often a city."),
	doc(models.TablePlace, "name", nil, "The InfoBridge place name; often a city."),
	doc(models.TableState, "code", nil, "The Federal Information Processing System (FIPS) code of the U.S. state."),
	doc(models.TableState, "name", nil, "The name of the U.S. state."),

	doc(models.TableInspection, "structureNumber", nil, "The unique identifier for a structure in the National Bridge Inventory (NBI)."),
	doc(models.TableInspection, "year", nil, "The year of the inspection record."),
	doc(models.TableInspection, "age", text("Years"), "The age of the bridge at the time of the record."),
	doc(models.TableInspection, "condition", text("23 CFR 490 Subpart D"), "The bridge condition as defined by 23 CFR 490 Subpart D."),
	doc(models.TableInspection, "conditionRatingDeck", unitNBIRating, "The overall condition rating of the deck."),
	doc(models.TableInspection, "conditionRatingSubstructure", unitNBIRating, "The physical condition of piers, abutments, piles, fenders, footings and other substructure components."),
	doc(models.TableInspection, "conditionRatingSuperstructure", unitNBIRating, "The physical condition of all structural members of the superstructure."),
	doc(models.TableInspection, "projectCost", text("United States Dollars"), "Estimated total project costs associated with the proposed bridge improvement project, including incidental costs."),
	doc(models.TableInspection, "dailyTrafficAvg", nil, "The average daily traffic volume."),
	doc(models.TableInspection, "dailyTrafficAvgFuture", nil, "The forecasted average daily traffic volume."),
	doc(models.TableInspection, "dailyTrafficAvgFutureYear", nil, "The year of the forecasted average daily traffic volume."),
	doc(models.TableInspection, "dailyTrafficAvgYear", nil, "The year the average daily traffic volume was counted."),
	doc(models.TableInspection, "dailyTrafficTruckAvg", nil, "The average daily truck traffic volume."),
	doc(models.TableInspection, "dailyTrafficTruckAvgPct", nil, "The fraction of dailyTrafficAvg that is truck traffic."),
	doc(models.TableInspection, "relativeHumidityAvg", text("Percent Water in Air"), "The average relative humidity as a fraction."),
	doc(models.TableInspection, "temperatureAvg", unitCelsius, "The average temperature."),
	doc(models.TableInspection, "temperatureMax", unitCelsius, "The maximum temperature."),
	doc(models.TableInspection, "temperatureMin", unitCelsius, "The minimum temperature."),
	doc(models.TableInspection, "windSpeedMean", text("Miles per Hour"), "The mean wind speed."),

	doc(models.TableStructure, "number", nil, "The unique identifier for a structure in the National Bridge Inventory (NBI)."),
	doc(models.TableStructure, "built", nil, "The year the bridge was built."),
	doc(models.TableStructure, "countyCode", nil, "The FIPS code of the county the bridge is in."),
	doc(models.TableStructure, "deckArea", text("Square Feet"), "The area of the bridge deck."),
	doc(models.TableStructure, "designCode", nil, "The code of the design of the main span."),
	doc(models.TableStructure, "inspectionFrequency", text("Months"), "The designated number of months between inspections."),
	doc(models.TableStructure, "latitude", unitDegrees, "The latitude of the bridge."),
	doc(models.TableStructure, "length", unitFeet, "The length of the structure."),
	doc(models.TableStructure, "longitude", unitDegrees, "The longitude of the bridge."),
	doc(models.TableStructure, "materialCode", nil, "The code of the material of the main span."),
	doc(models.TableStructure, "span", unitFeet, "The length of the maximum span."),
	doc(models.TableStructure, "inventoryRating", unitTons, "The load that can safely use the bridge for an indefinite period."),
	doc(models.TableStructure, "operatingRating", unitTons, "The maximum permissible live load the bridge may carry."),
	doc(models.TableStructure, "ownerAgencyCode", nil, "The code of the agency that owns the bridge."),
	doc(models.TableStructure, "placeCode", nil, "The InfoBridge place code of the place the bridge is in."),
	doc(models.TableStructure, "reconstructed", nil, "The year of the most recent reconstruction."),
	doc(models.TableStructure, "roadwayWidth", unitFeet, "The roadway width measured curb to curb."),
	doc(models.TableStructure, "skew", unitDegrees, "The angle between the centerline of a pier and a line normal to the roadway centerline. Major variation in skews of substructure units is indicated with 99."),
	doc(models.TableStructure, "spansMainUnit", nil, "The number of spans in the main unit."),
	doc(models.TableStructure, "stateCode", nil, "The FIPS code of the state the bridge is in."),
}
