package handlers

import (
	"encoding/json"
	"net/http"
)

type object map[string]interface{}

func nullable(kind string) object {
	return object{"type": kind, "nullable": true}
}

func queryParam(name, description, kind string) object {
	return object{
		"name":        name,
		"in":          "query",
		"description": description,
		"required":    false,
		"schema":      object{"type": kind},
	}
}

func pathParam(name, description string) object {
	return object{
		"name":        name,
		"in":          "path",
		"description": description,
		"required":    true,
		"schema":      object{"type": "string"},
	}
}

var paginationParams = []object{
	{
		"name":        "page",
		"in":          "query",
		"description": "Page number (default: 1)",
		"required":    false,
		"schema":      object{"type": "integer", "default": 1},
	},
	{
		"name":        "limit",
		"in":          "query",
		"description": "Records per page (default: 100, max: 1000)",
		"required":    false,
		"schema":      object{"type": "integer", "default": defaultLimit},
	},
}

var structureSchema = object{
	"type": "object",
	"properties": object{
		"number":               object{"type": "string"},
		"built":                nullable("integer"),
		"county_code":          nullable("string"),
		"deck_area":            nullable("number"),
		"design_code":          object{"type": "string"},
		"inspection_frequency": nullable("integer"),
		"latitude":             nullable("number"),
		"length":               nullable("number"),
		"longitude":            nullable("number"),
		"material_code":        object{"type": "string"},
		"span":                 nullable("number"),
		"inventory_rating":     nullable("number"),
		"operating_rating":     nullable("number"),
		"owner_agency_code":    object{"type": "string"},
		"place_code":           nullable("string"),
		"reconstructed":        nullable("integer"),
		"roadway_width":        nullable("number"),
		"skew":                 object{"type": "integer", "nullable": true, "minimum": 0, "maximum": 99},
		"spans_main_unit":      nullable("integer"),
		"state_code":           nullable("string"),
	},
}

func rating() object {
	return object{"type": "integer", "nullable": true, "minimum": 0, "maximum": 9}
}

func fraction() object {
	return object{"type": "number", "nullable": true, "minimum": 0, "maximum": 1}
}

var inspectionSchema = object{
	"type": "object",
	"properties": object{
		"structure_number":                object{"type": "string"},
		"year":                            nullable("integer"),
		"age":                             nullable("integer"),
		"condition":                       object{"type": "string", "nullable": true, "enum": []string{"Good", "Fair", "Poor"}},
		"condition_rating_deck":           rating(),
		"condition_rating_substructure":   rating(),
		"condition_rating_superstructure": rating(),
		"project_cost":                    object{"type": "integer", "nullable": true, "description": "US dollars"},
		"daily_traffic_avg":               nullable("integer"),
		"daily_traffic_avg_future":        nullable("integer"),
		"daily_traffic_avg_future_year":   nullable("integer"),
		"daily_traffic_avg_year":          nullable("integer"),
		"daily_traffic_truck_avg":         nullable("integer"),
		"daily_traffic_truck_avg_pct":     fraction(),
		"relative_humidity_avg":           fraction(),
		"temperature_avg":                 nullable("number"),
		"temperature_max":                 nullable("number"),
		"temperature_min":                 nullable("number"),
		"wind_speed_mean":                 nullable("integer"),
	},
}

func jsonResponse(description string, body object) object {
	return object{
		"description": description,
		"content": object{
			"application/json": object{"schema": body},
		},
	}
}

func paginated(item object) object {
	return object{
		"type": "object",
		"properties": object{
			"data":        object{"type": "array", "items": item},
			"total":       object{"type": "integer"},
			"page":        object{"type": "integer"},
			"limit":       object{"type": "integer"},
			"total_pages": object{"type": "integer"},
		},
	}
}

func listOf(item object) object {
	return object{
		"type":       "object",
		"properties": object{"data": object{"type": "array", "items": item}},
	}
}

func getOp(summary, description string, params []object, responses object) object {
	op := object{
		"summary":     summary,
		"description": description,
		"responses":   responses,
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	return object{"get": op}
}

var notFound = jsonResponse("Not found", object{"$ref": "#/components/schemas/Error"})

// openAPIDocument describes every route registered by RegisterRoutes.
var openAPIDocument = object{
	"openapi": "3.0.0",
	"info": object{
		"title":       "Bridge Inventory API",
		"description": "Read access to the normalized National Bridge Inventory tables",
		"version":     "1.0.0",
		"contact":     map[string]string{"name": "Bridge Platform Team"},
	},
	"servers": []map[string]string{
		{"url": "http://localhost:8080", "description": "Local development server"},
	},
	"components": object{
		"schemas": object{
			"Error": object{
				"type": "object",
				"properties": object{
					"error":   object{"type": "string"},
					"message": object{"type": "string"},
					"code":    object{"type": "integer"},
				},
			},
		},
	},
	"paths": object{
		"/api/structures": getOp("List structures", "Latest known state of each bridge, ordered by structure number",
			append([]object{
				queryParam("state", "Filter by state FIPS code", "string"),
				queryParam("county", "Filter by county FIPS code", "string"),
			}, paginationParams...),
			object{"200": jsonResponse("Successful response", paginated(structureSchema))}),
		"/api/structures/{number}": getOp("Get structure", "A single structure by NBI structure number",
			[]object{pathParam("number", "NBI structure number")},
			object{"200": jsonResponse("Successful response", structureSchema), "404": notFound}),
		"/api/structures/{number}/inspections": getOp("Structure inspections", "Inspection history of one structure, newest first",
			append([]object{pathParam("number", "NBI structure number")}, paginationParams...),
			object{"200": jsonResponse("Successful response", paginated(inspectionSchema)), "404": notFound}),
		"/api/inspections": getOp("List inspections", "Yearly inspection records with filtering and pagination",
			append([]object{
				queryParam("structure_number", "Filter by NBI structure number", "string"),
				queryParam("year", "Filter by inspection year", "integer"),
			}, paginationParams...),
			object{"200": jsonResponse("Successful response", paginated(inspectionSchema))}),
		"/api/inspections/summary": getOp("Condition summary", "Good/Fair/Poor counts per inspection year",
			[]object{queryParam("year", "Restrict to one inspection year", "integer")},
			object{"200": jsonResponse("Successful response", listOf(object{
				"type": "object",
				"properties": object{
					"year":       nullable("integer"),
					"good":       object{"type": "integer"},
					"fair":       object{"type": "integer"},
					"poor":       object{"type": "integer"},
					"unrated":    object{"type": "integer"},
					"total":      object{"type": "integer"},
					"poor_share": object{"type": "number"},
				},
			}))}),
		"/api/dimensions/{table}": getOp("Lookup table", "Entries of State, County, Place, Design, Material or OwnerAgency",
			[]object{pathParam("table", "Lookup table name")},
			object{"200": jsonResponse("Successful response", listOf(object{
				"type": "object",
				"properties": object{
					"code": object{"type": "string"},
					"name": nullable("string"),
				},
			})), "404": notFound}),
		"/api/condition-ratings": getOp("Condition ratings", "NBI general condition rating scale 0-9", nil,
			object{"200": jsonResponse("Successful response", listOf(object{
				"type": "object",
				"properties": object{
					"code":        object{"type": "integer"},
					"description": object{"type": "string"},
					"detail":      nullable("string"),
				},
			}))}),
		"/api/metadata": getOp("Column metadata", "Units and descriptions of every object column",
			[]object{queryParam("table", "Restrict to one table", "string")},
			object{"200": jsonResponse("Successful response", listOf(object{
				"type": "object",
				"properties": object{
					"table":       object{"type": "string"},
					"column":      object{"type": "string"},
					"unit":        nullable("string"),
					"description": object{"type": "string"},
				},
			}))}),
		"/health": getOp("Health check", "Reports whether the API can reach its database", nil,
			object{
				"200": jsonResponse("API is healthy", object{"type": "object", "properties": object{"status": object{"type": "string"}}}),
				"503": jsonResponse("Database unreachable", object{"type": "object", "properties": object{"status": object{"type": "string"}}}),
			}),
		"/metrics": object{
			"get": object{
				"summary":     "Prometheus metrics",
				"description": "Prometheus metrics endpoint for monitoring",
				"responses": object{
					"200": object{
						"description": "Prometheus metrics in text format",
						"content":     object{"text/plain": object{"schema": object{"type": "string"}}},
					},
				},
			},
		},
	},
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the Bridge Inventory API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(openAPIDocument)
}
