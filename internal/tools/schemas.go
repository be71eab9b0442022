package tools

import "github.com/sashabaranov/go-openai/jsonschema"

// Tool names as declared to the model.
const (
	NameFindDestination = "find_destination"
	NameDestinationInfo = "get_destination_info"
	NameFlightInfo      = "get_flight_info"
	NameSearch          = "search"
	NameReportGrounding = "report_grounding"
)

const resultFormatDescription = "Results are formatted as a source name first in square brackets, " +
	"followed by the text content, and a line with '-----' at the end of each result."

func findDestinationSchema() Schema {
	return Schema{
		Type: "function",
		Name: NameFindDestination,
		Description: "Find a destination using a set of criteria. Possible criteria is " +
			"the user's current location, the maximum flight duration, the maximum flight price, " +
			"the categories of the destination, and generic content to search for about the destination. " +
			"The knowledge base is in Portuguese, translate to and from Portuguese if needed. " +
			resultFormatDescription,
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"current_location": {
					Type:        jsonschema.String,
					Description: "The user's current location using the IATA code for the city",
				},
				"max_flight_duration": {
					Type:        jsonschema.Number,
					Description: "The maximum flight duration in hours",
				},
				"max_price": {
					Type:        jsonschema.Number,
					Description: "The maximum price in EUR",
				},
				"categories": {
					Type:        jsonschema.Array,
					Items:       &jsonschema.Definition{Type: jsonschema.String},
					Description: "The categories of the destination",
				},
				"content": {
					Type:        jsonschema.String,
					Description: "Generic content to search for about the destination",
				},
			},
			Required:             []string{"current_location"},
			AdditionalProperties: false,
		},
	}
}

func destinationInfoSchema() Schema {
	return Schema{
		Type: "function",
		Name: NameDestinationInfo,
		Description: "Get information about a specific destination using the knowledge base. " +
			"The knowledge base is in Portuguese, translate to and from Portuguese if needed. " +
			resultFormatDescription,
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query": {
					Type:        jsonschema.String,
					Description: "The question about the destination",
				},
			},
			Required:             []string{"query"},
			AdditionalProperties: false,
		},
	}
}

func flightInfoSchema() Schema {
	return Schema{
		Type: "function",
		Name: NameFlightInfo,
		Description: "Get the price and duration of a specific flight between two cities at a specific date. " +
			"The flight information is returned as a JSON object with 5 properties: 'source', 'destination', " +
			"'price', 'duration', and 'trip_date'.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"current_location": {
					Type:        jsonschema.String,
					Description: "The user's current location using the IATA code for the city",
				},
				"destination": {
					Type:        jsonschema.String,
					Description: "The destination using the IATA code for the city",
				},
				"trip_date": {
					Type:        jsonschema.String,
					Description: "The date of the trip in the format 'YYYY-MM-DD'",
				},
			},
			Required:             []string{"current_location", "destination", "trip_date"},
			AdditionalProperties: false,
		},
	}
}

func searchSchema() Schema {
	return Schema{
		Type: "function",
		Name: NameSearch,
		Description: "Search the knowledge base for a generic query. The knowledge base is in Portuguese, " +
			"translate to and from Portuguese if needed. " + resultFormatDescription,
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query": {
					Type:        jsonschema.String,
					Description: "Search query",
				},
			},
			Required:             []string{"query"},
			AdditionalProperties: false,
		},
	}
}

func groundingSchema() Schema {
	return Schema{
		Type: "function",
		Name: NameReportGrounding,
		Description: "Report use of a source from the knowledge base as part of an answer (effectively, cite the source). " +
			"Sources appear in square brackets before each knowledge base passage. Always use this tool to cite sources " +
			"when responding with information from the knowledge base.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"sources": {
					Type:        jsonschema.Array,
					Items:       &jsonschema.Definition{Type: jsonschema.String},
					Description: "List of source names from last statement actually used, do not include the ones not used to formulate a response",
				},
			},
			Required:             []string{"sources"},
			AdditionalProperties: false,
		},
	}
}
