package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lunavoice/luna/internal/domain"
)

// FindDestinationArgs are the arguments of the find_destination tool.
// Optional constraints stay nil when absent; absent and zero are different
// answers downstream.
type FindDestinationArgs struct {
	CurrentLocation   string   `json:"current_location"`
	MaxFlightDuration *float64 `json:"max_flight_duration,omitempty"`
	MaxPrice          *float64 `json:"max_price,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	Content           string   `json:"content,omitempty"`
}

// DestinationInfoArgs are the arguments of the get_destination_info tool.
type DestinationInfoArgs struct {
	Query string `json:"query"`
}

// FlightInfoArgs are the arguments of the get_flight_info tool.
type FlightInfoArgs struct {
	CurrentLocation string `json:"current_location"`
	Destination     string `json:"destination"`
	TripDate        string `json:"trip_date"`
}

// SearchArgs are the arguments of the search tool.
type SearchArgs struct {
	Query string `json:"query"`
}

// GroundingArgs are the arguments of the report_grounding tool.
type GroundingArgs struct {
	Sources []string `json:"sources"`
}

// decodeArgs unmarshals raw tool arguments into the typed request, rejecting
// unknown fields. Validation of the decoded values belongs to the domain
// constructors, not here.
func decodeArgs(raw json.RawMessage, into any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArguments, err)
	}
	return nil
}
