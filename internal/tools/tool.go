// Package tools defines the model-facing tool surface: typed argument
// decoding, function schemas, and an immutable dispatch registry.
package tools

import (
	"context"
	"encoding/json"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Direction tags where a tool result goes. ToServer results feed the model
// only; ToClient results are surfaced to the end user without being re-read
// by the model.
type Direction int

const (
	ToServer Direction = iota
	ToClient
)

// Result is what a tool invocation produces. Exactly one of Text or Payload
// is set; Payload is serialized as JSON on the wire.
type Result struct {
	Direction Direction
	Text      string
	Payload   any
}

// Schema is a function declaration in the realtime session format.
type Schema struct {
	Type        string                `json:"type"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Parameters  jsonschema.Definition `json:"parameters"`
}

// Handler executes one tool invocation against its raw JSON arguments.
type Handler func(ctx context.Context, raw json.RawMessage) (Result, error)

// Tool pairs a schema with its handler.
type Tool struct {
	Schema Schema
	Handle Handler
}
