package relay

import (
	"encoding/json"
	"fmt"

	"github.com/lunavoice/luna/internal/tools"
)

// Realtime protocol event types the relay intercepts; everything else passes
// through untouched.
const (
	typeSessionUpdate     = "session.update"
	typeItemDone          = "response.output_item.done"
	typeItemAdded         = "response.output_item.added"
	typeArgsDelta         = "response.function_call_arguments.delta"
	typeArgsDone          = "response.function_call_arguments.done"
	typeResponseDone      = "response.done"
	typeItemCreate        = "conversation.item.create"
	typeResponseCreate    = "response.create"
	typeToolResponseToWeb = "extension.middle_tier_tool_response"
)

// envelope carries just enough of an event to route it.
type envelope struct {
	Type string `json:"type"`
}

// outputItem is a single item of a model response.
type outputItem struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type"`
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// itemDoneEvent is response.output_item.done / response.output_item.added.
type itemDoneEvent struct {
	Type string     `json:"type"`
	Item outputItem `json:"item"`
}

// sessionConfig is the part of a session.update payload the relay rewrites.
// The browser never controls instructions, voice, or the tool surface.
type sessionConfig struct {
	Instructions string         `json:"instructions"`
	Voice        string         `json:"voice,omitempty"`
	Tools        []tools.Schema `json:"tools"`
	ToolChoice   string         `json:"tool_choice"`
}

// injectSession rewrites a client session.update so the session carries the
// relay-owned instructions, voice, and tool declarations regardless of what
// the browser sent.
func injectSession(raw []byte, voice string, schemas []tools.Schema) ([]byte, error) {
	var msg map[string]json.RawMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode session.update: %w", err)
	}

	session := map[string]json.RawMessage{}
	if rawSession, ok := msg["session"]; ok {
		if err := json.Unmarshal(rawSession, &session); err != nil {
			return nil, fmt.Errorf("decode session.update session: %w", err)
		}
	}

	overrides := sessionConfig{
		Instructions: Instructions,
		Voice:        voice,
		Tools:        schemas,
		ToolChoice:   "auto",
	}
	rawOverrides, err := json.Marshal(overrides)
	if err != nil {
		return nil, fmt.Errorf("encode session overrides: %w", err)
	}
	var overrideFields map[string]json.RawMessage
	if err := json.Unmarshal(rawOverrides, &overrideFields); err != nil {
		return nil, fmt.Errorf("merge session overrides: %w", err)
	}
	for k, v := range overrideFields {
		session[k] = v
	}

	rawSession, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	msg["session"] = rawSession

	return json.Marshal(msg)
}

// functionCallOutput is the conversation item feeding a tool result back to
// the model.
func functionCallOutput(callID, output string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": typeItemCreate,
		"item": map[string]any{
			"type":    "function_call_output",
			"call_id": callID,
			"output":  output,
		},
	})
}

// toolResponseToClient is the out-of-band event surfacing a client-bound tool
// result to the browser.
func toolResponseToClient(toolName string, payload any) ([]byte, error) {
	result, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return json.Marshal(map[string]any{
		"type":        typeToolResponseToWeb,
		"tool_name":   toolName,
		"tool_result": string(result),
	})
}

// stripFunctionCalls removes function_call items from a response.done event
// so tool plumbing never reaches the browser. The second return value reports
// whether anything was removed.
func stripFunctionCalls(raw []byte) ([]byte, bool, error) {
	var msg map[string]json.RawMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, false, fmt.Errorf("decode response.done: %w", err)
	}
	rawResponse, ok := msg["response"]
	if !ok {
		return raw, false, nil
	}

	var response map[string]json.RawMessage
	if err := json.Unmarshal(rawResponse, &response); err != nil {
		return nil, false, fmt.Errorf("decode response.done response: %w", err)
	}
	rawOutput, ok := response["output"]
	if !ok {
		return raw, false, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawOutput, &items); err != nil {
		return nil, false, fmt.Errorf("decode response.done output: %w", err)
	}

	kept := make([]json.RawMessage, 0, len(items))
	for _, rawItem := range items {
		var item outputItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			return nil, false, fmt.Errorf("decode response.done output item: %w", err)
		}
		if item.Type == "function_call" {
			continue
		}
		kept = append(kept, rawItem)
	}
	if len(kept) == len(items) {
		return raw, false, nil
	}

	rawOutput, err := json.Marshal(kept)
	if err != nil {
		return nil, false, fmt.Errorf("encode response.done output: %w", err)
	}
	response["output"] = rawOutput
	rawResponse, err = json.Marshal(response)
	if err != nil {
		return nil, false, fmt.Errorf("encode response.done response: %w", err)
	}
	msg["response"] = rawResponse

	out, err := json.Marshal(msg)
	return out, true, err
}
