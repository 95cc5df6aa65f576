// Package assistant implements the conversational copilot that sits on top
// of the scenario store, the projection engine and the valuation math. The
// model replies either with prose or with a tool call; that choice is
// modeled as a tagged union so callers switch exhaustively on Type instead
// of probing an untyped map.
package assistant

import (
	"fmt"
	"strings"

	"scenario_valuation/pkg/core/utils"
)

// ActionType discriminates the two shapes a model reply can take.
type ActionType string

const (
	ActionToolCall ActionType = "TOOL_CALL"
	ActionText     ActionType = "TEXT"
)

// Tool names the model is allowed to invoke.
const (
	ToolFetchActuals = "fetch_actuals"
	ToolSetDriver    = "set_driver"
	ToolRunValuation = "run_valuation"
)

// ToolCall is a request from the model to run one of the registered tools.
type ToolCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// AgentAction is the parsed model reply. Exactly one of Text or ToolCall is
// meaningful, selected by Type.
type AgentAction struct {
	Type     ActionType `json:"type"`
	Text     string     `json:"text,omitempty"`
	ToolCall *ToolCall  `json:"toolCall,omitempty"`
}

// rawAction mirrors the wire shape the model is prompted to produce.
type rawAction struct {
	Type     string                 `json:"type"`
	Text     string                 `json:"text"`
	ToolName string                 `json:"tool"`
	Args     map[string]interface{} `json:"args"`
}

// ParseAgentAction turns a raw model reply into an AgentAction. Model output
// is frequently almost-JSON (single quotes, trailing commas, markdown
// fences), so parsing goes through the lenient pipeline. Replies that fail
// every parse strategy, or that parse but carry no recognizable type, are
// treated as plain text rather than dropped.
func ParseAgentAction(raw string) AgentAction {
	cleaned := strings.TrimSpace(utils.CleanMarkdown(raw))
	if cleaned == "" {
		return AgentAction{Type: ActionText, Text: ""}
	}

	var parsed rawAction
	if err := utils.SmartParse(cleaned, &parsed); err != nil {
		return AgentAction{Type: ActionText, Text: cleaned}
	}

	switch strings.ToUpper(strings.TrimSpace(parsed.Type)) {
	case string(ActionToolCall):
		if parsed.ToolName == "" {
			return AgentAction{Type: ActionText, Text: cleaned}
		}
		args := parsed.Args
		if args == nil {
			args = map[string]interface{}{}
		}
		return AgentAction{
			Type:     ActionToolCall,
			ToolCall: &ToolCall{Name: parsed.ToolName, Args: args},
		}
	case string(ActionText):
		return AgentAction{Type: ActionText, Text: parsed.Text}
	default:
		return AgentAction{Type: ActionText, Text: cleaned}
	}
}

// stringArg extracts a required string argument from a tool call.
func stringArg(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("argument %q must be a non-empty string", key)
	}
	return strings.TrimSpace(s), nil
}

// floatArg extracts a required numeric argument from a tool call. JSON
// numbers decode as float64 but models occasionally quote them.
func floatArg(args map[string]interface{}, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err != nil {
			return 0, fmt.Errorf("argument %q is not a number: %v", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %q has unsupported type %T", key, v)
	}
}
