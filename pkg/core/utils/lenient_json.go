// Package utils holds small shared helpers for taming LLM output: lenient
// JSON parsing and markdown cleanup.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual model-output defects: single quotes, unquoted
// keys, trailing commas, unclosed brackets, markdown code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %v", err)
	}
	return repaired, nil
}

// SmartParse unmarshals input into schema, escalating through parsing
// strategies: strict JSON, Hjson, then repaired JSON. Hjson must run before
// repair: repair never reports failure on quoteless hjson-style output, it
// just collapses it into one mangled string field, so putting it earlier
// would shadow the hjson strategy with silently corrupted fields.
func SmartParse(input string, schema interface{}) error {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return nil
	}

	if err := hjson.Unmarshal([]byte(input), schema); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	return fmt.Errorf("all parsing strategies failed for model output")
}
