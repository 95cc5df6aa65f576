// Package llm abstracts the generative-language backends the assistant can
// run against.
package llm

import (
	"context"
)

// Provider is the interface all LLM backends implement. Options carry
// provider-specific switches (json mode, grounding, model override).
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// StaticProvider returns a fixed response. Used to exercise the assistant
// loop in tests without network access.
type StaticProvider struct {
	Response string
	Err      error
}

func (p *StaticProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	return p.Response, nil
}
