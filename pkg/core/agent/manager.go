// Package agent selects which LLM provider serves each assistant role,
// driven by config/models.yaml.
package agent

import (
	"context"
	"fmt"

	"scenario_valuation/pkg/core/llm"
)

// Config mirrors config/models.yaml.
type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

// AgentConfig is a per-role override.
type AgentConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	Description string `yaml:"description"`
}

type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini": &llm.GeminiProvider{},
		},
	}
}

// RegisterProvider installs or replaces a named provider. Tests hook a
// StaticProvider in through here.
func (m *Manager) RegisterProvider(name string, p llm.Provider) {
	m.providers[name] = p
}

// GetProvider resolves the provider for an agent role: per-role override
// first, then the global active provider, then gemini.
func (m *Manager) GetProvider(agentType string) llm.Provider {
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// ExecutePrompt runs a prompt through the provider configured for the role.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)
	if provider == nil {
		return "", fmt.Errorf("no provider available for agent '%s'", agentType)
	}
	if options == nil {
		options = map[string]interface{}{}
	}
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Model != "" {
		if _, set := options["model"]; !set {
			options["model"] = agentConfig.Model
		}
	}
	return provider.GenerateResponse(ctx, prompt, systemPrompt, options)
}

// GetActiveProvider reports the current global provider name.
func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}

// ListProviders returns the names of all registered providers.
func (m *Manager) ListProviders() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

// SetGlobalProvider switches the default provider at runtime.
func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	fmt.Printf("[AGENT] Global provider set to: %s\n", name)
	return nil
}
