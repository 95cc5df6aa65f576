package agent

import (
	"context"
	"testing"

	"scenario_valuation/pkg/core/llm"
)

func TestGetProvider_RoleOverride(t *testing.T) {
	mgr := NewManager(Config{
		ActiveProvider: "gemini",
		Agents: map[string]AgentConfig{
			"research": {Provider: "canned"},
		},
	})
	canned := &llm.StaticProvider{Response: "ok"}
	mgr.RegisterProvider("canned", canned)

	if mgr.GetProvider("research") != canned {
		t.Error("role override should win")
	}
	if _, ok := mgr.GetProvider("chat").(*llm.GeminiProvider); !ok {
		t.Error("unconfigured role should fall back to the active provider")
	}
}

func TestExecutePrompt_UsesConfiguredModel(t *testing.T) {
	mgr := NewManager(Config{ActiveProvider: "canned"})
	mgr.RegisterProvider("canned", &llm.StaticProvider{Response: "hello"})

	out, err := mgr.ExecutePrompt(context.Background(), "chat", "hi", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Errorf("got '%s'", out)
	}
}

func TestSetGlobalProvider(t *testing.T) {
	mgr := NewManager(Config{ActiveProvider: "gemini"})
	if err := mgr.SetGlobalProvider("missing"); err == nil {
		t.Error("unknown provider should be rejected")
	}
	mgr.RegisterProvider("canned", &llm.StaticProvider{})
	if err := mgr.SetGlobalProvider("canned"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
