package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

func baseConfig() Config {
	return Config{
		APIKey:               "key",
		Model:                "openai/gpt-4o",
		MaxCompletionToken:   2000,
		AnalyzerTemperature:  0,
		CommanderTemperature: 0.4,
		WriterTemperature:    0.7,
	}
}

func TestOpenRouterForRoleTemperatures(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()

	if got := cfg.OpenRouterFor(contractx.RoleAnalyzer).Temperature; got != 0 {
		t.Fatalf("analyzer temperature = %v, want 0", got)
	}
	if got := cfg.OpenRouterFor(contractx.RoleCommander).Temperature; got != 0.4 {
		t.Fatalf("commander temperature = %v, want 0.4", got)
	}
	if got := cfg.OpenRouterFor(contractx.RoleWriter).Temperature; got != 0.7 {
		t.Fatalf("writer temperature = %v, want 0.7", got)
	}
}

func TestOpenRouterForModelOverride(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.WriterModel = "anthropic/claude-sonnet-4"

	if got := cfg.OpenRouterFor(contractx.RoleWriter).Model; got != "anthropic/claude-sonnet-4" {
		t.Fatalf("writer model = %q, want override", got)
	}
	if got := cfg.OpenRouterFor(contractx.RoleAnalyzer).Model; got != "openai/gpt-4o" {
		t.Fatalf("analyzer model = %q, want shared default", got)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg.APIKey = "  "
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank api key, got %v", err)
	}
}
