package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/openrouter"
)

// Config carries the shared OpenRouter settings plus per-role overrides.
// Role temperatures default to the values the pipeline was tuned with:
// deterministic analysis, mildly creative tactic selection, creative writing.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	AnalyzerModel        string  `envconfig:"ANALYZER_MODEL" split_words:"true"`
	CommanderModel       string  `envconfig:"COMMANDER_MODEL" split_words:"true"`
	WriterModel          string  `envconfig:"WRITER_MODEL" split_words:"true"`
	AnalyzerTemperature  float32 `envconfig:"ANALYZER_TEMPERATURE" split_words:"true" default:"0"`
	CommanderTemperature float32 `envconfig:"COMMANDER_TEMPERATURE" split_words:"true" default:"0.4"`
	WriterTemperature    float32 `envconfig:"WRITER_TEMPERATURE" split_words:"true" default:"0.7"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the effective model and temperature for a role.
func (c Config) OpenRouterFor(role contractx.Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	var temp float32

	switch role {
	case contractx.RoleAnalyzer:
		if v := strings.TrimSpace(c.AnalyzerModel); v != "" {
			modelName = v
		}
		temp = c.AnalyzerTemperature
	case contractx.RoleCommander:
		if v := strings.TrimSpace(c.CommanderModel); v != "" {
			modelName = v
		}
		temp = c.CommanderTemperature
	case contractx.RoleWriter:
		if v := strings.TrimSpace(c.WriterModel); v != "" {
			modelName = v
		}
		temp = c.WriterTemperature
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
