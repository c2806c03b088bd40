package roles

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	llmx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/llm"
	promptx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/prompt"
)

type registryImpl struct {
	analyzer contractx.Analyzer
	step1    contractx.Commander
	step2    contractx.Commander
	writer   contractx.Writer
}

func (r *registryImpl) Analyzer() contractx.Analyzer {
	return r.analyzer
}

// Commander returns the selector for the given phase. Anything other than
// step1 falls through to the step2 selector; the progression never moves
// backwards, so there is no stricter mapping to preserve.
func (r *registryImpl) Commander(phase contractx.Phase) contractx.Commander {
	if phase == contractx.PhaseStep1 {
		return r.step1
	}
	return r.step2
}

func (r *registryImpl) Writer() contractx.Writer {
	return r.writer
}

func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	analyzerModelCfg := cfg.OpenRouterFor(contractx.RoleAnalyzer)
	analyzerModel, err := analyzerModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create analyzer model: %v", contractx.ErrModelInvoke, err)
	}
	commanderModelCfg := cfg.OpenRouterFor(contractx.RoleCommander)
	commanderModel, err := commanderModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create commander model: %v", contractx.ErrModelInvoke, err)
	}
	writerModelCfg := cfg.OpenRouterFor(contractx.RoleWriter)
	writerModel, err := writerModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create writer model: %v", contractx.ErrModelInvoke, err)
	}

	analyzer, err := newAnalyzer(ctx, analyzerModel, prompts.Analyzer)
	if err != nil {
		return nil, err
	}
	step1, err := newCommander(ctx, contractx.PhaseStep1, commanderModel, prompts.CommanderStep1)
	if err != nil {
		return nil, err
	}
	step2, err := newCommander(ctx, contractx.PhaseStep2, commanderModel, prompts.CommanderStep2)
	if err != nil {
		return nil, err
	}
	writer, err := newWriter(ctx, writerModel, prompts.Writer)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		analyzer: analyzer,
		step1:    step1,
		step2:    step2,
		writer:   writer,
	}, nil
}
