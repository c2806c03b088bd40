package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

const shapeRecordAnalysis = "record_analysis"

type analyzerImpl struct {
	runner compose.Runnable[map[string]any, analysisOutput]
}

type analysisOutput struct {
	Summary    string `json:"summary"`
	FutureStep string `json:"future_step"`
	Contact    string `json:"contact,omitempty"`
}

func recordAnalysisShape() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: shapeRecordAnalysis,
		Desc: "Record the updated assessment of the conversation.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"summary": {
				Type: schema.String,
				Desc: "In step 1 it looks like: \"We are on step 1.\n" +
					"Bond. Important information I know about her (x/3): some info, another info.\n" +
					"Image of unavailable guy (x/1): tools used and context.\n" +
					"Fun stories (x/1): what stories Conversator has told.\". " +
					"In step 2 it describes whether a non-obligatory meeting was proposed, " +
					"whether she was asked for her number, whether comfort was built, " +
					"and some context around those facts.",
				Required: true,
			},
			"future_step": {
				Type: schema.String,
				Desc: "\"step1\" if we are in step 1 and not every condition of that step is met. " +
					"\"step2\" if we are in step 1 and all conditions are met " +
					"(at least 3 facts known, 1 unavailability tool used, 1 fun story told), " +
					"or if we are already in step 2.",
				Required: true,
			},
			"contact": {
				Type: schema.String,
				Desc: "Type of contact and the contact itself if she provided one in the last messages, " +
					"for example \"Phone 123456789\", \"Facebook Name Surname\", \"Instagram insta_nick\". " +
					"Leave blank when no contact was given.",
			},
		}),
	}
}

func newAnalyzer(ctx context.Context, chatModel einomodel.ToolCallingChatModel, promptText string) (*analyzerImpl, error) {
	if strings.TrimSpace(promptText) == "" {
		return nil, fmt.Errorf("%w: analyzer prompt", contractx.ErrPromptMissing)
	}

	runner, err := compileShapeGraph[analysisOutput](ctx, chatModel, promptText, recordAnalysisShape(), "roles.analyzer_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile analyzer graph: %v", contractx.ErrModelInvoke, err)
	}
	return &analyzerImpl{runner: runner}, nil
}

func (a *analyzerImpl) Analyze(ctx context.Context, req contractx.AnalyzeRequest) (contractx.StageAnalysis, error) {
	if strings.TrimSpace(req.Messages) == "" {
		return contractx.StageAnalysis{}, fmt.Errorf("%w: messages are required", contractx.ErrValidation)
	}

	out, err := a.runner.Invoke(ctx, map[string]any{
		"summary":  req.Summary,
		"messages": req.Messages,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrSchemaViolation) {
			return contractx.StageAnalysis{}, err
		}
		return contractx.StageAnalysis{}, fmt.Errorf("%w: analyzer invoke: %v", contractx.ErrModelInvoke, err)
	}

	summary := strings.TrimSpace(out.Summary)
	if summary == "" {
		return contractx.StageAnalysis{}, fmt.Errorf("%w: analyzer summary is empty", contractx.ErrSchemaViolation)
	}

	phase, ok := contractx.ParsePhase(out.FutureStep)
	if !ok {
		return contractx.StageAnalysis{}, fmt.Errorf("%w: unsupported future_step=%q", contractx.ErrSchemaViolation, out.FutureStep)
	}

	return contractx.StageAnalysis{
		Summary:   summary,
		NextPhase: phase,
		Contact:   strings.TrimSpace(out.Contact),
	}, nil
}
