package roles

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

const shapeSelectTactics = "select_tactics"

type commanderImpl struct {
	phase  contractx.Phase
	runner compose.Runnable[map[string]any, tacticOutput]
}

type tacticOutput struct {
	Reasoning string   `json:"reasoning"`
	Tags      []string `json:"tags"`
}

// selectTacticsShape varies with the phase: the tag vocabulary in the field
// description is the only place the closed set is spelled out for the model.
func selectTacticsShape(phase contractx.Phase) *schema.ToolInfo {
	vocabulary := contractx.TagsForPhase(phase)
	quoted := make([]string, len(vocabulary))
	for i, tag := range vocabulary {
		quoted[i] = strconv.Quote(tag)
	}

	return &schema.ToolInfo{
		Name: shapeSelectTactics,
		Desc: "Select the persuasion tactics for the next message.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"reasoning": {
				Type:     schema.String,
				Desc:     "Step-by-step reasoning in two sentences about what the next message should be about and why.",
				Required: true,
			},
			"tags": {
				Type:     schema.Array,
				ElemInfo: &schema.ParameterInfo{Type: schema.String},
				Desc: "Tags chosen among " + strings.Join(quoted, ", ") + ". " +
					"Write only the tags directly related to your suggestion, " +
					"as an array even when proposing a single tag.",
				Required: true,
			},
		}),
	}
}

func newCommander(
	ctx context.Context,
	phase contractx.Phase,
	chatModel einomodel.ToolCallingChatModel,
	promptText string,
) (*commanderImpl, error) {
	if strings.TrimSpace(promptText) == "" {
		return nil, fmt.Errorf("%w: commander prompt for %s", contractx.ErrPromptMissing, phase)
	}

	graphName := "roles.commander_graph." + string(phase)
	runner, err := compileShapeGraph[tacticOutput](ctx, chatModel, promptText, selectTacticsShape(phase), graphName)
	if err != nil {
		return nil, fmt.Errorf("%w: compile commander graph for %s: %v", contractx.ErrModelInvoke, phase, err)
	}
	return &commanderImpl{phase: phase, runner: runner}, nil
}

func (c *commanderImpl) SelectTactics(ctx context.Context, req contractx.TacticRequest) (contractx.TacticSelection, error) {
	if strings.TrimSpace(req.Messages) == "" {
		return contractx.TacticSelection{}, fmt.Errorf("%w: messages are required", contractx.ErrValidation)
	}

	out, err := c.runner.Invoke(ctx, map[string]any{
		"summary":  req.Summary,
		"messages": req.Messages,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrSchemaViolation) {
			return contractx.TacticSelection{}, err
		}
		return contractx.TacticSelection{}, fmt.Errorf("%w: commander invoke: %v", contractx.ErrModelInvoke, err)
	}

	// Tags pass through as the model wrote them. Vocabulary discipline is a
	// prompt-level contract; an off-vocabulary tag surfaces later as a rule
	// lookup miss instead of being clipped here.
	tags := make([]string, 0, len(out.Tags))
	for _, tag := range out.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return contractx.TacticSelection{}, fmt.Errorf("%w: commander returned no tags", contractx.ErrSchemaViolation)
	}

	return contractx.TacticSelection{
		Reasoning: strings.TrimSpace(out.Reasoning),
		Tags:      tags,
	}, nil
}
