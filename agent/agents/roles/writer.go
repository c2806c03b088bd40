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

const shapeDraftMessages = "draft_messages"

type writerImpl struct {
	runner compose.Runnable[map[string]any, draftOutput]
}

type draftOutput struct {
	Reasoning string   `json:"reasoning"`
	Message   []string `json:"message"`
}

func draftMessagesShape() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: shapeDraftMessages,
		Desc: "Draft the outbound messages.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"reasoning": {
				Type:     schema.String,
				Desc:     "Take a deep breath and think through the content of your future message systematically before writing it.",
				Required: true,
			},
			"message": {
				Type:     schema.Array,
				ElemInfo: &schema.ParameterInfo{Type: schema.String},
				Desc: "The message to the girl in the requested language, split into two or three " +
					"separate consecutive messages where each one continues the previous, " +
					"with every word grammatically in the right place.",
				Required: true,
			},
		}),
	}
}

func newWriter(ctx context.Context, chatModel einomodel.ToolCallingChatModel, promptText string) (*writerImpl, error) {
	if strings.TrimSpace(promptText) == "" {
		return nil, fmt.Errorf("%w: writer prompt", contractx.ErrPromptMissing)
	}

	runner, err := compileShapeGraph[draftOutput](ctx, chatModel, promptText, draftMessagesShape(), "roles.writer_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile writer graph: %v", contractx.ErrModelInvoke, err)
	}
	return &writerImpl{runner: runner}, nil
}

func (w *writerImpl) Write(ctx context.Context, req contractx.WriteRequest) (contractx.MessageDraft, error) {
	if strings.TrimSpace(req.Messages) == "" {
		return contractx.MessageDraft{}, fmt.Errorf("%w: messages are required", contractx.ErrValidation)
	}
	if strings.TrimSpace(req.Guidance) == "" {
		return contractx.MessageDraft{}, fmt.Errorf("%w: guidance is required", contractx.ErrValidation)
	}

	out, err := w.runner.Invoke(ctx, map[string]any{
		"rules":    req.Guidance,
		"messages": req.Messages,
		"language": req.Language,
		"city":     req.City,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrSchemaViolation) {
			return contractx.MessageDraft{}, err
		}
		return contractx.MessageDraft{}, fmt.Errorf("%w: writer invoke: %v", contractx.ErrModelInvoke, err)
	}

	segments := make([]string, 0, len(out.Message))
	for _, segment := range out.Message {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return contractx.MessageDraft{}, fmt.Errorf("%w: writer returned no message segments", contractx.ErrSchemaViolation)
	}

	return contractx.MessageDraft{
		Reasoning: strings.TrimSpace(out.Reasoning),
		Segments:  segments,
	}, nil
}
