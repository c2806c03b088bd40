package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

// compileShapeGraph wires prompt -> shape-bound model -> decode into one
// runnable. The shape is bound as the model's only tool, so its field
// descriptions travel with every request instead of living in documentation.
func compileShapeGraph[T any](
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	promptText string,
	shape *schema.ToolInfo,
	graphName string,
) (compose.Runnable[map[string]any, T], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(promptText),
	)

	boundModel, err := chatModel.WithTools([]*schema.ToolInfo{shape})
	if err != nil {
		return nil, fmt.Errorf("bind shape %s: %w", shape.Name, err)
	}

	graph := compose.NewGraph[map[string]any, T]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add shape prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", boundModel); err != nil {
		return nil, fmt.Errorf("add shape model node: %w", err)
	}
	if err := graph.AddLambdaNode("decode",
		compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (T, error) {
			return decodeShape[T](msg, shape.Name)
		}),
	); err != nil {
		return nil, fmt.Errorf("add shape decode node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add shape edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add shape edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "decode"); err != nil {
		return nil, fmt.Errorf("add shape edge model->decode: %w", err)
	}
	if err := graph.AddEdge("decode", compose.END); err != nil {
		return nil, fmt.Errorf("add shape edge decode->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile shape graph: %w", err)
	}
	return runner, nil
}

// decodeShape reads the structured record from the shape's tool call when the
// model made one, otherwise from raw content, so plain-JSON answers parse too.
func decodeShape[T any](msg *schema.Message, shapeName string) (T, error) {
	var out T
	if msg == nil {
		return out, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}

	for _, call := range msg.ToolCalls {
		if strings.TrimSpace(call.Function.Name) != shapeName {
			continue
		}
		raw := strings.TrimSpace(call.Function.Arguments)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return out, fmt.Errorf("%w: decode %s arguments: %v", contractx.ErrSchemaViolation, shapeName, err)
		}
		return out, nil
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return out, fmt.Errorf("%w: model returned neither a %s call nor content", contractx.ErrSchemaViolation, shapeName)
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return out, fmt.Errorf("%w: decode %s content: %v", contractx.ErrSchemaViolation, shapeName, err)
	}
	return out, nil
}
