package respondernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	llmx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/llm"
)

func WriteReply(
	ctx context.Context,
	in *GraphState,
	writer contractx.Writer,
	retry llmx.RetryPolicy,
	language string,
	city string,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	draft, err := llmx.InvokeWithRetry(ctx, retry, "Writer", func(ctx context.Context) (contractx.MessageDraft, error) {
		return writer.Write(ctx, contractx.WriteRequest{
			Guidance: in.Guidance,
			Messages: in.Messages,
			Language: language,
			City:     city,
		})
	})
	if err != nil {
		return nil, err
	}

	in.Draft = draft
	return in, nil
}
