package respondernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
)

func SelectTactics(
	ctx context.Context,
	in *GraphState,
	registry contractx.Registry,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	// The commander sees the summary the analyzer just produced, not the
	// stored one.
	commander := registry.Commander(in.Analysis.NextPhase)
	tactics, err := commander.SelectTactics(ctx, contractx.TacticRequest{
		Summary:  in.Analysis.Summary,
		Messages: in.Messages,
	})
	if err != nil {
		return nil, err
	}

	in.Tactics = tactics
	return in, nil
}
